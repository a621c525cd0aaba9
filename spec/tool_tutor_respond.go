package spec

import llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

const FuncIDTutorRespond llmtoolsgoSpec.FuncID = "github.com/flexigpt/lingo-go/tutor.respond"

func TutorRespondTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c7a52-0e41-7b1c-9a63-5d2f0c8e1a01",
		Slug:          "tutor.respond",
		Version:       "v1.0.0",
		DisplayName:   "Tutor Respond",
		Description:   "send the learner's message to a practice scenario and get the scripted tutor reply",
		Tags:          []string{"tutor", "dialogue"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
"$schema":"http://json-schema.org/draft-07/schema#",
"type":"object",
"properties":{
	"scenario":{"type":"string","description":"scenario id, e.g. coffee_shop"},
	"message":{"type":"string","description":"the learner's utterance; ignored on the first turn of a scenario"}
},
"required":["scenario"],
"additionalProperties":false
}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDTutorRespond},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
