package spec

import llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

const FuncIDTutorListScenarios llmtoolsgoSpec.FuncID = "github.com/flexigpt/lingo-go/tutor.list_scenarios"

func TutorListScenariosTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c7a52-0e41-7b1c-9a63-5d2f0c8e1a02",
		Slug:          "tutor.list_scenarios",
		Version:       "v1.0.0",
		DisplayName:   "Tutor List Scenarios",
		Description:   "list the practice scenarios available to the tutor",
		Tags:          []string{"tutor"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
"$schema":"http://json-schema.org/draft-07/schema#",
"type":"object",
"properties":{},
"additionalProperties":false
}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDTutorListScenarios},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
