package spec

import llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

const FuncIDWritingExplain llmtoolsgoSpec.FuncID = "github.com/flexigpt/lingo-go/writing.explain"

func WritingExplainTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c7a52-0e41-7b1c-9a63-5d2f0c8e1a03",
		Slug:          "writing.explain",
		Version:       "v1.0.0",
		DisplayName:   "Writing Explain",
		Description:   "explain the meaning of a vocabulary word with an example sentence",
		Tags:          []string{"writing", "vocabulary"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
"$schema":"http://json-schema.org/draft-07/schema#",
"type":"object",
"properties":{
	"word":{"type":"string","description":"a single English word"}
},
"required":["word"],
"additionalProperties":false
}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDWritingExplain},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
