package judge

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

const schemaName = "EvaluationResult"

// rubricSchema is the strict response schema: every section and field is
// required and nothing else is allowed.
func rubricSchema() jsonschema.Definition {
	root := jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           map[string]jsonschema.Definition{},
		AdditionalProperties: false,
	}

	var order []string
	for _, k := range rubric.Keys() {
		sec, ok := root.Properties[k.Section]
		if !ok {
			sec = jsonschema.Definition{
				Type:                 jsonschema.Object,
				Properties:           map[string]jsonschema.Definition{},
				AdditionalProperties: false,
			}
			order = append(order, k.Section)
		}
		sec.Properties[k.Field] = jsonschema.Definition{Type: jsonschema.Integer}
		sec.Required = append(sec.Required, k.Field)
		if k.Section == rubric.SectionArabic && k.Field == rubric.FieldOverall {
			sec.Properties[rubric.FieldPenaltyReason] = jsonschema.Definition{Type: jsonschema.String}
			sec.Required = append(sec.Required, rubric.FieldPenaltyReason)
		}
		root.Properties[k.Section] = sec
	}
	root.Required = order
	return root
}
