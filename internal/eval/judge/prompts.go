package judge

import (
	_ "embed"
	"fmt"
)

//go:embed prompts/system_ar.txt
var systemPromptAR string

//go:embed prompts/instructions_ar.txt
var instructionsAR string

const userTemplateAR = "السؤال:\n%s\n\nالإجابة:\n%s\n\nقيّم وفق التعليمات السابقة."

// Prompts is the fixed text sent ahead of every graded pair.
type Prompts struct {
	System       string
	Instructions string
	UserTemplate string
}

func DefaultPrompts() Prompts {
	return Prompts{
		System:       systemPromptAR,
		Instructions: instructionsAR,
		UserTemplate: userTemplateAR,
	}
}

func (p Prompts) userContent(question, answer string) string {
	return fmt.Sprintf(p.UserTemplate, question, answer)
}
