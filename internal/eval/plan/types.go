package plan

// Plan is a YAML list of evaluation jobs run one after another by the
// evaluate command. Defaults fill every field a job leaves empty.
type Plan struct {
	Defaults Job   `yaml:"defaults"`
	Jobs     []Job `yaml:"jobs"`
}

type Job struct {
	Name          string `yaml:"name"`
	Language      string `yaml:"language,omitempty"`
	Mode          string `yaml:"mode,omitempty"`
	Dataset       string `yaml:"dataset,omitempty"`
	GenModel      string `yaml:"gen_model,omitempty"`
	AnswersLabel  string `yaml:"answers_label,omitempty"`
	JudgeModel    string `yaml:"judge_model,omitempty"`
	ComparisonCSV string `yaml:"comparison_csv,omitempty"`
	Overwrite     bool   `yaml:"overwrite,omitempty"`
	Limit         int    `yaml:"limit,omitempty"`
}
