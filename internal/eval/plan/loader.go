package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan YAML: %w", err)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

var validModes = map[string]bool{
	"dataset":           true,
	"generate-openai":   true,
	"generate-together": true,
}

func validate(p *Plan) error {
	if len(p.Jobs) == 0 {
		return fmt.Errorf("plan has no jobs")
	}
	seen := make(map[string]bool, len(p.Jobs))
	for i := range p.Jobs {
		j := &p.Jobs[i]
		if j.Name == "" {
			return fmt.Errorf("job at index %d has no name", i)
		}
		if seen[j.Name] {
			return fmt.Errorf("duplicate job name %q", j.Name)
		}
		seen[j.Name] = true

		applyDefaults(j, p.Defaults)

		if j.Mode == "" {
			j.Mode = "dataset"
		}
		if !validModes[j.Mode] {
			return fmt.Errorf("job %q has invalid mode %q", j.Name, j.Mode)
		}
		if j.Mode == "dataset" && j.Dataset == "" {
			return fmt.Errorf("job %q has no dataset", j.Name)
		}
		if j.Mode != "dataset" && j.GenModel == "" {
			return fmt.Errorf("job %q has no gen_model", j.Name)
		}
		if j.Limit < 0 {
			return fmt.Errorf("job %q has negative limit", j.Name)
		}
	}
	return nil
}

func applyDefaults(j *Job, d Job) {
	if j.Language == "" {
		j.Language = d.Language
	}
	if j.Mode == "" {
		j.Mode = d.Mode
	}
	if j.Dataset == "" {
		j.Dataset = d.Dataset
	}
	if j.JudgeModel == "" {
		j.JudgeModel = d.JudgeModel
	}
	if j.ComparisonCSV == "" {
		j.ComparisonCSV = d.ComparisonCSV
	}
	if j.Limit == 0 {
		j.Limit = d.Limit
	}
	if d.Overwrite {
		j.Overwrite = true
	}
}
