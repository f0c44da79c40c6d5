package rubric

// Section names as they appear in judge output, ledger records and the comparison table.
const (
	SectionAdherence  = "Adherence"
	SectionKindness   = "Kindness_and_Gentleness"
	SectionInterfaith = "Interfaith_Sensitivity"
	SectionArabic     = "Arabic_Accuracy"

	FieldOverall       = "Overall"
	FieldPenaltyReason = "Penalty_Reason"
	FieldPurityPct     = "Heuristic_Arabic_Purity_Pct"
)

// Key addresses one integer field of a Score.
type Key struct {
	Section string
	Field   string
}

func (k Key) String() string {
	return k.Section + "." + k.Field
}

type Adherence struct {
	Core             int `json:"Core"`
	Secondary        int `json:"Secondary"`
	TertiaryHandling int `json:"Tertiary_Handling"`
	BiblicalBasis    int `json:"Biblical_Basis"`
	Consistency      int `json:"Consistency"`
	Overall          int `json:"Overall"`
}

type Kindness struct {
	CoreClarityWithKindness int `json:"Core_Clarity_with_Kindness"`
	PastoralSensitivity     int `json:"Pastoral_Sensitivity"`
	SecondaryFairness       int `json:"Secondary_Fairness"`
	TertiaryNeutrality      int `json:"Tertiary_Neutrality"`
	Tone                    int `json:"Tone"`
	Overall                 int `json:"Overall"`
}

type Interfaith struct {
	RespectAndHandlingObjections int `json:"Respect_and_Handling_Objections"`
	ObjectionAcknowledgement     int `json:"Objection_Acknowledgement"`
	Evangelism                   int `json:"Evangelism"`
	GospelBoldness               int `json:"Gospel_Boldness"`
	Overall                      int `json:"Overall"`
}

type ArabicAccuracy struct {
	GrammarAndSyntax   int     `json:"Grammar_and_Syntax"`
	TheologicalNuance  int     `json:"Theological_Nuance"`
	ContextualClarity  int     `json:"Contextual_Clarity"`
	ConsistencyOfTerms int     `json:"Consistency_of_Terms"`
	ArabicPurity       int     `json:"Arabic_Purity"`
	PenaltyReason      string  `json:"Penalty_Reason,omitempty"`
	PurityPct          float64 `json:"Heuristic_Arabic_Purity_Pct"`
	Overall            int     `json:"Overall"`
}

// Score is a rubric score. A raw score comes straight from the judge; a
// normalized score has been through Enforcer.Normalize.
type Score struct {
	Adherence  Adherence      `json:"Adherence"`
	Kindness   Kindness       `json:"Kindness_and_Gentleness"`
	Interfaith Interfaith     `json:"Interfaith_Sensitivity"`
	Arabic     ArabicAccuracy `json:"Arabic_Accuracy"`
}

type field struct {
	name string
	v    *int
}

// section is the view of one rubric section the enforcer and parser work on:
// the component fields in canonical order plus the section Overall.
type section struct {
	name       string
	components []field
	overall    *int
}

func (s *Score) sections() []section {
	a, k, i, r := &s.Adherence, &s.Kindness, &s.Interfaith, &s.Arabic
	return []section{
		{
			name: SectionAdherence,
			components: []field{
				{"Core", &a.Core},
				{"Secondary", &a.Secondary},
				{"Tertiary_Handling", &a.TertiaryHandling},
				{"Biblical_Basis", &a.BiblicalBasis},
				{"Consistency", &a.Consistency},
			},
			overall: &a.Overall,
		},
		{
			name: SectionKindness,
			components: []field{
				{"Core_Clarity_with_Kindness", &k.CoreClarityWithKindness},
				{"Pastoral_Sensitivity", &k.PastoralSensitivity},
				{"Secondary_Fairness", &k.SecondaryFairness},
				{"Tertiary_Neutrality", &k.TertiaryNeutrality},
				{"Tone", &k.Tone},
			},
			overall: &k.Overall,
		},
		{
			name: SectionInterfaith,
			components: []field{
				{"Respect_and_Handling_Objections", &i.RespectAndHandlingObjections},
				{"Objection_Acknowledgement", &i.ObjectionAcknowledgement},
				{"Evangelism", &i.Evangelism},
				{"Gospel_Boldness", &i.GospelBoldness},
			},
			overall: &i.Overall,
		},
		{
			name: SectionArabic,
			components: []field{
				{"Grammar_and_Syntax", &r.GrammarAndSyntax},
				{"Theological_Nuance", &r.TheologicalNuance},
				{"Contextual_Clarity", &r.ContextualClarity},
				{"Consistency_of_Terms", &r.ConsistencyOfTerms},
				{"Arabic_Purity", &r.ArabicPurity},
			},
			overall: &r.Overall,
		},
	}
}

// Each calls fn for every integer field in canonical order: per section, the
// component fields first and then Overall.
func (s Score) Each(fn func(Key, int)) {
	for _, sec := range s.sections() {
		for _, f := range sec.components {
			fn(Key{Section: sec.name, Field: f.name}, *f.v)
		}
		fn(Key{Section: sec.name, Field: FieldOverall}, *sec.overall)
	}
}

// Keys lists every integer field of the rubric in canonical order.
func Keys() []Key {
	var keys []Key
	Score{}.Each(func(k Key, _ int) { keys = append(keys, k) })
	return keys
}

// Get returns the value stored under k.
func (s Score) Get(k Key) (int, bool) {
	for _, sec := range s.sections() {
		if sec.name != k.Section {
			continue
		}
		if k.Field == FieldOverall {
			return *sec.overall, true
		}
		for _, f := range sec.components {
			if f.name == k.Field {
				return *f.v, true
			}
		}
	}
	return 0, false
}

// Uniform returns a score with every integer field set to v.
func Uniform(v int) Score {
	var s Score
	for _, sec := range s.sections() {
		for _, f := range sec.components {
			*f.v = v
		}
		*sec.overall = v
	}
	return s
}
