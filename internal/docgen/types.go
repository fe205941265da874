package docgen

// Section types. A template is an ordered list of sections; which fields a
// section uses depends on its type, everything else is ignored.
const (
	SectionTitle             = "title"
	SectionHeader            = "header"
	SectionSubheader         = "subheader"
	SectionParagraph         = "paragraph"
	SectionList              = "list"
	SectionChecklist         = "checklist"
	SectionNumberedQuestions = "numbered-questions"
	SectionQuestion          = "question"
	SectionTable             = "table"
	SectionScoringTable      = "scoring-table"
	SectionCallout           = "callout"
	SectionDivider           = "divider"
	SectionEvaluationSummary = "evaluation-summary"
	SectionPriorityScale     = "priority-scale"
)

// Bounded answer shapes a question section can request. Each one turns into
// a single-row answer table whose cells are the option labels.
const (
	AnswerYesNo        = "yes-no"
	AnswerYesNoPartial = "yes-no-partial"
)

type Criterion struct {
	Name   string `yaml:"name" json:"name"`
	Weight string `yaml:"weight,omitempty" json:"weight,omitempty"`
	Score  string `yaml:"score,omitempty" json:"score,omitempty"`
	Notes  string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

type Field struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

type Level struct {
	Name        string `yaml:"name" json:"name"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Section struct {
	Type      string      `yaml:"type" json:"type"`
	Text      string      `yaml:"text,omitempty" json:"text,omitempty"`
	Style     string      `yaml:"style,omitempty" json:"style,omitempty"`
	Items     []string    `yaml:"items,omitempty" json:"items,omitempty"`
	Headers   []string    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Rows      [][]string  `yaml:"rows,omitempty" json:"rows,omitempty"`
	Number    int         `yaml:"number,omitempty" json:"number,omitempty"`
	FollowUps []string    `yaml:"followUps,omitempty" json:"followUps,omitempty"`
	Answer    string      `yaml:"answer,omitempty" json:"answer,omitempty"`
	Criteria  []Criterion `yaml:"criteria,omitempty" json:"criteria,omitempty"`
	Fields    []Field     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Levels    []Level     `yaml:"levels,omitempty" json:"levels,omitempty"`
}

type Template struct {
	Name     string            `yaml:"name" json:"name"`
	Program  string            `yaml:"program" json:"program"`
	DocType  string            `yaml:"docType" json:"docType"`
	Defaults map[string]string `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Sections []Section         `yaml:"sections" json:"sections"`
}

// MergeData layers runtime data over the template defaults. Neither input
// map is mutated.
func (t *Template) MergeData(data map[string]string) map[string]string {
	merged := make(map[string]string, len(t.Defaults)+len(data))
	for k, v := range t.Defaults {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	return merged
}
