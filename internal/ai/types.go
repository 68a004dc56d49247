package ai

// Summary is the executive narrative produced for an assessment.
type Summary struct {
	Narrative  string   `json:"narrative"`
	Highlights []string `json:"highlights,omitempty"`
	Source     string   `json:"source"`
}

const (
	SourceOpenAI   = "openai"
	SourceTemplate = "template"
)
