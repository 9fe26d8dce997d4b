package dto

// Step kinds returned by the flow engine.
const (
	StepConsent     = "consent"
	StepPrompt      = "prompt"
	StepElaboration = "elaboration"
	StepSelection   = "selection"
	StepTerminal    = "terminal"
	StepNoop        = "noop"
)

// Terminal kinds.
const (
	TerminalDeclined  = "declined"
	TerminalRejected  = "rejected"
	TerminalCompleted = "completed"
)

type OptionDTO struct {
	Code                string `json:"code"`
	Label               string `json:"label"`
	RequiresElaboration bool   `json:"requires_elaboration,omitempty"`
	Selected            bool   `json:"selected,omitempty"`
}

type ProgressDTO struct {
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

// PromptDTO tells the transport which question to render next.
type PromptDTO struct {
	QuestionCode string      `json:"question_code"`
	Prompt       string      `json:"prompt"`
	Kind         string      `json:"kind"`
	Required     bool        `json:"required"`
	Options      []OptionDTO `json:"options,omitempty"`
	Progress     ProgressDTO `json:"progress"`
}

// TerminalDTO ends the conversation: declined consent, screening rejection,
// or completion with a recommendation.
type TerminalDTO struct {
	Kind           string `json:"kind"`
	Message        string `json:"message"`
	AggressionType string `json:"aggression_type,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// StepDTO is the flow engine's single outbound shape: exactly one of the
// pointer fields is set, discriminated by Kind. Message carries stage
// transition notices (follow-up intro, restart confirmation).
type StepDTO struct {
	Kind     string       `json:"kind"`
	Message  string       `json:"message,omitempty"`
	Prompt   *PromptDTO   `json:"prompt,omitempty"`
	Terminal *TerminalDTO `json:"terminal,omitempty"`
}

type StatusDTO struct {
	Answered  int `json:"answered"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
