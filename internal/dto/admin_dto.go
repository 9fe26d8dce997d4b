package dto

// StatsDTO carries a statistics report pre-split into transport-sized chunks.
type StatsDTO struct {
	Wave   string   `json:"wave,omitempty"`
	Chunks []string `json:"chunks"`
}

type OpenAnswersDTO struct {
	QuestionCode string   `json:"question_code"`
	Title        string   `json:"title"`
	Answers      []string `json:"answers"`
}

type SummaryDTO struct {
	QuestionCode string `json:"question_code"`
	Summary      string `json:"summary"`
}
