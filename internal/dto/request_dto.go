package dto

// Inbound survey events. UserID is the external chat identity; the transport
// layer in front of this API is responsible for authenticating it.

type StartRequest struct {
	UserID   int64   `json:"user_id" binding:"required"`
	Username *string `json:"username,omitempty"`
}

type ConsentRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	Consented *bool `json:"consented" binding:"required"`
}

type SingleAnswerRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	QuestionCode string `json:"question_code" binding:"required"`
	OptionCode   string `json:"option_code" binding:"required"`
}

type ToggleRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	QuestionCode string `json:"question_code" binding:"required"`
	OptionCode   string `json:"option_code" binding:"required"`
}

type ConfirmRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	QuestionCode string `json:"question_code" binding:"required"`
}

type TextRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type NavigateRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

type RestartRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}
