package model

import (
	"time"
)

// Answer is one respondent's value for one question code. Value holds an
// option code ("Q1_OP2"), a composite with elaboration text ("Q1_OP7:..."),
// a JSON array of option codes for multi-select questions, or free text.
// (respondent_id, question_code) is unique: later writes replace the value.
type Answer struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RespondentID uint      `json:"respondent_id" gorm:"not null;uniqueIndex:idx_respondent_question,priority:1"`
	QuestionCode string    `json:"question_code" gorm:"size:10;not null;uniqueIndex:idx_respondent_question,priority:2"`
	Value        string    `json:"value" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
