package model

import (
	"time"
)

// Respondent is one survey attempt by one external (chat) identity.
// Restarting the survey archives the current row instead of deleting it, so
// at most one non-archived respondent exists per user id at a time.
type Respondent struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      int64      `json:"user_id" gorm:"not null;index;index:idx_user_wave,priority:1"`
	Username    *string    `json:"username,omitempty"`
	Language    string     `json:"language" gorm:"size:2;default:'ru'"`
	Consented   bool       `json:"consented" gorm:"default:false"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	Archived    bool       `json:"archived" gorm:"default:false;index:idx_user_wave,priority:3"`
	WaveID      string     `json:"wave_id" gorm:"default:'wave_1';index:idx_user_wave,priority:2"`
	Answers     []Answer   `json:"answers,omitempty" gorm:"foreignKey:RespondentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
