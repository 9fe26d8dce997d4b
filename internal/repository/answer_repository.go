package repository

import (
	"errors"

	"github.com/tmarlen/linguabot/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	// Upsert writes the value for (respondentID, questionCode), replacing any
	// previous value, as a single transaction.
	Upsert(respondentID uint, questionCode, value string) error
	ListByRespondent(respondentID uint) ([]model.Answer, error)
	// MapByRespondent returns the respondent's answers keyed by question code.
	MapByRespondent(respondentID uint) (map[string]string, error)
	// ListValuesByQuestion returns raw stored values for one question across
	// completed, non-archived respondents, optionally scoped to a wave.
	ListValuesByQuestion(questionCode, waveID string) ([]string, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(respondentID uint, questionCode, value string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Answer
		err := tx.Where("respondent_id = ? AND question_code = ?", respondentID, questionCode).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.Answer{
				RespondentID: respondentID,
				QuestionCode: questionCode,
				Value:        value,
			}).Error
		}
		if err != nil {
			return err
		}
		existing.Value = value
		return tx.Save(&existing).Error
	})
}

func (r *answerRepository) ListByRespondent(respondentID uint) ([]model.Answer, error) {
	var answers []model.Answer
	if err := r.db.Where("respondent_id = ?", respondentID).Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) MapByRespondent(respondentID uint) (map[string]string, error) {
	answers, err := r.ListByRespondent(respondentID)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]string, len(answers))
	for _, a := range answers {
		byCode[a.QuestionCode] = a.Value
	}
	return byCode, nil
}

func (r *answerRepository) ListValuesByQuestion(questionCode, waveID string) ([]string, error) {
	var values []string
	query := r.db.Model(&model.Answer{}).
		Joins("JOIN respondents ON respondents.id = answers.respondent_id").
		Where("answers.question_code = ?", questionCode).
		Where("respondents.completed = ? AND respondents.archived = ?", true, false)
	if waveID != "" {
		query = query.Where("respondents.wave_id = ?", waveID)
	}
	if err := query.Pluck("answers.value", &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}
