package repository

import (
	"errors"
	"time"

	"github.com/tmarlen/linguabot/internal/model"
	"gorm.io/gorm"
)

// ErrNoActiveRespondent means the user has no non-archived survey attempt.
var ErrNoActiveRespondent = errors.New("no active respondent")

type RespondentRepository interface {
	Create(respondent *model.Respondent) error
	Update(respondent *model.Respondent) error
	FindByID(id uint) (*model.Respondent, error)
	FindActiveByUserID(userID int64) (*model.Respondent, error)
	Archive(id uint) error
	MarkCompleted(id uint, completedAt time.Time) error
	ListCompleted(waveID string) ([]model.Respondent, error)
	Count(waveID string, completedOnly bool) (int64, error)
}

type respondentRepository struct {
	db *gorm.DB
}

func NewRespondentRepository(db *gorm.DB) RespondentRepository {
	return &respondentRepository{db: db}
}

func (r *respondentRepository) Create(respondent *model.Respondent) error {
	return r.db.Create(respondent).Error
}

func (r *respondentRepository) Update(respondent *model.Respondent) error {
	return r.db.Save(respondent).Error
}

func (r *respondentRepository) FindByID(id uint) (*model.Respondent, error) {
	var respondent model.Respondent
	if err := r.db.First(&respondent, id).Error; err != nil {
		return nil, err
	}
	return &respondent, nil
}

func (r *respondentRepository) FindActiveByUserID(userID int64) (*model.Respondent, error) {
	var respondent model.Respondent
	err := r.db.Where("user_id = ? AND archived = ?", userID, false).First(&respondent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveRespondent
	}
	if err != nil {
		return nil, err
	}
	return &respondent, nil
}

func (r *respondentRepository) Archive(id uint) error {
	return r.db.Model(&model.Respondent{}).Where("id = ?", id).Update("archived", true).Error
}

func (r *respondentRepository) MarkCompleted(id uint, completedAt time.Time) error {
	return r.db.Model(&model.Respondent{}).Where("id = ?", id).
		Updates(map[string]interface{}{"completed": true, "completed_at": completedAt}).Error
}

func (r *respondentRepository) ListCompleted(waveID string) ([]model.Respondent, error) {
	var respondents []model.Respondent
	query := r.db.Where("completed = ? AND archived = ?", true, false)
	if waveID != "" {
		query = query.Where("wave_id = ?", waveID)
	}
	if err := query.Order("id ASC").Find(&respondents).Error; err != nil {
		return nil, err
	}
	return respondents, nil
}

func (r *respondentRepository) Count(waveID string, completedOnly bool) (int64, error) {
	var count int64
	query := r.db.Model(&model.Respondent{}).Where("archived = ?", false)
	if completedOnly {
		query = query.Where("completed = ?", true)
	}
	if waveID != "" {
		query = query.Where("wave_id = ?", waveID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
