package service

import (
	"sort"
	"time"

	"github.com/tmarlen/linguabot/internal/model"
	"github.com/tmarlen/linguabot/internal/repository"
)

// In-memory repository fakes backing the service tests.

type memRespondentRepo struct {
	nextID      uint
	respondents map[uint]*model.Respondent
}

func newMemRespondentRepo() *memRespondentRepo {
	return &memRespondentRepo{respondents: make(map[uint]*model.Respondent)}
}

func (r *memRespondentRepo) Create(respondent *model.Respondent) error {
	r.nextID++
	respondent.ID = r.nextID
	respondent.CreatedAt = time.Now()
	clone := *respondent
	r.respondents[respondent.ID] = &clone
	return nil
}

func (r *memRespondentRepo) Update(respondent *model.Respondent) error {
	clone := *respondent
	r.respondents[respondent.ID] = &clone
	return nil
}

func (r *memRespondentRepo) FindByID(id uint) (*model.Respondent, error) {
	respondent, ok := r.respondents[id]
	if !ok {
		return nil, repository.ErrNoActiveRespondent
	}
	clone := *respondent
	return &clone, nil
}

func (r *memRespondentRepo) FindActiveByUserID(userID int64) (*model.Respondent, error) {
	for _, respondent := range r.respondents {
		if respondent.UserID == userID && !respondent.Archived {
			clone := *respondent
			return &clone, nil
		}
	}
	return nil, repository.ErrNoActiveRespondent
}

func (r *memRespondentRepo) Archive(id uint) error {
	if respondent, ok := r.respondents[id]; ok {
		respondent.Archived = true
	}
	return nil
}

func (r *memRespondentRepo) MarkCompleted(id uint, completedAt time.Time) error {
	if respondent, ok := r.respondents[id]; ok {
		respondent.Completed = true
		respondent.CompletedAt = &completedAt
	}
	return nil
}

func (r *memRespondentRepo) ListCompleted(waveID string) ([]model.Respondent, error) {
	var out []model.Respondent
	for _, respondent := range r.respondents {
		if respondent.Completed && !respondent.Archived && (waveID == "" || respondent.WaveID == waveID) {
			out = append(out, *respondent)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRespondentRepo) Count(waveID string, completedOnly bool) (int64, error) {
	var count int64
	for _, respondent := range r.respondents {
		if respondent.Archived {
			continue
		}
		if completedOnly && !respondent.Completed {
			continue
		}
		if waveID != "" && respondent.WaveID != waveID {
			continue
		}
		count++
	}
	return count, nil
}

type memAnswerRepo struct {
	respondents *memRespondentRepo
	answers     map[uint]map[string]string
}

func newMemAnswerRepo(respondents *memRespondentRepo) *memAnswerRepo {
	return &memAnswerRepo{respondents: respondents, answers: make(map[uint]map[string]string)}
}

func (r *memAnswerRepo) Upsert(respondentID uint, questionCode, value string) error {
	byCode, ok := r.answers[respondentID]
	if !ok {
		byCode = make(map[string]string)
		r.answers[respondentID] = byCode
	}
	byCode[questionCode] = value
	return nil
}

func (r *memAnswerRepo) ListByRespondent(respondentID uint) ([]model.Answer, error) {
	byCode := r.answers[respondentID]
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]model.Answer, 0, len(codes))
	for _, code := range codes {
		out = append(out, model.Answer{RespondentID: respondentID, QuestionCode: code, Value: byCode[code]})
	}
	return out, nil
}

func (r *memAnswerRepo) MapByRespondent(respondentID uint) (map[string]string, error) {
	out := make(map[string]string, len(r.answers[respondentID]))
	for code, value := range r.answers[respondentID] {
		out[code] = value
	}
	return out, nil
}

func (r *memAnswerRepo) ListValuesByQuestion(questionCode, waveID string) ([]string, error) {
	completed, _ := r.respondents.ListCompleted(waveID)
	var values []string
	for _, respondent := range completed {
		if value, ok := r.answers[respondent.ID][questionCode]; ok {
			values = append(values, value)
		}
	}
	return values, nil
}
