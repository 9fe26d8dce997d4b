package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/tmarlen/linguabot/internal/catalog"
	"github.com/tmarlen/linguabot/internal/repository"
)

const completedAtLayout = "2006-01-02 15:04:05"

// utf8BOM makes spreadsheet applications detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportRow is one flattened record: respondent metadata plus one value per
// question code, blank when unanswered.
type ExportRow struct {
	UserID      int64
	WaveID      string
	CompletedAt string
	Values      map[string]string
}

// ExportService flattens completed surveys for download.
type ExportService interface {
	// Columns returns the fixed CSV header: user_id, wave_id, completed_at,
	// then every screening code, then every follow-up code.
	Columns() []string
	ExportRows(waveID string) ([]ExportRow, error)
	// ExportCSV renders the rows as UTF-8 CSV with a byte-order marker.
	ExportCSV(waveID string) ([]byte, error)
}

type exportService struct {
	cat            *catalog.Catalog
	respondentRepo repository.RespondentRepository
	answerRepo     repository.AnswerRepository
}

func NewExportService(
	cat *catalog.Catalog,
	respondentRepo repository.RespondentRepository,
	answerRepo repository.AnswerRepository,
) ExportService {
	return &exportService{cat: cat, respondentRepo: respondentRepo, answerRepo: answerRepo}
}

func (s *exportService) Columns() []string {
	return append([]string{"user_id", "wave_id", "completed_at"}, s.cat.AllCodes()...)
}

func (s *exportService) ExportRows(waveID string) ([]ExportRow, error) {
	respondents, err := s.respondentRepo.ListCompleted(waveID)
	if err != nil {
		return nil, fmt.Errorf("loading respondents: %w", err)
	}

	rows := make([]ExportRow, 0, len(respondents))
	for _, respondent := range respondents {
		answers, err := s.answerRepo.MapByRespondent(respondent.ID)
		if err != nil {
			return nil, fmt.Errorf("loading answers for respondent %d: %w", respondent.ID, err)
		}

		row := ExportRow{
			UserID: respondent.UserID,
			WaveID: respondent.WaveID,
			Values: make(map[string]string, len(answers)),
		}
		if respondent.CompletedAt != nil {
			row.CompletedAt = respondent.CompletedAt.Format(completedAtLayout)
		}
		for _, code := range s.cat.AllCodes() {
			row.Values[code] = answers[code]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *exportService) ExportCSV(waveID string) ([]byte, error) {
	rows, err := s.ExportRows(waveID)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)

	w := csv.NewWriter(buf)
	columns := s.Columns()
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := make([]string, 0, len(columns))
		record = append(record,
			fmt.Sprintf("%d", row.UserID),
			row.WaveID,
			row.CompletedAt,
		)
		for _, code := range s.cat.AllCodes() {
			record = append(record, row.Values[code])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
