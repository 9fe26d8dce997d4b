package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/tmarlen/linguabot/internal/catalog"
	"github.com/tmarlen/linguabot/internal/model"
)

func newTestExport(t *testing.T) (ExportService, *memRespondentRepo, *memAnswerRepo) {
	t.Helper()
	respondents := newMemRespondentRepo()
	answers := newMemAnswerRepo(respondents)
	return NewExportService(catalog.New(), respondents, answers), respondents, answers
}

func TestExportColumns(t *testing.T) {
	export, _, _ := newTestExport(t)

	columns := export.Columns()
	if len(columns) != 20 {
		t.Fatalf("got %d columns, want 20", len(columns))
	}
	if columns[0] != "user_id" || columns[1] != "wave_id" || columns[2] != "completed_at" {
		t.Errorf("metadata columns = %v", columns[:3])
	}
	if columns[3] != "Q1" || columns[8] != "Q6" || columns[9] != "LQ1" || columns[19] != "LQ11" {
		t.Errorf("question columns out of order: %v", columns[3:])
	}
}

func TestExportRowsBlanksForUnanswered(t *testing.T) {
	export, respondents, answers := newTestExport(t)

	respondent := &model.Respondent{UserID: 42, Consented: true, WaveID: "wave_1"}
	respondents.Create(respondent)
	answers.Upsert(respondent.ID, "Q1", `["Q1_OP2"]`)
	answers.Upsert(respondent.ID, "Q4", "Q4_OP3")
	completedAt := time.Date(2026, 8, 30, 12, 15, 0, 0, time.UTC)
	respondents.MarkCompleted(respondent.ID, completedAt)

	// Still in progress, must not export.
	other := &model.Respondent{UserID: 43, Consented: true, WaveID: "wave_1"}
	respondents.Create(other)
	answers.Upsert(other.ID, "Q1", `["Q1_OP1"]`)

	rows, err := export.ExportRows("wave_1")
	if err != nil {
		t.Fatalf("ExportRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.UserID != 42 || row.WaveID != "wave_1" || row.CompletedAt != "2026-08-30 12:15:00" {
		t.Errorf("row metadata = %+v", row)
	}
	if row.Values["Q1"] != `["Q1_OP2"]` || row.Values["Q4"] != "Q4_OP3" {
		t.Errorf("row values = %v", row.Values)
	}
	for _, code := range []string{"Q2", "Q3", "Q5", "Q6", "LQ1", "LQ11"} {
		if row.Values[code] != "" {
			t.Errorf("unanswered %s = %q, want blank", code, row.Values[code])
		}
	}
}

func TestExportCSVRoundTrip(t *testing.T) {
	export, respondents, answers := newTestExport(t)

	respondent := &model.Respondent{UserID: 42, Consented: true, WaveID: "wave_1"}
	respondents.Create(respondent)
	answers.Upsert(respondent.ID, "Q1", `["Q1_OP2"]`)
	answers.Upsert(respondent.ID, "Q4", "Q4_OP3")
	respondents.MarkCompleted(respondent.ID, time.Date(2026, 8, 30, 12, 15, 0, 0, time.UTC))

	data, err := export.ExportCSV("wave_1")
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	// Spreadsheet tools detect the encoding by the byte-order marker.
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("CSV output must start with a UTF-8 BOM")
	}

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	if err != nil {
		t.Fatalf("parsing exported CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header plus one row", len(records))
	}

	header, row := records[0], records[1]
	if len(row) != len(header) {
		t.Fatalf("row width %d differs from header width %d", len(row), len(header))
	}

	byColumn := make(map[string]string, len(header))
	for i, column := range header {
		byColumn[column] = row[i]
	}
	if byColumn["user_id"] != "42" || byColumn["wave_id"] != "wave_1" {
		t.Errorf("metadata cells = %v", byColumn)
	}
	if byColumn["completed_at"] != "2026-08-30 12:15:00" {
		t.Errorf("completed_at = %q", byColumn["completed_at"])
	}
	if byColumn["Q1"] != `["Q1_OP2"]` || byColumn["Q4"] != "Q4_OP3" {
		t.Errorf("answer cells = %v", byColumn)
	}
	if byColumn["Q2"] != "" || byColumn["LQ11"] != "" {
		t.Errorf("unanswered cells should be blank: %v", byColumn)
	}
}

func TestExportCSVEmptyStore(t *testing.T) {
	export, _, _ := newTestExport(t)

	data, err := export.ExportCSV("")
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	if err != nil {
		t.Fatalf("parsing exported CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty store should export header only, got %d records", len(records))
	}
}
