package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tmarlen/linguabot/internal/catalog"
	"github.com/tmarlen/linguabot/internal/repository"
)

// CrossKey is one cell of a cross-tabulation.
type CrossKey struct {
	A string
	B string
}

// AnalyticsService aggregates stored answers. Everything is scoped to
// completed, non-archived respondents, optionally narrowed to one wave.
// Empty input yields empty aggregates, never an error.
type AnalyticsService interface {
	TotalRespondents(waveID string, completedOnly bool) (int64, error)
	Distribution(questionCode, waveID string) (map[string]int, error)
	CrossTab(codeA, codeB, waveID string) (map[CrossKey]int, error)
	OpenAnswers(questionCode, waveID string) ([]string, error)
	GenerateStatsText(waveID string) (string, error)
	GenerateDetailedStats(waveID string) (string, error)
}

type analyticsService struct {
	cat            *catalog.Catalog
	respondentRepo repository.RespondentRepository
	answerRepo     repository.AnswerRepository
}

func NewAnalyticsService(
	cat *catalog.Catalog,
	respondentRepo repository.RespondentRepository,
	answerRepo repository.AnswerRepository,
) AnalyticsService {
	return &analyticsService{cat: cat, respondentRepo: respondentRepo, answerRepo: answerRepo}
}

func (s *analyticsService) TotalRespondents(waveID string, completedOnly bool) (int64, error) {
	return s.respondentRepo.Count(waveID, completedOnly)
}

// Distribution counts answer values for one question. Multi-select values
// fan out: every selected option contributes one count, so a respondent can
// appear in several buckets. That is deliberate, the buckets are not
// mutually exclusive categories.
func (s *analyticsService) Distribution(questionCode, waveID string) (map[string]int, error) {
	values, err := s.answerRepo.ListValuesByQuestion(questionCode, waveID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for %s: %w", questionCode, err)
	}

	counts := make(map[string]int)
	for _, value := range values {
		var items []string
		if err := json.Unmarshal([]byte(value), &items); err == nil {
			for _, item := range items {
				counts[item]++
			}
			continue
		}
		counts[value]++
	}
	return counts, nil
}

func (s *analyticsService) CrossTab(codeA, codeB, waveID string) (map[CrossKey]int, error) {
	respondents, err := s.respondentRepo.ListCompleted(waveID)
	if err != nil {
		return nil, fmt.Errorf("loading respondents: %w", err)
	}

	cells := make(map[CrossKey]int)
	for _, respondent := range respondents {
		answers, err := s.answerRepo.MapByRespondent(respondent.ID)
		if err != nil {
			return nil, fmt.Errorf("loading answers for respondent %d: %w", respondent.ID, err)
		}
		a, okA := answers[codeA]
		b, okB := answers[codeB]
		if okA && okB {
			cells[CrossKey{A: a, B: b}]++
		}
	}
	return cells, nil
}

func (s *analyticsService) OpenAnswers(questionCode, waveID string) ([]string, error) {
	values, err := s.answerRepo.ListValuesByQuestion(questionCode, waveID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for %s: %w", questionCode, err)
	}
	var texts []string
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			texts = append(texts, value)
		}
	}
	return texts, nil
}

// GenerateStatsText builds the short digest shown for the stats command.
func (s *analyticsService) GenerateStatsText(waveID string) (string, error) {
	total, err := s.TotalRespondents(waveID, true)
	if err != nil {
		return "", err
	}
	if total == 0 {
		return "Статистика\n\nНет завершённых опросов.", nil
	}

	var b strings.Builder
	b.WriteString("Статистика опроса\n\n")
	fmt.Fprintf(&b, "Всего респондентов: %d\n\n", total)

	sections := []struct {
		code string
		top  int
	}{
		{code: "Q1", top: 3},
		{code: "Q2", top: 3},
		{code: "Q3", top: 0},
		{code: "Q5", top: 2},
	}
	for _, section := range sections {
		dist, err := s.Distribution(section.code, waveID)
		if err != nil {
			return "", err
		}
		if len(dist) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%s):\n", catalog.QuestionTitle(section.code), section.code)
		for _, entry := range sortedEntries(dist, section.top) {
			pct := float64(entry.count) / float64(total) * 100
			fmt.Fprintf(&b, "  • %s: %d (%.1f%%)\n", s.cat.OptionLabel(entry.value), entry.count, pct)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// GenerateDetailedStats builds the full per-question report.
func (s *analyticsService) GenerateDetailedStats(waveID string) (string, error) {
	total, err := s.TotalRespondents(waveID, true)
	if err != nil {
		return "", err
	}
	if total == 0 {
		return "Детальная статистика\n\nНет завершённых опросов.", nil
	}

	var b strings.Builder
	b.WriteString("Детальная статистика по всем вопросам\n\n")
	fmt.Fprintf(&b, "Всего респондентов: %d\n", total)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	for _, code := range s.cat.AllCodes() {
		fmt.Fprintf(&b, "%s (%s)\n", catalog.QuestionTitle(code), code)

		dist, err := s.Distribution(code, waveID)
		if err != nil {
			return "", err
		}
		if len(dist) == 0 {
			b.WriteString("  (Нет ответов)\n\n")
			continue
		}
		for _, entry := range sortedEntries(dist, 0) {
			pct := float64(entry.count) / float64(total) * 100
			fmt.Fprintf(&b, "  • %s: %d (%.1f%%)\n", s.cat.OptionLabel(entry.value), entry.count, pct)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type distEntry struct {
	value string
	count int
}

// sortedEntries orders a distribution by count descending (code ascending on
// ties, for stable reports) and optionally truncates to the top n.
func sortedEntries(dist map[string]int, top int) []distEntry {
	entries := make([]distEntry, 0, len(dist))
	for value, count := range dist {
		entries = append(entries, distEntry{value: value, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].value < entries[j].value
	})
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}
	return entries
}

// ChunkMessage splits a report into transport-sized pieces, breaking only on
// line boundaries. A single line longer than the limit becomes its own chunk.
func ChunkMessage(text string, limit int) []string {
	if limit <= 0 || len([]rune(text)) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, line := range strings.Split(text, "\n") {
		lineLen := len([]rune(line))
		if currentLen > 0 && currentLen+lineLen+1 > limit {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			currentLen = 0
		}
		current.WriteString(line)
		current.WriteString("\n")
		currentLen += lineLen + 1
	}
	if currentLen > 0 {
		chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
	}
	return chunks
}
