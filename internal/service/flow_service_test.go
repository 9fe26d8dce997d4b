package service

import (
	"strings"
	"testing"

	"github.com/tmarlen/linguabot/internal/catalog"
	"github.com/tmarlen/linguabot/internal/dto"
	"github.com/tmarlen/linguabot/internal/session"
)

const testWave = "wave_test"

func newTestFlow(t *testing.T) (FlowService, *memRespondentRepo, *memAnswerRepo) {
	t.Helper()
	cat := catalog.New()
	branching, err := NewBranchingService(cat)
	if err != nil {
		t.Fatalf("NewBranchingService: %v", err)
	}
	respondents := newMemRespondentRepo()
	answers := newMemAnswerRepo(respondents)
	flow := NewFlowService(cat, branching, respondents, answers, session.NewRegistry(), testWave)
	return flow, respondents, answers
}

func startSurvey(t *testing.T, flow FlowService, userID int64) *dto.StepDTO {
	t.Helper()
	if _, err := flow.Start(userID, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	step, err := flow.Consent(userID, nil, true)
	if err != nil {
		t.Fatalf("Consent: %v", err)
	}
	return step
}

func answerSingle(t *testing.T, flow FlowService, userID int64, code, option string) *dto.StepDTO {
	t.Helper()
	step, err := flow.RecordSingle(userID, code, option)
	if err != nil {
		t.Fatalf("RecordSingle(%s, %s): %v", code, option, err)
	}
	return step
}

func answerMulti(t *testing.T, flow FlowService, userID int64, code string, options ...string) *dto.StepDTO {
	t.Helper()
	for _, option := range options {
		if _, err := flow.ToggleMulti(userID, code, option); err != nil {
			t.Fatalf("ToggleMulti(%s, %s): %v", code, option, err)
		}
	}
	step, err := flow.ConfirmMulti(userID, code)
	if err != nil {
		t.Fatalf("ConfirmMulti(%s): %v", code, err)
	}
	return step
}

// answerScreening walks the full screening stage and returns the boundary
// step. Triggering answers name linguistic bullying; non-triggering ones
// stay on appearance-related options.
func answerScreening(t *testing.T, flow FlowService, userID int64, trigger bool) *dto.StepDTO {
	t.Helper()
	q1, q2 := "Q1_OP4", "Q2_OP4"
	if trigger {
		q1 = "Q1_OP1"
	}
	answerMulti(t, flow, userID, "Q1", q1)
	answerMulti(t, flow, userID, "Q2", q2)
	answerSingle(t, flow, userID, "Q3", "Q3_OP1")
	answerMulti(t, flow, userID, "Q4", "Q4_OP1")
	answerSingle(t, flow, userID, "Q5", "Q5_OP2")
	return answerSingle(t, flow, userID, "Q6", "Q6_OP4")
}

func wantPrompt(t *testing.T, step *dto.StepDTO, questionCode string) {
	t.Helper()
	if step.Kind != dto.StepPrompt {
		t.Fatalf("step kind = %q, want prompt (message %q)", step.Kind, step.Message)
	}
	if step.Prompt == nil || step.Prompt.QuestionCode != questionCode {
		t.Fatalf("step prompt = %+v, want question %s", step.Prompt, questionCode)
	}
}

func TestStartShowsConsent(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	step, err := flow.Start(7, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if step.Kind != dto.StepConsent {
		t.Errorf("step kind = %q, want consent", step.Kind)
	}
	if step.Message != catalog.WelcomeMessage {
		t.Errorf("step message = %q", step.Message)
	}
}

func TestConsentDeclined(t *testing.T) {
	flow, respondents, _ := newTestFlow(t)

	if _, err := flow.Start(7, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	step, err := flow.Consent(7, nil, false)
	if err != nil {
		t.Fatalf("Consent: %v", err)
	}
	if step.Kind != dto.StepTerminal || step.Terminal.Kind != dto.TerminalDeclined {
		t.Fatalf("step = %+v, want declined terminal", step)
	}
	if len(respondents.respondents) != 0 {
		t.Error("declining consent must not create a respondent")
	}

	// The session is gone; further input redirects to restart.
	step = answerSingle(t, flow, 7, "Q3", "Q3_OP1")
	if step.Kind != dto.StepNoop || step.Message != catalog.RestartHintMessage {
		t.Errorf("post-decline step = %+v, want restart hint", step)
	}
}

func TestConsentCreatesRespondent(t *testing.T) {
	flow, respondents, _ := newTestFlow(t)

	username := "lena"
	if _, err := flow.Start(7, &username); err != nil {
		t.Fatalf("Start: %v", err)
	}
	step, err := flow.Consent(7, &username, true)
	if err != nil {
		t.Fatalf("Consent: %v", err)
	}
	wantPrompt(t, step, "Q1")
	if step.Prompt.Progress.Current != 1 || step.Prompt.Progress.Total != 6 {
		t.Errorf("progress = %+v, want 1/6", step.Prompt.Progress)
	}

	respondent, err := respondents.FindActiveByUserID(7)
	if err != nil {
		t.Fatalf("FindActiveByUserID: %v", err)
	}
	if !respondent.Consented || respondent.WaveID != testWave {
		t.Errorf("respondent = %+v, want consented in %s", respondent, testWave)
	}
}

func TestRecordSingleUpsert(t *testing.T) {
	flow, respondents, answers := newTestFlow(t)
	startSurvey(t, flow, 7)

	answerSingle(t, flow, 7, "Q3", "Q3_OP1")
	answerSingle(t, flow, 7, "Q3", "Q3_OP2")

	respondent, _ := respondents.FindActiveByUserID(7)
	stored, err := answers.ListByRespondent(respondent.ID)
	if err != nil {
		t.Fatalf("ListByRespondent: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d answers, want 1", len(stored))
	}
	if stored[0].QuestionCode != "Q3" || stored[0].Value != "Q3_OP2" {
		t.Errorf("stored answer = %+v, want Q3=Q3_OP2", stored[0])
	}
}

func TestRecordSingleInvalidOption(t *testing.T) {
	flow, respondents, answers := newTestFlow(t)
	startSurvey(t, flow, 7)

	step := answerSingle(t, flow, 7, "Q3", "Q3_OP9")
	wantPrompt(t, step, "Q3")

	respondent, _ := respondents.FindActiveByUserID(7)
	if stored, _ := answers.ListByRespondent(respondent.ID); len(stored) != 0 {
		t.Errorf("invalid option stored %d answers, want 0", len(stored))
	}
}

func TestMultiToggleAndConfirm(t *testing.T) {
	flow, respondents, answers := newTestFlow(t)
	startSurvey(t, flow, 7)

	if _, err := flow.ToggleMulti(7, "Q1", "Q1_OP1"); err != nil {
		t.Fatalf("ToggleMulti: %v", err)
	}
	step, err := flow.ToggleMulti(7, "Q1", "Q1_OP4")
	if err != nil {
		t.Fatalf("ToggleMulti: %v", err)
	}
	if step.Kind != dto.StepSelection {
		t.Errorf("toggle step kind = %q, want selection", step.Kind)
	}
	// Second toggle of the same option deselects it.
	if _, err := flow.ToggleMulti(7, "Q1", "Q1_OP4"); err != nil {
		t.Fatalf("ToggleMulti: %v", err)
	}

	step, err = flow.ConfirmMulti(7, "Q1")
	if err != nil {
		t.Fatalf("ConfirmMulti: %v", err)
	}
	wantPrompt(t, step, "Q2")

	respondent, _ := respondents.FindActiveByUserID(7)
	stored, _ := answers.MapByRespondent(respondent.ID)
	if stored["Q1"] != `["Q1_OP1"]` {
		t.Errorf("stored Q1 = %q, want [\"Q1_OP1\"]", stored["Q1"])
	}
}

func TestConfirmRequiredEmptySelection(t *testing.T) {
	flow, respondents, answers := newTestFlow(t)
	startSurvey(t, flow, 7)

	step, err := flow.ConfirmMulti(7, "Q1")
	if err != nil {
		t.Fatalf("ConfirmMulti: %v", err)
	}
	wantPrompt(t, step, "Q1")

	respondent, _ := respondents.FindActiveByUserID(7)
	if stored, _ := answers.ListByRespondent(respondent.ID); len(stored) != 0 {
		t.Errorf("empty confirm stored %d answers, want 0", len(stored))
	}
}

func TestElaborationSingle(t *testing.T) {
	flow, respondents, answers := newTestFlow(t)
	startSurvey(t, flow, 7)

	step := answerSingle(t, flow, 7, "LQ4", "LQ4_OP6")
	if step.Kind != dto.StepElaboration {
		t.Fatalf("step kind = %q, want elaboration", step.Kind)
	}

	respondent, _ := respondents.FindActiveByUserID(7)
	if stored, _ := answers.MapByRespondent(respondent.ID); stored["LQ4"] != "" {
		t.Error("nothing should be stored until the elaboration text arrives")
	}

	step, err := flow.SubmitText(7, "смеюсь вместе с ними")
	if err != nil {
		t.Fatalf("SubmitText: %v", err)
	}
	wantPrompt(t, step, "LQ5")

	stored, _ := answers.MapByRespondent(respondent.ID)
	if stored["LQ4"] != "LQ4_OP6:смеюсь вместе с ними" {
		t.Errorf("stored LQ4 = %q", stored["LQ4"])
	}
}

func TestElaborationMulti(t *testing.T) {
	flow, respondents, answers := newTestFlow(t)
	startSurvey(t, flow, 7)

	step := answerMulti(t, flow, 7, "Q1", "Q1_OP1", "Q1_OP7")
	if step.Kind != dto.StepElaboration {
		t.Fatalf("step kind = %q, want elaboration", step.Kind)
	}

	step, err := flow.SubmitText(7, "дразнят за голос")
	if err != nil {
		t.Fatalf("SubmitText: %v", err)
	}
	wantPrompt(t, step, "Q2")

	respondent, _ := respondents.FindActiveByUserID(7)
	stored, _ := answers.MapByRespondent(respondent.ID)
	if !strings.Contains(stored["Q1"], `"Q1_OP1"`) || !strings.Contains(stored["Q1"], `"Q1_OP7:дразнят за голос"`) {
		t.Errorf("stored Q1 = %q, want both plain and composite codes", stored["Q1"])
	}
}

func TestScreeningToFollowupTransition(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	startSurvey(t, flow, 7)

	step := answerScreening(t, flow, 7, true)
	wantPrompt(t, step, "LQ1")
	if step.Message != catalog.FollowupIntro {
		t.Errorf("boundary message = %q, want follow-up intro", step.Message)
	}
	if step.Prompt.Progress.Stage != "followup" || step.Prompt.Progress.Total != 11 {
		t.Errorf("progress = %+v, want followup 1/11", step.Prompt.Progress)
	}
}

func TestScreeningRejection(t *testing.T) {
	flow, respondents, _ := newTestFlow(t)
	startSurvey(t, flow, 7)

	step := answerScreening(t, flow, 7, false)
	if step.Kind != dto.StepTerminal || step.Terminal.Kind != dto.TerminalRejected {
		t.Fatalf("step = %+v, want rejected terminal", step)
	}

	// Rejection ends the conversation but is not a completed survey.
	respondent, _ := respondents.FindActiveByUserID(7)
	if respondent.Completed {
		t.Error("rejected respondent must not be marked completed")
	}

	step = answerSingle(t, flow, 7, "Q3", "Q3_OP1")
	if step.Kind != dto.StepNoop || step.Message != catalog.RestartHintMessage {
		t.Errorf("post-rejection step = %+v, want restart hint", step)
	}
}

func TestFullCompletionClassifies(t *testing.T) {
	flow, respondents, _ := newTestFlow(t)
	startSurvey(t, flow, 7)
	answerScreening(t, flow, 7, true)

	answerMulti(t, flow, 7, "LQ1", "LQ1_OP1")
	answerSingle(t, flow, 7, "LQ2", "LQ2_OP1")
	answerSingle(t, flow, 7, "LQ3", "LQ3_OP1")
	answerSingle(t, flow, 7, "LQ4", "LQ4_OP1")
	answerMulti(t, flow, 7, "LQ5", "LQ5_OP2")
	answerSingle(t, flow, 7, "LQ6", "LQ6_OP1")
	answerSingle(t, flow, 7, "LQ7", "LQ7_OP1")
	answerMulti(t, flow, 7, "LQ8", "LQ8_OP1")
	answerSingle(t, flow, 7, "LQ9", "LQ9_OP1")
	answerMulti(t, flow, 7, "LQ10", "LQ10_OP5")

	step, err := flow.SubmitText(7, "хочу, чтобы это прекратилось")
	if err != nil {
		t.Fatalf("SubmitText: %v", err)
	}
	if step.Kind != dto.StepTerminal || step.Terminal.Kind != dto.TerminalCompleted {
		t.Fatalf("step = %+v, want completed terminal", step)
	}
	if step.Terminal.AggressionType != catalog.AggressionCyber {
		t.Errorf("aggression type = %q, want cyber", step.Terminal.AggressionType)
	}
	if step.Terminal.Recommendation == "" {
		t.Error("completed terminal must carry a recommendation")
	}

	respondent := respondents.respondents[1]
	if !respondent.Completed || respondent.CompletedAt == nil {
		t.Errorf("respondent = %+v, want completed with timestamp", respondent)
	}
}

func TestNavigateBackWithinStage(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	startSurvey(t, flow, 7)

	answerMulti(t, flow, 7, "Q1", "Q1_OP1")
	answerMulti(t, flow, 7, "Q2", "Q2_OP4")

	step, err := flow.NavigateBack(7)
	if err != nil {
		t.Fatalf("NavigateBack: %v", err)
	}
	wantPrompt(t, step, "Q2")

	// Stored choices come back as pre-selected toggles.
	var selected bool
	for _, opt := range step.Prompt.Options {
		if opt.Code == "Q2_OP4" {
			selected = opt.Selected
		}
	}
	if !selected {
		t.Error("Q2_OP4 should be pre-selected after navigating back")
	}

	step, err = flow.NavigateBack(7)
	if err != nil {
		t.Fatalf("NavigateBack: %v", err)
	}
	wantPrompt(t, step, "Q1")

	// Start of the stage: no further back.
	step, err = flow.NavigateBack(7)
	if err != nil {
		t.Fatalf("NavigateBack: %v", err)
	}
	if step.Kind != dto.StepNoop {
		t.Errorf("back past stage start = %q, want noop", step.Kind)
	}
}

func TestSkip(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	startSurvey(t, flow, 7)

	step, err := flow.Skip(7)
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	wantPrompt(t, step, "Q1")
	if step.Message != catalog.SkipNotAllowedMessage {
		t.Errorf("skip message = %q, want skip-not-allowed", step.Message)
	}

	answerMulti(t, flow, 7, "Q1", "Q1_OP4")
	answerMulti(t, flow, 7, "Q2", "Q2_OP4")
	answerSingle(t, flow, 7, "Q3", "Q3_OP1")
	answerMulti(t, flow, 7, "Q4", "Q4_OP1")
	answerSingle(t, flow, 7, "Q5", "Q5_OP2")

	// Q6 is optional; skipping it triggers the stage-boundary decision.
	step, err = flow.Skip(7)
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if step.Kind != dto.StepTerminal || step.Terminal.Kind != dto.TerminalRejected {
		t.Errorf("step = %+v, want rejected terminal after skipping Q6", step)
	}
}

func TestRestartArchivesAndPreservesHistory(t *testing.T) {
	flow, respondents, answers := newTestFlow(t)
	startSurvey(t, flow, 7)
	answerMulti(t, flow, 7, "Q1", "Q1_OP1")

	old, _ := respondents.FindActiveByUserID(7)

	step, err := flow.Restart(7)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	wantPrompt(t, step, "Q1")
	if step.Message != catalog.RestartDoneMessage {
		t.Errorf("restart message = %q", step.Message)
	}

	current, err := respondents.FindActiveByUserID(7)
	if err != nil {
		t.Fatalf("FindActiveByUserID: %v", err)
	}
	if current.ID == old.ID {
		t.Fatal("restart must create a fresh respondent")
	}
	if !respondents.respondents[old.ID].Archived {
		t.Error("old respondent must be archived")
	}

	// History stays queryable under the archived respondent.
	oldAnswers, _ := answers.MapByRespondent(old.ID)
	if oldAnswers["Q1"] != `["Q1_OP1"]` {
		t.Errorf("archived answers = %v, want Q1 preserved", oldAnswers)
	}
	if fresh, _ := answers.ListByRespondent(current.ID); len(fresh) != 0 {
		t.Errorf("fresh respondent has %d answers, want 0", len(fresh))
	}

	// The archived attempt no longer counts toward completed totals.
	if count, _ := respondents.Count("", true); count != 0 {
		t.Errorf("completed count after restart = %d, want 0", count)
	}
}

func TestStatus(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	status, err := flow.Status(7)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Answered != 0 || status.Total != 0 {
		t.Errorf("status before start = %+v, want zeros", status)
	}

	startSurvey(t, flow, 7)
	answerMulti(t, flow, 7, "Q1", "Q1_OP1")
	answerSingle(t, flow, 7, "Q3", "Q3_OP1")

	status, err = flow.Status(7)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Answered != 2 || status.Total != 6 || status.Remaining != 4 {
		t.Errorf("mid-screening status = %+v, want 2/6 remaining 4", status)
	}

	// Once the whole screening stage qualifies, the follow-up questions
	// join the total. Q1 already carries a triggering code.
	answerMulti(t, flow, 7, "Q2", "Q2_OP4")
	answerMulti(t, flow, 7, "Q4", "Q4_OP1")
	answerSingle(t, flow, 7, "Q5", "Q5_OP2")
	answerSingle(t, flow, 7, "Q6", "Q6_OP4")
	status, err = flow.Status(7)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Total != 17 || status.Answered != 6 || status.Remaining != 11 {
		t.Errorf("qualified status = %+v, want 6/17 remaining 11", status)
	}
}

func TestNoSessionRedirect(t *testing.T) {
	flow, respondents, _ := newTestFlow(t)

	for name, call := range map[string]func() (*dto.StepDTO, error){
		"RecordSingle": func() (*dto.StepDTO, error) { return flow.RecordSingle(7, "Q3", "Q3_OP1") },
		"ToggleMulti":  func() (*dto.StepDTO, error) { return flow.ToggleMulti(7, "Q1", "Q1_OP1") },
		"ConfirmMulti": func() (*dto.StepDTO, error) { return flow.ConfirmMulti(7, "Q1") },
		"SubmitText":   func() (*dto.StepDTO, error) { return flow.SubmitText(7, "текст") },
		"NavigateBack": func() (*dto.StepDTO, error) { return flow.NavigateBack(7) },
		"Skip":         func() (*dto.StepDTO, error) { return flow.Skip(7) },
	} {
		step, err := call()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if step.Kind != dto.StepNoop || step.Message != catalog.RestartHintMessage {
			t.Errorf("%s without session = %+v, want restart hint", name, step)
		}
	}

	if len(respondents.respondents) != 0 {
		t.Error("redirects must not write anything")
	}
}
