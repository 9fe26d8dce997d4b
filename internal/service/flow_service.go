package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/tmarlen/linguabot/internal/catalog"
	"github.com/tmarlen/linguabot/internal/dto"
	"github.com/tmarlen/linguabot/internal/model"
	"github.com/tmarlen/linguabot/internal/repository"
	"github.com/tmarlen/linguabot/internal/session"
)

// FlowService is the survey state machine. Each operation maps one inbound
// chat event to a StepDTO for the transport to render. Validation failures
// re-show the current prompt unchanged; a missing session redirects the user
// to restart; storage errors propagate to the controller boundary.
type FlowService interface {
	Start(userID int64, username *string) (*dto.StepDTO, error)
	Consent(userID int64, username *string, consented bool) (*dto.StepDTO, error)
	RecordSingle(userID int64, questionCode, optionCode string) (*dto.StepDTO, error)
	ToggleMulti(userID int64, questionCode, optionCode string) (*dto.StepDTO, error)
	ConfirmMulti(userID int64, questionCode string) (*dto.StepDTO, error)
	SubmitText(userID int64, text string) (*dto.StepDTO, error)
	NavigateBack(userID int64) (*dto.StepDTO, error)
	Skip(userID int64) (*dto.StepDTO, error)
	Restart(userID int64) (*dto.StepDTO, error)
	Status(userID int64) (*dto.StatusDTO, error)
}

type flowService struct {
	cat            *catalog.Catalog
	branching      BranchingService
	respondentRepo repository.RespondentRepository
	answerRepo     repository.AnswerRepository
	sessions       *session.Registry
	waveID         string
}

func NewFlowService(
	cat *catalog.Catalog,
	branching BranchingService,
	respondentRepo repository.RespondentRepository,
	answerRepo repository.AnswerRepository,
	sessions *session.Registry,
	waveID string,
) FlowService {
	return &flowService{
		cat:            cat,
		branching:      branching,
		respondentRepo: respondentRepo,
		answerRepo:     answerRepo,
		sessions:       sessions,
		waveID:         waveID,
	}
}

func (s *flowService) Start(userID int64, username *string) (*dto.StepDTO, error) {
	sess := &session.Session{UserID: userID, Language: "ru"}
	s.sessions.Put(sess)
	return &dto.StepDTO{Kind: dto.StepConsent, Message: catalog.WelcomeMessage}, nil
}

func (s *flowService) Consent(userID int64, username *string, consented bool) (*dto.StepDTO, error) {
	if !consented {
		s.sessions.Delete(userID)
		return &dto.StepDTO{
			Kind: dto.StepTerminal,
			Terminal: &dto.TerminalDTO{
				Kind:    dto.TerminalDeclined,
				Message: catalog.ConsentDeclinedMessage,
			},
		}, nil
	}

	sess, ok := s.sessions.Get(userID)
	if !ok {
		sess = &session.Session{UserID: userID, Language: "ru"}
		s.sessions.Put(sess)
	}

	respondent, err := s.respondentRepo.FindActiveByUserID(userID)
	if errors.Is(err, repository.ErrNoActiveRespondent) {
		respondent = &model.Respondent{
			UserID:    userID,
			Username:  username,
			Language:  sess.Language,
			Consented: true,
			WaveID:    s.waveID,
		}
		if err := s.respondentRepo.Create(respondent); err != nil {
			return nil, fmt.Errorf("creating respondent: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("looking up respondent: %w", err)
	} else if !respondent.Consented {
		respondent.Consented = true
		if err := s.respondentRepo.Update(respondent); err != nil {
			return nil, fmt.Errorf("updating consent: %w", err)
		}
	}

	sess.RespondentID = respondent.ID
	first := s.cat.FirstScreening()
	sess.CurrentQuestion = first.Code
	sess.Selected = nil
	sess.Pending = nil

	log.Info().Int64("user_id", userID).Uint("respondent_id", respondent.ID).Msg("Consent recorded, survey started")
	return s.promptStep(sess, first, "")
}

func (s *flowService) RecordSingle(userID int64, questionCode, optionCode string) (*dto.StepDTO, error) {
	sess, redirect := s.activeSession(userID)
	if redirect != nil {
		return redirect, nil
	}

	question, err := s.cat.Lookup(questionCode)
	if errors.Is(err, catalog.ErrQuestionNotFound) {
		log.Warn().Str("question", questionCode).Msg("Answer for unknown question")
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}
	if err != nil {
		return nil, err
	}

	option := question.Option(optionCode)
	if question.Kind != catalog.Single || option == nil {
		// Malformed input: re-show the prompt, state untouched.
		return s.promptStep(sess, question, "")
	}

	if option.RequiresElaboration {
		sess.Pending = &session.Elaboration{QuestionCode: questionCode, OptionCode: optionCode}
		return &dto.StepDTO{Kind: dto.StepElaboration, Message: catalog.ElaborationPromptMessage}, nil
	}

	if err := s.answerRepo.Upsert(sess.RespondentID, questionCode, optionCode); err != nil {
		return nil, fmt.Errorf("saving answer: %w", err)
	}
	return s.advance(sess, questionCode)
}

func (s *flowService) ToggleMulti(userID int64, questionCode, optionCode string) (*dto.StepDTO, error) {
	sess, redirect := s.activeSession(userID)
	if redirect != nil {
		return redirect, nil
	}

	question, err := s.cat.Lookup(questionCode)
	if errors.Is(err, catalog.ErrQuestionNotFound) {
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}
	if err != nil {
		return nil, err
	}
	if question.Kind != catalog.Multi || question.Option(optionCode) == nil {
		return s.promptStep(sess, question, "")
	}

	if sess.CurrentQuestion != questionCode {
		sess.CurrentQuestion = questionCode
		sess.Selected = s.rehydrateSelection(sess, questionCode)
	}
	sess.Toggle(optionCode)

	step, err := s.promptStep(sess, question, "")
	if err != nil {
		return nil, err
	}
	step.Kind = dto.StepSelection
	return step, nil
}

func (s *flowService) ConfirmMulti(userID int64, questionCode string) (*dto.StepDTO, error) {
	sess, redirect := s.activeSession(userID)
	if redirect != nil {
		return redirect, nil
	}

	question, err := s.cat.Lookup(questionCode)
	if errors.Is(err, catalog.ErrQuestionNotFound) {
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}
	if err != nil {
		return nil, err
	}
	if question.Kind != catalog.Multi {
		return s.promptStep(sess, question, "")
	}

	// Keep only codes that are actual options of this question.
	selected := make([]string, 0, len(sess.Selected))
	for _, code := range sess.Selected {
		if question.Option(BaseOptionCode(code)) != nil {
			selected = append(selected, code)
		}
	}
	if len(selected) == 0 && question.Required {
		return s.promptStep(sess, question, "")
	}

	if pending := firstPendingElaboration(question, selected); pending != "" {
		sess.Pending = &session.Elaboration{
			QuestionCode: questionCode,
			OptionCode:   pending,
			Selection:    selected,
		}
		label := question.Option(pending).Label
		return &dto.StepDTO{
			Kind:    dto.StepElaboration,
			Message: label + "\n\n" + catalog.ElaborationPromptMessage,
		}, nil
	}

	if err := s.persistSelection(sess, questionCode, selected); err != nil {
		return nil, err
	}
	return s.advance(sess, questionCode)
}

func (s *flowService) SubmitText(userID int64, text string) (*dto.StepDTO, error) {
	sess, redirect := s.activeSession(userID)
	if redirect != nil {
		return redirect, nil
	}

	if pending := sess.Pending; pending != nil {
		combined := pending.OptionCode + ":" + text

		if pending.Selection == nil {
			sess.Pending = nil
			if err := s.answerRepo.Upsert(sess.RespondentID, pending.QuestionCode, combined); err != nil {
				return nil, fmt.Errorf("saving answer: %w", err)
			}
			return s.advance(sess, pending.QuestionCode)
		}

		for i, code := range pending.Selection {
			if code == pending.OptionCode {
				pending.Selection[i] = combined
			}
		}
		question, err := s.cat.Lookup(pending.QuestionCode)
		if err != nil {
			return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
		}
		// Another selected option may still need its own text.
		if next := firstPendingElaboration(question, pending.Selection); next != "" {
			pending.OptionCode = next
			label := question.Option(next).Label
			return &dto.StepDTO{
				Kind:    dto.StepElaboration,
				Message: label + "\n\n" + catalog.ElaborationPromptMessage,
			}, nil
		}
		selection := pending.Selection
		sess.Pending = nil
		if err := s.persistSelection(sess, pending.QuestionCode, selection); err != nil {
			return nil, err
		}
		return s.advance(sess, pending.QuestionCode)
	}

	question, err := s.cat.Lookup(sess.CurrentQuestion)
	if errors.Is(err, catalog.ErrQuestionNotFound) {
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}
	if err != nil {
		return nil, err
	}
	if question.Kind != catalog.Open {
		return s.promptStep(sess, question, "")
	}

	if err := s.answerRepo.Upsert(sess.RespondentID, question.Code, text); err != nil {
		return nil, fmt.Errorf("saving answer: %w", err)
	}
	return s.advance(sess, question.Code)
}

func (s *flowService) NavigateBack(userID int64) (*dto.StepDTO, error) {
	sess, redirect := s.activeSession(userID)
	if redirect != nil {
		return redirect, nil
	}

	previous, err := s.cat.PreviousInStage(sess.CurrentQuestion)
	if errors.Is(err, catalog.ErrQuestionNotFound) {
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}
	if err != nil {
		return nil, err
	}
	if previous == nil {
		// Stage boundary: backward navigation never crosses it.
		return &dto.StepDTO{Kind: dto.StepNoop}, nil
	}

	sess.CurrentQuestion = previous.Code
	sess.Pending = nil
	sess.Selected = s.rehydrateSelection(sess, previous.Code)
	return s.promptStep(sess, previous, "")
}

func (s *flowService) Skip(userID int64) (*dto.StepDTO, error) {
	sess, redirect := s.activeSession(userID)
	if redirect != nil {
		return redirect, nil
	}

	question, err := s.cat.Lookup(sess.CurrentQuestion)
	if errors.Is(err, catalog.ErrQuestionNotFound) {
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}
	if err != nil {
		return nil, err
	}
	if question.Required {
		step, err := s.promptStep(sess, question, catalog.SkipNotAllowedMessage)
		if err != nil {
			return nil, err
		}
		return step, nil
	}
	return s.advance(sess, question.Code)
}

func (s *flowService) Restart(userID int64) (*dto.StepDTO, error) {
	language := "ru"
	var username *string
	if sess, ok := s.sessions.Get(userID); ok && sess.Language != "" {
		language = sess.Language
	}

	old, err := s.respondentRepo.FindActiveByUserID(userID)
	if err == nil {
		username = old.Username
		if err := s.respondentRepo.Archive(old.ID); err != nil {
			return nil, fmt.Errorf("archiving respondent: %w", err)
		}
	} else if !errors.Is(err, repository.ErrNoActiveRespondent) {
		return nil, fmt.Errorf("looking up respondent: %w", err)
	}

	respondent := &model.Respondent{
		UserID:    userID,
		Username:  username,
		Language:  language,
		Consented: true,
		WaveID:    s.waveID,
	}
	if err := s.respondentRepo.Create(respondent); err != nil {
		return nil, fmt.Errorf("creating respondent: %w", err)
	}

	first := s.cat.FirstScreening()
	sess := &session.Session{
		UserID:          userID,
		RespondentID:    respondent.ID,
		Language:        language,
		CurrentQuestion: first.Code,
	}
	s.sessions.Put(sess)

	log.Info().Int64("user_id", userID).Uint("respondent_id", respondent.ID).Msg("Survey restarted")
	return s.promptStep(sess, first, catalog.RestartDoneMessage)
}

func (s *flowService) Status(userID int64) (*dto.StatusDTO, error) {
	respondent, err := s.respondentRepo.FindActiveByUserID(userID)
	if errors.Is(err, repository.ErrNoActiveRespondent) {
		return &dto.StatusDTO{}, nil
	}
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.MapByRespondent(respondent.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	screening := s.cat.ScreeningCodes()
	total := len(screening)
	answeredScreening := 0
	for _, code := range screening {
		if _, ok := answers[code]; ok {
			answeredScreening++
		}
	}
	if answeredScreening == len(screening) && s.branching.ShouldEnterFollowup(answers) {
		total += len(s.cat.FollowupCodes())
	}

	answered := len(answers)
	remaining := total - answered
	if remaining < 0 {
		remaining = 0
	}
	return &dto.StatusDTO{Answered: answered, Total: total, Remaining: remaining}, nil
}

// advance moves past the just-answered question: next question in the stage,
// or the stage-boundary decision.
func (s *flowService) advance(sess *session.Session, fromCode string) (*dto.StepDTO, error) {
	next, err := s.cat.NextInStage(fromCode)
	if err != nil {
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}
	if next != nil {
		sess.CurrentQuestion = next.Code
		sess.Pending = nil
		sess.Selected = s.rehydrateSelection(sess, next.Code)
		return s.promptStep(sess, next, "")
	}

	stage, err := s.cat.StageOf(fromCode)
	if err != nil {
		return &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.QuestionUnavailableMessage}, nil
	}

	answers, err := s.answerRepo.MapByRespondent(sess.RespondentID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	if stage == catalog.StageScreening {
		if s.branching.ShouldEnterFollowup(answers) {
			first := s.cat.FirstFollowup()
			sess.CurrentQuestion = first.Code
			sess.Pending = nil
			sess.Selected = s.rehydrateSelection(sess, first.Code)
			return s.promptStep(sess, first, catalog.FollowupIntro)
		}
		s.sessions.Delete(sess.UserID)
		return &dto.StepDTO{
			Kind: dto.StepTerminal,
			Terminal: &dto.TerminalDTO{
				Kind:    dto.TerminalRejected,
				Message: catalog.RejectionMessage,
			},
		}, nil
	}

	label := s.branching.Classify(answers)
	now := time.Now().UTC()
	if err := s.respondentRepo.MarkCompleted(sess.RespondentID, now); err != nil {
		return nil, fmt.Errorf("marking respondent completed: %w", err)
	}
	s.sessions.Delete(sess.UserID)

	log.Info().Uint("respondent_id", sess.RespondentID).Str("aggression_type", label).Msg("Survey completed")
	return &dto.StepDTO{
		Kind: dto.StepTerminal,
		Terminal: &dto.TerminalDTO{
			Kind:           dto.TerminalCompleted,
			Message:        catalog.CompletedMessage,
			AggressionType: label,
			Recommendation: catalog.RecommendationFor(label),
		},
	}, nil
}

// activeSession returns the user's session, or a redirect step telling the
// user to restart when there is none. Nothing is written in the latter case.
func (s *flowService) activeSession(userID int64) (*session.Session, *dto.StepDTO) {
	sess, ok := s.sessions.Get(userID)
	if !ok || sess.RespondentID == 0 {
		return nil, &dto.StepDTO{Kind: dto.StepNoop, Message: catalog.RestartHintMessage}
	}
	return sess, nil
}

// rehydrateSelection seeds multi-select toggles from a previously stored
// answer so backward navigation shows the earlier choices.
func (s *flowService) rehydrateSelection(sess *session.Session, questionCode string) []string {
	question, err := s.cat.Lookup(questionCode)
	if err != nil || question.Kind != catalog.Multi {
		return nil
	}
	answers, err := s.answerRepo.MapByRespondent(sess.RespondentID)
	if err != nil {
		log.Warn().Err(err).Msg("Could not rehydrate selection")
		return nil
	}
	value, ok := answers[questionCode]
	if !ok {
		return nil
	}
	return DecodeStoredMulti(value)
}

func (s *flowService) persistSelection(sess *session.Session, questionCode string, selected []string) error {
	encoded, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	if err := s.answerRepo.Upsert(sess.RespondentID, questionCode, string(encoded)); err != nil {
		return fmt.Errorf("saving answer: %w", err)
	}
	sess.Selected = nil
	return nil
}

func (s *flowService) promptStep(sess *session.Session, question *catalog.Question, message string) (*dto.StepDTO, error) {
	current, total, err := s.cat.Position(question.Code)
	if err != nil {
		return nil, err
	}
	stage, err := s.cat.StageOf(question.Code)
	if err != nil {
		return nil, err
	}

	prompt := &dto.PromptDTO{
		QuestionCode: question.Code,
		Prompt:       question.Prompt,
		Kind:         string(question.Kind),
		Required:     question.Required,
		Progress:     dto.ProgressDTO{Stage: stage.String(), Current: current, Total: total},
	}

	if err := copier.Copy(&prompt.Options, &question.Options); err != nil {
		return nil, fmt.Errorf("mapping options: %w", err)
	}
	if sess.CurrentQuestion == question.Code {
		selected := make(map[string]bool, len(sess.Selected))
		for _, code := range sess.Selected {
			selected[BaseOptionCode(code)] = true
		}
		for i := range prompt.Options {
			prompt.Options[i].Selected = selected[prompt.Options[i].Code]
		}
	}

	return &dto.StepDTO{Kind: dto.StepPrompt, Message: message, Prompt: prompt}, nil
}

// firstPendingElaboration returns the first selected option that requires
// free-text elaboration and does not carry it yet.
func firstPendingElaboration(question *catalog.Question, selection []string) string {
	for _, code := range selection {
		if code != BaseOptionCode(code) {
			continue // already composite
		}
		if opt := question.Option(code); opt != nil && opt.RequiresElaboration {
			return code
		}
	}
	return ""
}
