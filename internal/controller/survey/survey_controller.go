package survey

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tmarlen/linguabot/internal/dto"
	"github.com/tmarlen/linguabot/internal/service"
)

// SurveyController translates inbound chat-transport events into flow engine
// calls. The transport in front of it (bot gateway) is deliberately thin.
type SurveyController struct {
	flow service.FlowService
}

func NewSurveyController(flow service.FlowService) *SurveyController {
	return &SurveyController{flow: flow}
}

// Start godoc
// @Summary Begin a conversation
// @Description Shows the consent prompt for a user starting the survey.
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.StartRequest true "User identity"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/start [post]
func (c *SurveyController) Start(ctx *gin.Context) {
	var req dto.StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.Start(req.UserID, req.Username)
	c.respond(ctx, step, err)
}

// Consent godoc
// @Summary Record the consent decision
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.ConsentRequest true "Consent decision"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/consent [post]
func (c *SurveyController) Consent(ctx *gin.Context) {
	var req dto.ConsentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.Consent(req.UserID, nil, *req.Consented)
	c.respond(ctx, step, err)
}

// AnswerSingle godoc
// @Summary Answer a single-choice question
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.SingleAnswerRequest true "Selected option"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/answers/single [post]
func (c *SurveyController) AnswerSingle(ctx *gin.Context) {
	var req dto.SingleAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.RecordSingle(req.UserID, req.QuestionCode, req.OptionCode)
	c.respond(ctx, step, err)
}

// ToggleOption godoc
// @Summary Toggle one option of a multi-select question
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.ToggleRequest true "Toggled option"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/answers/toggle [post]
func (c *SurveyController) ToggleOption(ctx *gin.Context) {
	var req dto.ToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.ToggleMulti(req.UserID, req.QuestionCode, req.OptionCode)
	c.respond(ctx, step, err)
}

// ConfirmSelection godoc
// @Summary Confirm a multi-select answer
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.ConfirmRequest true "Question being confirmed"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/answers/confirm [post]
func (c *SurveyController) ConfirmSelection(ctx *gin.Context) {
	var req dto.ConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.ConfirmMulti(req.UserID, req.QuestionCode)
	c.respond(ctx, step, err)
}

// SubmitText godoc
// @Summary Submit free text
// @Description Resolves a pending elaboration or answers an open question.
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.TextRequest true "Free text"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/answers/text [post]
func (c *SurveyController) SubmitText(ctx *gin.Context) {
	var req dto.TextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.SubmitText(req.UserID, req.Text)
	c.respond(ctx, step, err)
}

// NavigateBack godoc
// @Summary Go back to the previous question of the current stage
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.NavigateRequest true "User identity"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/navigate/back [post]
func (c *SurveyController) NavigateBack(ctx *gin.Context) {
	var req dto.NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.NavigateBack(req.UserID)
	c.respond(ctx, step, err)
}

// Skip godoc
// @Summary Skip the current question
// @Description Only questions marked not required can be skipped.
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.NavigateRequest true "User identity"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/navigate/skip [post]
func (c *SurveyController) Skip(ctx *gin.Context) {
	var req dto.NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.Skip(req.UserID)
	c.respond(ctx, step, err)
}

// Restart godoc
// @Summary Restart the survey
// @Description Archives the current attempt and starts a fresh one. Earlier
// answers stay attached to the archived attempt.
// @Tags Survey
// @Accept json
// @Produce json
// @Param event body dto.RestartRequest true "User identity"
// @Success 200 {object} dto.StepDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/restart [post]
func (c *SurveyController) Restart(ctx *gin.Context) {
	var req dto.RestartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	step, err := c.flow.Restart(req.UserID)
	c.respond(ctx, step, err)
}

// Status godoc
// @Summary Survey progress for a user
// @Tags Survey
// @Produce json
// @Param user_id query int true "External user id"
// @Success 200 {object} dto.StatusDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /survey/status [get]
func (c *SurveyController) Status(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Query("user_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user id"})
		return
	}
	status, err := c.flow.Status(userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Status failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute status"})
		return
	}
	ctx.JSON(http.StatusOK, status)
}

func (c *SurveyController) respond(ctx *gin.Context, step *dto.StepDTO, err error) {
	if err != nil {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Flow operation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Survey operation failed"})
		return
	}
	ctx.JSON(http.StatusOK, step)
}
