package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tmarlen/linguabot/config"
	"github.com/tmarlen/linguabot/internal/catalog"
	"github.com/tmarlen/linguabot/internal/dto"
	"github.com/tmarlen/linguabot/internal/service"
)

// AdminController serves aggregate statistics, CSV export and open-answer
// review to the administrators on the static allow-list.
type AdminController struct {
	cfg        *config.Config
	analytics  service.AnalyticsService
	export     service.ExportService
	summarizer service.OpenAnswerSummarizer
}

func NewAdminController(
	cfg *config.Config,
	analytics service.AnalyticsService,
	export service.ExportService,
	summarizer service.OpenAnswerSummarizer,
) *AdminController {
	return &AdminController{cfg: cfg, analytics: analytics, export: export, summarizer: summarizer}
}

// RequireAdmin rejects callers whose X-Admin-ID header is not on the
// configured allow-list. The transport layer authenticates the id itself.
func (c *AdminController) RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := strconv.ParseInt(ctx.GetHeader("X-Admin-ID"), 10, 64)
		if err != nil || !c.cfg.IsAdmin(id) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

// Stats godoc
// @Summary Short statistics digest
// @Tags Admin
// @Produce json
// @Param wave query string false "Wave filter"
// @Param X-Admin-ID header string true "Administrator id"
// @Success 200 {object} dto.StatsDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	wave := ctx.Query("wave")
	text, err := c.analytics.GenerateStatsText(wave)
	if err != nil {
		log.Error().Err(err).Msg("Stats generation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate statistics"})
		return
	}
	ctx.JSON(http.StatusOK, dto.StatsDTO{Wave: wave, Chunks: service.ChunkMessage(text, c.cfg.Survey.MessageLimit)})
}

// DetailedStats godoc
// @Summary Full per-question statistics
// @Tags Admin
// @Produce json
// @Param wave query string false "Wave filter"
// @Param X-Admin-ID header string true "Administrator id"
// @Success 200 {object} dto.StatsDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/stats/detailed [get]
func (c *AdminController) DetailedStats(ctx *gin.Context) {
	wave := ctx.Query("wave")
	text, err := c.analytics.GenerateDetailedStats(wave)
	if err != nil {
		log.Error().Err(err).Msg("Detailed stats generation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate statistics"})
		return
	}
	ctx.JSON(http.StatusOK, dto.StatsDTO{Wave: wave, Chunks: service.ChunkMessage(text, c.cfg.Survey.MessageLimit)})
}

// Export godoc
// @Summary Download completed responses as CSV
// @Tags Admin
// @Produce text/csv
// @Param wave query string false "Wave filter"
// @Param X-Admin-ID header string true "Administrator id"
// @Success 200 {string} string "CSV payload"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/export [get]
func (c *AdminController) Export(ctx *gin.Context) {
	wave := ctx.Query("wave")
	payload, err := c.export.ExportCSV(wave)
	if err != nil {
		log.Error().Err(err).Msg("CSV export failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to export responses"})
		return
	}
	filename := fmt.Sprintf("responses_%s.csv", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// OpenAnswers godoc
// @Summary List free-text answers for one question
// @Tags Admin
// @Produce json
// @Param question_code path string true "Question code"
// @Param wave query string false "Wave filter"
// @Param X-Admin-ID header string true "Administrator id"
// @Success 200 {object} dto.OpenAnswersDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/open-answers/{question_code} [get]
func (c *AdminController) OpenAnswers(ctx *gin.Context) {
	code := ctx.Param("question_code")
	answers, err := c.analytics.OpenAnswers(code, ctx.Query("wave"))
	if err != nil {
		log.Error().Err(err).Str("question", code).Msg("Open answers lookup failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load open answers"})
		return
	}
	ctx.JSON(http.StatusOK, dto.OpenAnswersDTO{
		QuestionCode: code,
		Title:        catalog.QuestionTitle(code),
		Answers:      answers,
	})
}

// SummarizeOpenAnswers godoc
// @Summary Summarize free-text answers for one question
// @Description Uses the configured LLM; unavailable without an API key.
// @Tags Admin
// @Produce json
// @Param question_code path string true "Question code"
// @Param wave query string false "Wave filter"
// @Param X-Admin-ID header string true "Administrator id"
// @Success 200 {object} dto.SummaryDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/open-answers/{question_code}/summary [get]
func (c *AdminController) SummarizeOpenAnswers(ctx *gin.Context) {
	code := ctx.Param("question_code")
	answers, err := c.analytics.OpenAnswers(code, ctx.Query("wave"))
	if err != nil {
		log.Error().Err(err).Str("question", code).Msg("Open answers lookup failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load open answers"})
		return
	}

	summary, err := c.summarizer.SummarizeOpenAnswers(ctx.Request.Context(), code, answers)
	if errors.Is(err, service.ErrSummarizerDisabled) {
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Summarizer is not configured"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("question", code).Msg("Summary generation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate summary"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SummaryDTO{QuestionCode: code, Summary: summary})
}
