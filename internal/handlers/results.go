package handlers

import (
	"net/http"

	"psymap-go/internal/assessment"
	"psymap-go/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

type ResultsHandler struct {
	log          *zap.Logger
	orchestrator *assessment.Orchestrator
}

func NewResultsHandler(log *zap.Logger, orchestrator *assessment.Orchestrator) *ResultsHandler {
	return &ResultsHandler{log: log, orchestrator: orchestrator}
}

// Results returns the session's results ordered by the configuration's test
// sequence.
func (h *ResultsHandler) Results(c *gin.Context) {
	sessionID, userID, ok := sessionRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.orchestrator.AuthorizeSessionOwner(ctx, sessionID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	results, err := h.orchestrator.GetAssessmentResults(ctx, sessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Chart renders the processed category scores of every completed test as a
// self-contained ECharts page.
func (h *ResultsHandler) Chart(c *gin.Context) {
	sessionID, userID, ok := sessionRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.orchestrator.AuthorizeSessionOwner(ctx, sessionID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	results, err := h.orchestrator.GetAssessmentResults(ctx, sessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if len(results) == 0 {
		c.String(http.StatusOK, "No completed tests yet.")
		return
	}

	page := components.NewPage()
	page.SetPageTitle("Assessment Results")
	for _, result := range results {
		page.AddCharts(generateScoreChart(result))
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render results chart", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func generateScoreChart(result models.AssessmentResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    result.TestType.Name,
			Subtitle: "Scores per category (0-100)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Max:  100,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	// Category order follows the test type definition, not map iteration.
	categories := make([]string, 0, len(result.TestType.Categories))
	items := make([]opts.BarData, 0, len(result.TestType.Categories))
	for _, category := range result.TestType.Categories {
		categories = append(categories, category)
		items = append(items, opts.BarData{Value: result.ProcessedScores[category]})
	}

	bar.SetXAxis(categories).AddSeries("Score", items)
	return bar
}
