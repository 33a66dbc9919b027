package api

import (
	"context"
	"time"
	"wealthlens/internal/domain"
	"wealthlens/internal/logger"
	"wealthlens/internal/service"
	"wealthlens/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyzeOutliersRequest struct {
	Category   string `json:"category"`
	Metric     string `json:"metric"`
	Expression string `json:"expression"`
	AsOf       string `json:"asOf"`
}

type AnalyzeOutliersResponse struct {
	Analysis *domain.CategoryOutlierAnalysis `json:"analysis"`
}

func (m ApiHandler) analyzeCategoryOutliers(c *gin.Context) {
	profile, endProfile := domain.NewProfile()
	ctx := context.WithValue(c.Request.Context(), domain.ContextProfileKey, profile)
	defer endProfile()

	var requestBody AnalyzeOutliersRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	metric, err := domain.NewMetric(requestBody.Metric)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	asOf := time.Time{}
	if requestBody.AsOf != "" {
		asOf, err = util.ParseDate(requestBody.AsOf)
		if err != nil {
			returnErrorJsonCode(err, c, 400)
			return
		}
	}

	_, endSpan := profile.StartNewSpan("analyze category outliers")
	analysis, err := m.AnalysisService.AnalyzeCategoryOutliers(ctx, service.AnalyzeOutliersRequest{
		Category:   requestBody.Category,
		Metric:     metric,
		Expression: requestBody.Expression,
		AsOf:       asOf,
	})
	endSpan()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	endProfile()
	if profileJson, err := profile.ToJsonBytes(); err == nil {
		logger.FromContext(ctx).Debugw("analyze request profile", "profile", string(profileJson))
	}

	c.JSON(200, AnalyzeOutliersResponse{Analysis: analysis})
}
