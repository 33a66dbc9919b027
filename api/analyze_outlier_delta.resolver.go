package api

import (
	"context"
	"fmt"
	"wealthlens/internal/domain"
	"wealthlens/internal/service"
	"wealthlens/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyzeOutlierDeltaRequest struct {
	Category   string `json:"category"`
	Metric     string `json:"metric"`
	Expression string `json:"expression"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

func (m ApiHandler) analyzeCategoryOutlierDelta(c *gin.Context) {
	profile, endProfile := domain.NewProfile()
	ctx := context.WithValue(c.Request.Context(), domain.ContextProfileKey, profile)
	defer endProfile()

	var requestBody AnalyzeOutlierDeltaRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	metric, err := domain.NewMetric(requestBody.Metric)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	if requestBody.StartDate == "" || requestBody.EndDate == "" {
		returnErrorJsonCode(fmt.Errorf("startDate and endDate are required"), c, 400)
		return
	}
	startDate, err := util.ParseDate(requestBody.StartDate)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	endDate, err := util.ParseDate(requestBody.EndDate)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if endDate.Before(startDate) {
		returnErrorJsonCode(fmt.Errorf("end date cannot be before start date"), c, 400)
		return
	}

	_, endSpan := profile.StartNewSpan("analyze category outlier delta")
	analysis, err := m.AnalysisService.AnalyzeCategoryOutlierDelta(ctx, service.AnalyzeOutlierDeltaRequest{
		Category:   requestBody.Category,
		Metric:     metric,
		Expression: requestBody.Expression,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	endSpan()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, AnalyzeOutliersResponse{Analysis: analysis})
}
