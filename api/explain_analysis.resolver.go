package api

import (
	"fmt"
	"wealthlens/internal/domain"

	"github.com/gin-gonic/gin"
)

type ExplainAnalysisRequest struct {
	Analysis domain.CategoryOutlierAnalysis `json:"analysis"`
	Language string                         `json:"language"`
}

type ExplainAnalysisResponse struct {
	Explanation string `json:"explanation"`
}

func (m ApiHandler) explainAnalysis(c *gin.Context) {
	var requestBody ExplainAnalysisRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if requestBody.Analysis.CategoryKey == "" {
		returnErrorJsonCode(fmt.Errorf("analysis is required"), c, 400)
		return
	}

	explanation, err := m.GptRepository.ExplainAnalysis(c.Request.Context(), requestBody.Analysis, requestBody.Language)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, ExplainAnalysisResponse{Explanation: explanation})
}
