package api

import (
	"time"
	"wealthlens/internal/util"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) portfolio(c *gin.Context) {
	asOf := time.Time{}
	if asOfStr := c.Query("asOf"); asOfStr != "" {
		parsed, err := util.ParseDate(asOfStr)
		if err != nil {
			returnErrorJsonCode(err, c, 400)
			return
		}
		asOf = parsed
	}

	portfolio, err := m.AnalysisService.GetPortfolio(c.Request.Context(), asOf)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"portfolio": portfolio,
	})
}
