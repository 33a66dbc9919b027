package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) quotes(c *gin.Context) {
	symbolsParam := c.Query("symbols")
	if symbolsParam == "" {
		returnErrorJsonCode(fmt.Errorf("symbols query param is required"), c, 400)
		return
	}

	symbols := []string{}
	for _, s := range strings.Split(symbolsParam, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}

	quotes, err := m.QuoteRepository.GetMany(symbols)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"quotes": quotes,
	})
}
