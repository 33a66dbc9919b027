package api

import (
	"wealthlens/internal/domain"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) categories(c *gin.Context) {
	c.JSON(200, gin.H{
		"categories": domain.Categories,
	})
}
