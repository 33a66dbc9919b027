package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"
	"wealthlens/internal/db/models/postgres/public/model"
	"wealthlens/internal/repository"
	"wealthlens/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	Db                   *sql.DB
	AnalysisService      service.AnalysisService
	ConnectorService     service.ConnectorService
	ConnectorRepository  repository.ConnectorRepository
	ApiRequestRepository repository.ApiRequestRepository
	GptRepository        repository.GptRepository
	QuoteRepository      repository.QuoteRepository
	JwtDecodeToken       string
}

func int64Ptr(i int64) *int64 {
	return &i
}
func int32Ptr(i int32) *int32 {
	return &i
}
func strPtr(s string) *string {
	return &s
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to wealthlens"})
	})
	router.GET("/categories", m.categories)
	router.GET("/portfolio", m.portfolio)
	router.POST("/analyzeCategoryOutliers", m.analyzeCategoryOutliers)
	router.POST("/analyzeCategoryOutlierDelta", m.analyzeCategoryOutlierDelta)
	router.POST("/analysis/export", m.exportAnalysis)
	router.POST("/explainAnalysis", m.explainAnalysis)
	router.GET("/quotes", m.quotes)

	router.GET("/connectors", m.listConnectors)
	router.POST("/connectors", m.createConnector)
	router.PATCH("/connectors/:id", m.updateConnector)
	router.DELETE("/connectors/:id", m.deleteConnector)
	router.POST("/connectors/:id/execute", m.executeConnector)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	if m.Db == nil {
		// request logging is best effort - keep serving without a db
		ctx.Next()
		return
	}

	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	body, err := ctx.GetRawData()
	if err != nil {
		log.Println(fmt.Errorf("failed to get raw data: %w", err))
	}
	ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

	type userIdBody struct {
		UserID uuid.UUID `json:"userID"`
	}

	reqBody := userIdBody{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &reqBody); err != nil {
			log.Println(fmt.Errorf("failed to get req body: %w", err))
		}
	}
	var userID *uuid.UUID
	if reqBody.UserID != uuid.Nil {
		userID = &reqBody.UserID
	}

	start := time.Now().UTC()
	req, err := m.ApiRequestRepository.Add(m.Db, model.APIRequest{
		UserID:      userID,
		IPAddress:   strPtr(ctx.ClientIP()),
		Method:      ctx.Request.Method,
		Route:       ctx.Request.URL.Path,
		RequestBody: strPtr(string(body)),
		StartTs:     start,
	})
	if err != nil {
		log.Println(err)
	}

	if req != nil {
		ctx.Set("requestID", req.RequestID.String())
	}

	ctx.Next()

	if req != nil {
		req.DurationMs = int64Ptr(time.Since(start).Milliseconds())
		req.StatusCode = int32Ptr(int32(ctx.Writer.Status()))
		req.ResponseBody = strPtr(w.body.String())

		err = m.ApiRequestRepository.Update(m.Db, *req)
		if err != nil {
			log.Println(err)
		}
	}
}
