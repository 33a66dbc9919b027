package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"wealthlens/api"
	"wealthlens/internal/repository"
	"wealthlens/internal/service"
	"wealthlens/internal/util"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	if handler.Db == nil {
		return
	}
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	gptRepository, err := repository.NewGptRepository(secrets.ChatGPTApiKey)
	if err != nil {
		return nil, err
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	qplixRepository := repository.NewQplixRepository(secrets.Qplix.Endpoint, secrets.Qplix.ApiToken)
	connectorRepository := repository.ConnectorRepositoryHandler{}

	analysisService := service.NewAnalysisService(qplixRepository)
	connectorService := service.NewConnectorService(dbConn, connectorRepository)

	apiHandler := &api.ApiHandler{
		Db:                   dbConn,
		AnalysisService:      analysisService,
		ConnectorService:     connectorService,
		ConnectorRepository:  connectorRepository,
		ApiRequestRepository: repository.ApiRequestRepositoryHandler{},
		GptRepository:        gptRepository,
		QuoteRepository:      repository.NewQuoteRepository(),
		JwtDecodeToken:       secrets.JwtDecodeKey,
	}

	return apiHandler, nil
}
