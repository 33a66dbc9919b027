package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"wealthlens/internal/logger"
	"wealthlens/internal/repository"

	"github.com/google/uuid"
)

// ConnectorResult is the payload a user-configured HTTP connector
// produced, plus cache metadata so the UI can show staleness.
type ConnectorResult struct {
	ConnectorID uuid.UUID `json:"connectorId"`
	StatusCode  int       `json:"statusCode"`
	ContentType string    `json:"contentType"`
	Body        string    `json:"body"`
	FetchedAt   time.Time `json:"fetchedAt"`
	FromCache   bool      `json:"fromCache"`
}

type ConnectorService interface {
	Execute(ctx context.Context, id uuid.UUID) (*ConnectorResult, error)
}

type connectorServiceHandler struct {
	Db                  *sql.DB
	ConnectorRepository repository.ConnectorRepository
	HttpClient          *http.Client

	// coarse response cache: one entry per connector, valid for the
	// connector's refresh interval
	cacheMu sync.RWMutex
	cache   map[uuid.UUID]ConnectorResult
}

func NewConnectorService(db *sql.DB, connectorRepository repository.ConnectorRepository) ConnectorService {
	return &connectorServiceHandler{
		Db:                  db,
		ConnectorRepository: connectorRepository,
		HttpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		cache: map[uuid.UUID]ConnectorResult{},
	}
}

func (h *connectorServiceHandler) Execute(ctx context.Context, id uuid.UUID) (*ConnectorResult, error) {
	connector, err := h.ConnectorRepository.Get(h.Db, id)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(connector.RefreshIntervalSeconds) * time.Second

	h.cacheMu.RLock()
	cached, ok := h.cache[id]
	h.cacheMu.RUnlock()
	if ok && time.Since(cached.FetchedAt) < ttl {
		cached.FromCache = true
		return &cached, nil
	}

	method := strings.ToUpper(connector.Method)
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, connector.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build connector request: %w", err)
	}
	if connector.Headers != nil {
		headers := map[string]string{}
		if err := json.Unmarshal([]byte(*connector.Headers), &headers); err != nil {
			return nil, fmt.Errorf("connector %s has malformed headers: %w", id, err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	response, err := h.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connector %s request failed: %w", connector.Name, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("connector %s: failed to read response: %w", connector.Name, err)
	}

	result := ConnectorResult{
		ConnectorID: id,
		StatusCode:  response.StatusCode,
		ContentType: response.Header.Get("Content-Type"),
		Body:        string(body),
		FetchedAt:   time.Now().UTC(),
	}

	h.cacheMu.Lock()
	h.cache[id] = result
	h.cacheMu.Unlock()

	logger.FromContext(ctx).Debugw("executed connector",
		"connector", connector.Name,
		"status", response.StatusCode,
	)

	return &result, nil
}
