package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"wealthlens/internal/domain"
	"wealthlens/internal/util"
)

// QplixRepository fetches portfolio trees from the Qplix wealth
// management API. Snapshots are keyed by as-of date; a zero date means
// the latest available valuation.
type QplixRepository interface {
	GetPortfolio(ctx context.Context, asOf time.Time) (*domain.Asset, error)
}

type qplixRepositoryHandler struct {
	HttpClient *http.Client
	Endpoint   string
	ApiToken   string
}

func NewQplixRepository(endpoint, apiToken string) QplixRepository {
	return &qplixRepositoryHandler{
		HttpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Endpoint: endpoint,
		ApiToken: apiToken,
	}
}

func (h qplixRepositoryHandler) GetPortfolio(ctx context.Context, asOf time.Time) (*domain.Asset, error) {
	reqUrl := fmt.Sprintf("%s/portfolio", h.Endpoint)
	if !asOf.IsZero() {
		reqUrl += "?asOf=" + url.QueryEscape(util.FormatDate(asOf))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+h.ApiToken)
	req.Header.Set("Accept", "application/json")

	response, err := h.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qplix request failed: %w", err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}

	if response.StatusCode != 200 {
		type errResponse struct {
			Error string `json:"error"`
		}
		errJson := errResponse{}
		err = json.Unmarshal(responseBytes, &errJson)
		if err != nil || errJson.Error == "" {
			return nil, fmt.Errorf("qplix responded with status code %d", response.StatusCode)
		}
		return nil, fmt.Errorf("qplix responded with status code %d: %s", response.StatusCode, errJson.Error)
	}

	root := domain.Asset{}
	err = json.Unmarshal(responseBytes, &root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qplix portfolio: %w", err)
	}

	return &root, nil
}
