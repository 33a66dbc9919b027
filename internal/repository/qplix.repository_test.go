package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_qplixRepository_GetPortfolio(t *testing.T) {
	t.Run("parses the portfolio tree", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/portfolio", r.URL.Path)
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			require.Equal(t, "2025-06-30", r.URL.Query().Get("asOf"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"name": "Portfolio",
				"subLines": [
					{
						"name": "Liquid Assets",
						"subLines": [
							{
								"name": "Stocks",
								"subLines": [
									{"name": "Alpha Fund", "twr": 0.12, "totalPerformance": 1500.5, "externalFlow": -10000}
								]
							}
						]
					}
				]
			}`))
		}))
		defer server.Close()

		repo := NewQplixRepository(server.URL, "test-token")
		portfolio, err := repo.GetPortfolio(context.Background(), time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		require.Equal(t, "Portfolio", portfolio.Name)
		stocks := portfolio.FindByName("Stocks")
		require.NotNil(t, stocks)
		require.Len(t, stocks.SubLines, 1)

		alpha := stocks.SubLines[0]
		require.True(t, alpha.IsLeaf())
		require.NotNil(t, alpha.Twr)
		require.InDelta(t, 0.12, *alpha.Twr, 1e-9)
		require.NotNil(t, alpha.TotalPerformance)
		require.InDelta(t, 1500.5, *alpha.TotalPerformance, 1e-9)
		require.Nil(t, alpha.Irr)
	})

	t.Run("zero as-of omits the query param", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.False(t, r.URL.Query().Has("asOf"))
			w.Write([]byte(`{"name": "Portfolio", "subLines": []}`))
		}))
		defer server.Close()

		repo := NewQplixRepository(server.URL, "test-token")
		_, err := repo.GetPortfolio(context.Background(), time.Time{})
		require.NoError(t, err)
	})

	t.Run("surfaces vendor errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(503)
			w.Write([]byte(`{"error": "valuation not ready"}`))
		}))
		defer server.Close()

		repo := NewQplixRepository(server.URL, "test-token")
		_, err := repo.GetPortfolio(context.Background(), time.Time{})
		require.ErrorContains(t, err, "status code 503")
		require.ErrorContains(t, err, "valuation not ready")
	})
}
