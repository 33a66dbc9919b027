package repository

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_quoteRepository_Get(t *testing.T) {
	// hits the live quote API - run manually
	if true {
		t.Skip()
	}

	handler := NewQuoteRepository()

	q, err := handler.Get("AAPL")
	require.NoError(t, err)

	fmt.Println(q.Symbol)
	fmt.Println(q.Price)
	fmt.Println(q.ChangePercent)
	t.Fail()
}

func Test_quoteRepository_GetMany(t *testing.T) {
	t.Run("skips symbols that fail to resolve", func(t *testing.T) {
		h := &quoteRepositoryHandler{}
		h.fetch = func(symbol string) (*MarketQuote, error) {
			if symbol == "DLSTD" {
				return nil, fmt.Errorf("no quote found for %s", symbol)
			}
			return &MarketQuote{Symbol: symbol, Price: decimal.NewFromInt(100)}, nil
		}

		quotes, err := h.GetMany([]string{"AAPL", "DLSTD", "MSFT"})
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		require.Equal(t, "AAPL", quotes[0].Symbol)
		require.Equal(t, "MSFT", quotes[1].Symbol)
	})

	t.Run("all symbols failing yields an empty strip, not an error", func(t *testing.T) {
		h := &quoteRepositoryHandler{}
		h.fetch = func(symbol string) (*MarketQuote, error) {
			return nil, fmt.Errorf("no quote found for %s", symbol)
		}

		quotes, err := h.GetMany([]string{"DLSTD"})
		require.NoError(t, err)
		require.Empty(t, quotes)
	})
}
