package repository

import (
	"fmt"
	"wealthlens/internal/logger"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// MarketQuote is what the dashboard's chart header needs for a listed
// instrument.
type MarketQuote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent float64         `json:"changePercent"`
}

type QuoteRepository interface {
	Get(symbol string) (*MarketQuote, error)
	GetMany(symbols []string) ([]MarketQuote, error)
}

type quoteRepositoryHandler struct {
	fetch func(symbol string) (*MarketQuote, error)
}

func NewQuoteRepository() QuoteRepository {
	h := &quoteRepositoryHandler{}
	h.fetch = h.Get
	return h
}

func (h *quoteRepositoryHandler) Get(symbol string) (*MarketQuote, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote found for %s", symbol)
	}

	return &MarketQuote{
		Symbol:        q.Symbol,
		Name:          q.ShortName,
		Price:         decimal.NewFromFloat(q.RegularMarketPrice),
		Change:        decimal.NewFromFloat(q.RegularMarketChange),
		ChangePercent: q.RegularMarketChangePercent,
	}, nil
}

// GetMany skips symbols that fail to resolve so one delisted ticker
// does not take out the whole quote strip.
func (h *quoteRepositoryHandler) GetMany(symbols []string) ([]MarketQuote, error) {
	quotes := []MarketQuote{}
	for _, symbol := range symbols {
		q, err := h.fetch(symbol)
		if err != nil {
			logger.Warn("skipping quote for %s: %v", symbol, err)
			continue
		}
		quotes = append(quotes, *q)
	}
	return quotes, nil
}
