package service

import (
	"context"
	"fmt"
	"time"
	"wealthlens/internal/calculator"
	"wealthlens/internal/domain"
	"wealthlens/internal/logger"
	"wealthlens/internal/repository"
)

type AnalyzeOutliersRequest struct {
	Category   string
	Metric     domain.Metric
	Expression string
	// AsOf selects the snapshot; zero means latest.
	AsOf time.Time
}

type AnalyzeOutlierDeltaRequest struct {
	Category   string
	Metric     domain.Metric
	Expression string
	StartDate  time.Time
	EndDate    time.Time
}

// AnalysisService glues the Qplix snapshots to the pure analyzer. The
// analyzer itself stays free of I/O; this layer owns fetching and
// logging.
type AnalysisService interface {
	GetPortfolio(ctx context.Context, asOf time.Time) (*domain.Asset, error)
	AnalyzeCategoryOutliers(ctx context.Context, req AnalyzeOutliersRequest) (*domain.CategoryOutlierAnalysis, error)
	AnalyzeCategoryOutlierDelta(ctx context.Context, req AnalyzeOutlierDeltaRequest) (*domain.CategoryOutlierAnalysis, error)
}

type analysisServiceHandler struct {
	QplixRepository repository.QplixRepository
}

func NewAnalysisService(qplixRepository repository.QplixRepository) AnalysisService {
	return analysisServiceHandler{
		QplixRepository: qplixRepository,
	}
}

func (h analysisServiceHandler) GetPortfolio(ctx context.Context, asOf time.Time) (*domain.Asset, error) {
	portfolio, err := h.QplixRepository.GetPortfolio(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio snapshot: %w", err)
	}
	return portfolio, nil
}

func (h analysisServiceHandler) AnalyzeCategoryOutliers(ctx context.Context, req AnalyzeOutliersRequest) (*domain.CategoryOutlierAnalysis, error) {
	portfolio, err := h.GetPortfolio(ctx, req.AsOf)
	if err != nil {
		return nil, err
	}

	analysis, err := calculator.AnalyzeCategoryOutliers(*portfolio, calculator.AnalyzeOutliersInput{
		Category:   req.Category,
		Metric:     req.Metric,
		Expression: req.Expression,
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("analyzed category outliers",
		"category", analysis.CategoryKey,
		"sampleSize", analysis.SampleSize,
		"winners", len(analysis.Winners),
		"losers", len(analysis.Losers),
	)

	return analysis, nil
}

func (h analysisServiceHandler) AnalyzeCategoryOutlierDelta(ctx context.Context, req AnalyzeOutlierDeltaRequest) (*domain.CategoryOutlierAnalysis, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("end date cannot be before start date")
	}

	startPortfolio, err := h.GetPortfolio(ctx, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start snapshot: %w", err)
	}
	endPortfolio, err := h.GetPortfolio(ctx, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end snapshot: %w", err)
	}

	analysis, err := calculator.AnalyzeCategoryOutlierDelta(*startPortfolio, *endPortfolio, calculator.AnalyzeOutlierDeltaInput{
		Category:   req.Category,
		Metric:     req.Metric,
		Expression: req.Expression,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("analyzed category outlier delta",
		"category", analysis.CategoryKey,
		"start", req.StartDate,
		"end", req.EndDate,
		"sampleSize", analysis.SampleSize,
	)

	return analysis, nil
}
