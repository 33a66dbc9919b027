package calculator

import (
	"math"
	"testing"
	"time"
	"wealthlens/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func fptr(f float64) *float64 {
	return &f
}

func leaf(name string, totalPerformance *float64, twr *float64) domain.Asset {
	return domain.Asset{
		Name:             name,
		TotalPerformance: totalPerformance,
		Twr:              twr,
	}
}

func node(name string, children ...domain.Asset) domain.Asset {
	return domain.Asset{
		Name:     name,
		SubLines: children,
	}
}

// stocksPortfolio builds the tree shape the vendor returns: root ->
// liquidity class -> category -> subgroup -> instruments.
func stocksPortfolio(instruments ...domain.Asset) domain.Asset {
	return node("Portfolio",
		node("Liquid Assets",
			node("Stocks",
				node("US Equities", instruments...),
			),
		),
	)
}

func Test_AnalyzeCategoryOutliers(t *testing.T) {
	t.Run("four fixed leaves", func(t *testing.T) {
		portfolio := stocksPortfolio(
			leaf("A", fptr(120), nil),
			leaf("B", fptr(-40), nil),
			leaf("C", fptr(15), nil),
			leaf("D", fptr(-5), nil),
		)

		analysis, err := AnalyzeCategoryOutliers(portfolio, AnalyzeOutliersInput{
			Category: "stocks",
			Metric:   domain.MetricTotalPerformance,
		})
		require.NoError(t, err)

		require.Equal(t, "stocks", analysis.CategoryKey)
		require.Equal(t, "Stocks", analysis.CategoryLabel)
		require.Equal(t, 4, analysis.SampleSize)
		require.Nil(t, analysis.Period)

		// mean 22.5, population stddev sqrt(14225/4), mean abs 45
		require.InDelta(t, 22.5, analysis.Stats.MeanValue, 1e-9)
		require.InDelta(t, math.Sqrt(3556.25), analysis.Stats.StdDev, 1e-9)
		require.InDelta(t, 45, analysis.Stats.MeanAbsoluteValue, 1e-9)
		require.InDelta(t, math.Sqrt(3556.25)/45, analysis.Stats.Variability, 1e-9)
		require.Equal(t, domain.VariabilityHigh, analysis.Stats.Bucket)
		require.InDelta(t, 0.10, analysis.Stats.PercentileApplied, 1e-9)
		require.Equal(t, 2, analysis.Stats.PositiveCount)
		require.Equal(t, 2, analysis.Stats.NegativeCount)

		// pool size max(1, round(4*0.10)) = 1
		require.Len(t, analysis.Winners, 1)
		require.Equal(t, "A", analysis.Winners[0].Name)
		require.InDelta(t, 120.0/180.0, analysis.Winners[0].ShareOfCategory, 1e-9)
		require.InDelta(t, (120-22.5)/math.Sqrt(3556.25), analysis.Winners[0].ZScore, 1e-9)

		require.Len(t, analysis.Losers, 1)
		require.Equal(t, "B", analysis.Losers[0].Name)
		require.InDelta(t, -40.0/180.0, analysis.Losers[0].ShareOfCategory, 1e-9)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.GroupSummary{
					{
						Subgroup:        "US Equities",
						AssetCount:      4,
						TotalValue:      90,
						MeanValue:       22.5,
						ShareOfCategory: 0.5,
					},
				},
				analysis.Groups,
			),
		)
	})

	t.Run("winners and losers are disjoint and signed", func(t *testing.T) {
		portfolio := stocksPortfolio(
			leaf("A", fptr(120), nil),
			leaf("B", fptr(-40), nil),
			leaf("C", fptr(15), nil),
			leaf("D", fptr(-5), nil),
			leaf("E", fptr(70), nil),
			leaf("F", fptr(-90), nil),
		)

		analysis, err := AnalyzeCategoryOutliers(portfolio, AnalyzeOutliersInput{Category: "stocks"})
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, w := range analysis.Winners {
			require.Greater(t, w.MetricValue, 0.0)
			seen[w.ID] = true
		}
		for _, l := range analysis.Losers {
			require.Less(t, l.MetricValue, 0.0)
			require.False(t, seen[l.ID])
		}
	})

	t.Run("z-score filter falls back to unfiltered pool", func(t *testing.T) {
		// positives cluster so tightly that the top one sits below the
		// 0.6 z threshold: z(100) = 101.2 / 199.4 ~= 0.51
		portfolio := stocksPortfolio(
			leaf("A", fptr(100), nil),
			leaf("B", fptr(99), nil),
			leaf("C", fptr(98), nil),
			leaf("D", fptr(97), nil),
			leaf("E", fptr(-400), nil),
		)

		analysis, err := AnalyzeCategoryOutliers(portfolio, AnalyzeOutliersInput{Category: "stocks"})
		require.NoError(t, err)

		require.Len(t, analysis.Winners, 1)
		require.Equal(t, "A", analysis.Winners[0].Name)
		require.Less(t, analysis.Winners[0].ZScore, 0.6)
	})

	t.Run("zero stddev reports zero z-scores", func(t *testing.T) {
		portfolio := stocksPortfolio(
			leaf("A", fptr(10), nil),
			leaf("B", fptr(10), nil),
			leaf("C", fptr(10), nil),
		)

		analysis, err := AnalyzeCategoryOutliers(portfolio, AnalyzeOutliersInput{Category: "stocks"})
		require.NoError(t, err)

		require.Zero(t, analysis.Stats.StdDev)
		require.NotEmpty(t, analysis.Winners)
		for _, w := range analysis.Winners {
			require.Zero(t, w.ZScore)
		}
		require.Empty(t, analysis.Losers)
	})

	t.Run("twr metric excludes leaves without twr", func(t *testing.T) {
		portfolio := stocksPortfolio(
			leaf("A", fptr(120), fptr(0.15)),
			leaf("B", fptr(-40), fptr(-0.05)),
			leaf("C", fptr(500), nil), // numeric performance but no twr
		)

		analysis, err := AnalyzeCategoryOutliers(portfolio, AnalyzeOutliersInput{
			Category: "stocks",
			Metric:   domain.MetricTwr,
		})
		require.NoError(t, err)

		require.Equal(t, 2, analysis.SampleSize)
		require.Len(t, analysis.Winners, 1)
		require.Equal(t, "A", analysis.Winners[0].Name)
		require.InDelta(t, 0.15, analysis.Winners[0].MetricValue, 1e-9)
	})

	t.Run("unsupported category", func(t *testing.T) {
		_, err := AnalyzeCategoryOutliers(stocksPortfolio(leaf("A", fptr(1), nil)), AnalyzeOutliersInput{
			Category: "derivatives",
		})
		require.ErrorContains(t, err, `unsupported category "derivatives"`)
	})

	t.Run("category not in tree", func(t *testing.T) {
		_, err := AnalyzeCategoryOutliers(stocksPortfolio(leaf("A", fptr(1), nil)), AnalyzeOutliersInput{
			Category: "crypto",
		})
		require.ErrorContains(t, err, "Crypto currencies")
	})

	t.Run("no numeric leaves", func(t *testing.T) {
		_, err := AnalyzeCategoryOutliers(stocksPortfolio(leaf("A", nil, fptr(0.2))), AnalyzeOutliersInput{
			Category: "stocks",
		})
		require.ErrorContains(t, err, "no leaves with a numeric")
	})

	t.Run("zero contribution", func(t *testing.T) {
		_, err := AnalyzeCategoryOutliers(stocksPortfolio(
			leaf("A", fptr(0), nil),
			leaf("B", fptr(0), nil),
		), AnalyzeOutliersInput{Category: "stocks"})
		require.ErrorContains(t, err, "zero contribution")
	})

	t.Run("custom metric expression", func(t *testing.T) {
		portfolio := stocksPortfolio(
			domain.Asset{Name: "A", TotalPerformance: fptr(100), ExternalFlow: fptr(-50)},
			domain.Asset{Name: "B", TotalPerformance: fptr(-30), ExternalFlow: fptr(-10)},
		)

		analysis, err := AnalyzeCategoryOutliers(portfolio, AnalyzeOutliersInput{
			Category:   "stocks",
			Metric:     domain.MetricCustom,
			Expression: "totalPerformance / abs(externalFlow)",
		})
		require.NoError(t, err)

		require.Equal(t, 2, analysis.SampleSize)
		require.Equal(t, "A", analysis.Winners[0].Name)
		require.InDelta(t, 2.0, analysis.Winners[0].MetricValue, 1e-9)
		require.Equal(t, "B", analysis.Losers[0].Name)
		require.InDelta(t, -3.0, analysis.Losers[0].MetricValue, 1e-9)
	})

	t.Run("invalid custom expression", func(t *testing.T) {
		_, err := AnalyzeCategoryOutliers(stocksPortfolio(leaf("A", fptr(1), nil)), AnalyzeOutliersInput{
			Category:   "stocks",
			Metric:     domain.MetricCustom,
			Expression: "totalPerformance +",
		})
		require.ErrorContains(t, err, "invalid metric expression")
	})
}

func Test_AnalyzeCategoryOutlierDelta(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("asset only in end snapshot scores full gain", func(t *testing.T) {
		startPortfolio := stocksPortfolio(
			leaf("Alpha Fund", fptr(100), fptr(0.10)),
			leaf("Beta Fund", fptr(50), fptr(0.05)),
		)
		endPortfolio := stocksPortfolio(
			leaf("Alpha Fund", fptr(110), fptr(0.12)),
			leaf("Beta Fund", fptr(40), fptr(0.02)),
			leaf("NewFund", fptr(500), nil),
		)

		analysis, err := AnalyzeCategoryOutlierDelta(startPortfolio, endPortfolio, AnalyzeOutlierDeltaInput{
			Category:  "stocks",
			Metric:    domain.MetricTotalPerformance,
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)

		require.Equal(t, 3, analysis.SampleSize)
		require.NotNil(t, analysis.Period)
		require.Equal(t, start, analysis.Period.Start)
		require.Equal(t, end, analysis.Period.End)

		var newFund *domain.OutlierAsset
		for i := range analysis.Winners {
			if analysis.Winners[i].Name == "NewFund" {
				newFund = &analysis.Winners[i]
			}
		}
		require.NotNil(t, newFund)
		require.InDelta(t, 500, newFund.MetricValue, 1e-9)
		require.Nil(t, newFund.StartPerformance)
		require.NotNil(t, newFund.EndPerformance)
		require.InDelta(t, 500, *newFund.EndPerformance, 1e-9)
	})

	t.Run("asset only in start snapshot scores full loss", func(t *testing.T) {
		startPortfolio := stocksPortfolio(
			leaf("Alpha Fund", fptr(100), nil),
			leaf("Gone Fund", fptr(80), nil),
		)
		endPortfolio := stocksPortfolio(
			leaf("Alpha Fund", fptr(105), nil),
		)

		analysis, err := AnalyzeCategoryOutlierDelta(startPortfolio, endPortfolio, AnalyzeOutlierDeltaInput{
			Category:  "stocks",
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)

		require.Len(t, analysis.Losers, 1)
		require.Equal(t, "Gone Fund", analysis.Losers[0].Name)
		require.InDelta(t, -80, analysis.Losers[0].MetricValue, 1e-9)
		require.Nil(t, analysis.Losers[0].EndPerformance)
	})

	t.Run("delta twr only when one side has twr", func(t *testing.T) {
		startPortfolio := stocksPortfolio(
			leaf("Alpha Fund", fptr(100), fptr(0.10)),
			leaf("NoTwr Fund", fptr(10), nil),
		)
		endPortfolio := stocksPortfolio(
			leaf("Alpha Fund", fptr(130), fptr(0.16)),
			leaf("NoTwr Fund", fptr(20), nil),
		)

		analysis, err := AnalyzeCategoryOutlierDelta(startPortfolio, endPortfolio, AnalyzeOutlierDeltaInput{
			Category:  "stocks",
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)

		byName := map[string]domain.OutlierAsset{}
		for _, w := range analysis.Winners {
			byName[w.Name] = w
		}
		alpha, ok := byName["Alpha Fund"]
		require.True(t, ok)
		require.NotNil(t, alpha.DeltaTwr)
		require.InDelta(t, 0.06, *alpha.DeltaTwr, 1e-9)

		if noTwr, ok := byName["NoTwr Fund"]; ok {
			require.Nil(t, noTwr.DeltaTwr)
		}
	})

	t.Run("category missing from one snapshot still works", func(t *testing.T) {
		startPortfolio := node("Portfolio", node("Liquid Assets"))
		endPortfolio := stocksPortfolio(
			leaf("Alpha Fund", fptr(100), nil),
			leaf("Beta Fund", fptr(-20), nil),
		)

		analysis, err := AnalyzeCategoryOutlierDelta(startPortfolio, endPortfolio, AnalyzeOutlierDeltaInput{
			Category:  "stocks",
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)
		require.Equal(t, 2, analysis.SampleSize)
	})

	t.Run("category missing from both snapshots", func(t *testing.T) {
		empty := node("Portfolio", node("Liquid Assets"))
		_, err := AnalyzeCategoryOutlierDelta(empty, empty, AnalyzeOutlierDeltaInput{
			Category:  "stocks",
			StartDate: start,
			EndDate:   end,
		})
		require.ErrorContains(t, err, `"Stocks" not found in either snapshot`)
	})

	t.Run("no measurable changes", func(t *testing.T) {
		startPortfolio := stocksPortfolio(leaf("A", nil, nil))
		endPortfolio := stocksPortfolio(leaf("A", nil, nil))

		_, err := AnalyzeCategoryOutlierDelta(startPortfolio, endPortfolio, AnalyzeOutlierDeltaInput{
			Category:  "stocks",
			StartDate: start,
			EndDate:   end,
		})
		require.ErrorContains(t, err, "no measurable changes")
	})

	t.Run("renamed asset reads as one out one in", func(t *testing.T) {
		startPortfolio := stocksPortfolio(leaf("Old Name", fptr(100), nil))
		endPortfolio := stocksPortfolio(leaf("New Name", fptr(100), nil))

		analysis, err := AnalyzeCategoryOutlierDelta(startPortfolio, endPortfolio, AnalyzeOutlierDeltaInput{
			Category:  "stocks",
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)

		require.Equal(t, 2, analysis.SampleSize)
		require.Len(t, analysis.Winners, 1)
		require.Equal(t, "New Name", analysis.Winners[0].Name)
		require.Len(t, analysis.Losers, 1)
		require.Equal(t, "Old Name", analysis.Losers[0].Name)
	})
}

func Test_groupSummaries(t *testing.T) {
	portfolio := node("Portfolio",
		node("Liquid Assets",
			node("Stocks",
				node("US Equities",
					leaf("A", fptr(100), nil),
					leaf("B", fptr(50), nil),
				),
				node("EU Equities",
					leaf("C", fptr(-30), nil),
				),
			),
		),
	)

	analysis, err := AnalyzeCategoryOutliers(portfolio, AnalyzeOutliersInput{Category: "stocks"})
	require.NoError(t, err)

	require.Equal(
		t,
		"",
		cmp.Diff(
			[]domain.GroupSummary{
				{
					Subgroup:        "US Equities",
					AssetCount:      2,
					TotalValue:      150,
					MeanValue:       75,
					ShareOfCategory: 150.0 / 180.0,
				},
				{
					Subgroup:        "EU Equities",
					AssetCount:      1,
					TotalValue:      -30,
					MeanValue:       -30,
					ShareOfCategory: -30.0 / 180.0,
				},
			},
			analysis.Groups,
		),
	)
}

func Test_bucketVariability(t *testing.T) {
	tests := []struct {
		variability float64
		bucket      domain.VariabilityBucket
		percentile  float64
	}{
		{0, domain.VariabilityLow, 0.25},
		{0.149, domain.VariabilityLow, 0.25},
		{0.15, domain.VariabilityMedium, 0.15},
		{0.349, domain.VariabilityMedium, 0.15},
		{0.35, domain.VariabilityHigh, 0.10},
		{2.5, domain.VariabilityHigh, 0.10},
	}
	for _, tc := range tests {
		bucket, percentile := bucketVariability(tc.variability)
		require.Equal(t, tc.bucket, bucket)
		require.Equal(t, tc.percentile, percentile)
	}
}
