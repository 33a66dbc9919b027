package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"
	"wealthlens/internal/domain"

	"github.com/montanaflynn/stats"
)

// variability thresholds and the candidate-pool fraction each bucket
// maps to. A flat category (low spread relative to magnitude) widens
// the pool, a noisy one narrows it.
const (
	lowVariabilityCeiling    = 0.15
	mediumVariabilityCeiling = 0.35

	lowVariabilityPercentile    = 0.25
	mediumVariabilityPercentile = 0.15
	highVariabilityPercentile   = 0.10

	winnerZScoreFloor = 0.6
)

type AnalyzeOutliersInput struct {
	Category string
	Metric   domain.Metric
	// Expression is only read when Metric is "custom".
	Expression string
}

type AnalyzeOutlierDeltaInput struct {
	Category   string
	Metric     domain.Metric
	Expression string
	StartDate  time.Time
	EndDate    time.Time
}

// AnalyzeCategoryOutliers locates the category subtree in the portfolio,
// flattens it to instruments, and picks statistically distinct winners
// and losers on the chosen metric.
func AnalyzeCategoryOutliers(portfolio domain.Asset, in AnalyzeOutliersInput) (*domain.CategoryOutlierAnalysis, error) {
	category, ok := domain.CategoryByKey(in.Category)
	if !ok {
		return nil, fmt.Errorf("unsupported category %q", in.Category)
	}
	if in.Metric == "" {
		in.Metric = domain.MetricTotalPerformance
	}

	metricFn, err := newMetricFunc(in.Metric, in.Expression)
	if err != nil {
		return nil, err
	}

	subtree := portfolio.FindByName(category.Name)
	if subtree == nil {
		return nil, fmt.Errorf("category %q not found in portfolio", category.Name)
	}

	samples := []domain.AssetSample{}
	for _, leaf := range flattenLeaves(*subtree, nil) {
		value := metricFn(leaf.Asset)
		if value == nil {
			continue
		}
		samples = append(samples, newSample(leaf, *value))
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("category %q has no leaves with a numeric %s value", category.Name, in.Metric)
	}

	analysis, err := analyzeSamples(samples)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", category.Name, err)
	}
	analysis.CategoryKey = category.Key
	analysis.CategoryLabel = category.Name
	analysis.Metric = in.Metric

	return analysis, nil
}

// AnalyzeCategoryOutlierDelta runs the same selection on per-leaf metric
// changes between two snapshots. Leaves are matched by full path string,
// so a renamed or reparented instrument counts as one disappearing and
// one appearing asset.
func AnalyzeCategoryOutlierDelta(startPortfolio, endPortfolio domain.Asset, in AnalyzeOutlierDeltaInput) (*domain.CategoryOutlierAnalysis, error) {
	category, ok := domain.CategoryByKey(in.Category)
	if !ok {
		return nil, fmt.Errorf("unsupported category %q", in.Category)
	}
	if in.Metric == "" {
		in.Metric = domain.MetricTotalPerformance
	}

	metricFn, err := newMetricFunc(in.Metric, in.Expression)
	if err != nil {
		return nil, err
	}

	startSubtree := startPortfolio.FindByName(category.Name)
	endSubtree := endPortfolio.FindByName(category.Name)
	if startSubtree == nil && endSubtree == nil {
		return nil, fmt.Errorf("category %q not found in either snapshot", category.Name)
	}

	startLeaves := leafIndex(startSubtree)
	endLeaves := leafIndex(endSubtree)

	keys := []string{}
	for id := range startLeaves {
		keys = append(keys, id)
	}
	for id := range endLeaves {
		if _, seen := startLeaves[id]; !seen {
			keys = append(keys, id)
		}
	}
	sort.Strings(keys)

	samples := []domain.AssetSample{}
	for _, id := range keys {
		startLeaf, inStart := startLeaves[id]
		endLeaf, inEnd := endLeaves[id]

		var startMetric, endMetric *float64
		if inStart {
			startMetric = metricFn(startLeaf.Asset)
		}
		if inEnd {
			endMetric = metricFn(endLeaf.Asset)
		}
		// a leaf with no measurable value on either side carries no
		// signal and is not part of the sample
		if startMetric == nil && endMetric == nil {
			continue
		}

		leaf := endLeaf
		if !inEnd {
			leaf = startLeaf
		}

		sample := newSample(leaf, zeroIfNil(endMetric)-zeroIfNil(startMetric))
		sample.StartPerformance = startMetric
		sample.EndPerformance = endMetric
		if inStart {
			sample.StartTwr = startLeaf.Asset.Twr
		}
		if inEnd {
			sample.EndTwr = endLeaf.Asset.Twr
		}
		if sample.StartTwr != nil || sample.EndTwr != nil {
			delta := zeroIfNil(sample.EndTwr) - zeroIfNil(sample.StartTwr)
			sample.DeltaTwr = &delta
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("category %q has no measurable changes between snapshots", category.Name)
	}

	analysis, err := analyzeSamples(samples)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", category.Name, err)
	}
	analysis.CategoryKey = category.Key
	analysis.CategoryLabel = category.Name
	analysis.Metric = in.Metric
	analysis.Period = &domain.Period{Start: in.StartDate, End: in.EndDate}

	return analysis, nil
}

// analyzeSamples is the shared tail of both modes: distribution stats,
// adaptive pool sizing, winner/loser selection and group aggregation.
func analyzeSamples(samples []domain.AssetSample) (*domain.CategoryOutlierAnalysis, error) {
	values := make([]float64, len(samples))
	totalAbs := 0.0
	positive := 0
	negative := 0
	for i, s := range samples {
		values[i] = s.MetricValue
		totalAbs += math.Abs(s.MetricValue)
		if s.MetricValue > 0 {
			positive++
		} else if s.MetricValue < 0 {
			negative++
		}
	}
	if totalAbs == 0 {
		return nil, fmt.Errorf("zero contribution across %d assets, cannot rank outliers", len(samples))
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sample mean: %w", err)
	}
	stdDev, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sample stddev: %w", err)
	}

	meanAbs := totalAbs / float64(len(samples))
	variability := 0.0
	if meanAbs != 0 {
		variability = stdDev / meanAbs
	}

	bucket, percentile := bucketVariability(variability)
	poolSize := int(math.Round(float64(len(samples)) * percentile))
	if poolSize < 1 {
		poolSize = 1
	}

	winners := selectOutliers(samples, mean, stdDev, totalAbs, poolSize, true)
	losers := selectOutliers(samples, mean, stdDev, totalAbs, poolSize, false)

	return &domain.CategoryOutlierAnalysis{
		SampleSize: len(samples),
		Stats: domain.DistributionStats{
			MeanValue:         mean,
			StdDev:            stdDev,
			MeanAbsoluteValue: meanAbs,
			Variability:       variability,
			Bucket:            bucket,
			PercentileApplied: percentile,
			PositiveCount:     positive,
			NegativeCount:     negative,
		},
		Groups:  summarizeGroups(samples, totalAbs),
		Winners: winners,
		Losers:  losers,
	}, nil
}

func bucketVariability(variability float64) (domain.VariabilityBucket, float64) {
	switch {
	case variability < lowVariabilityCeiling:
		return domain.VariabilityLow, lowVariabilityPercentile
	case variability < mediumVariabilityCeiling:
		return domain.VariabilityMedium, mediumVariabilityPercentile
	}
	return domain.VariabilityHigh, highVariabilityPercentile
}

// selectOutliers takes the top-of-pool candidates of one sign, then
// keeps the statistically distinct ones (|z| >= 0.6). If the z-score
// filter would empty the pool, the unfiltered pool wins - a category
// with any movers always reports them.
func selectOutliers(samples []domain.AssetSample, mean, stdDev, totalAbs float64, poolSize int, winners bool) []domain.OutlierAsset {
	candidates := []domain.AssetSample{}
	for _, s := range samples {
		if winners && s.MetricValue > 0 {
			candidates = append(candidates, s)
		} else if !winners && s.MetricValue < 0 {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return []domain.OutlierAsset{}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if winners {
			return candidates[i].MetricValue > candidates[j].MetricValue
		}
		return candidates[i].MetricValue < candidates[j].MetricValue
	})

	if poolSize > len(candidates) {
		poolSize = len(candidates)
	}
	pool := candidates[:poolSize]

	selected := pool
	if stdDev > 0 {
		filtered := []domain.AssetSample{}
		for _, s := range pool {
			z := (s.MetricValue - mean) / stdDev
			if winners && z >= winnerZScoreFloor {
				filtered = append(filtered, s)
			} else if !winners && z <= -winnerZScoreFloor {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) > 0 {
			selected = filtered
		}
	}

	out := make([]domain.OutlierAsset, 0, len(selected))
	for _, s := range selected {
		out = append(out, formatOutlier(s, mean, stdDev, totalAbs))
	}
	return out
}

func formatOutlier(s domain.AssetSample, mean, stdDev, totalAbs float64) domain.OutlierAsset {
	z := 0.0
	if stdDev > 0 {
		z = (s.MetricValue - mean) / stdDev
	}
	return domain.OutlierAsset{
		ID:               s.ID,
		Name:             s.Asset.Name,
		Path:             s.Path,
		Subgroup:         s.Subgroup,
		MetricValue:      s.MetricValue,
		ZScore:           z,
		ShareOfCategory:  s.MetricValue / totalAbs,
		Twr:              s.Twr,
		Irr:              s.Irr,
		ExternalFlow:     s.ExternalFlow,
		TotalPerformance: s.TotalPerformance,
		StartPerformance: s.StartPerformance,
		EndPerformance:   s.EndPerformance,
		StartTwr:         s.StartTwr,
		EndTwr:           s.EndTwr,
		DeltaTwr:         s.DeltaTwr,
	}
}

func summarizeGroups(samples []domain.AssetSample, totalAbs float64) []domain.GroupSummary {
	bySubgroup := map[string]*domain.GroupSummary{}
	for _, s := range samples {
		g, ok := bySubgroup[s.Subgroup]
		if !ok {
			g = &domain.GroupSummary{Subgroup: s.Subgroup}
			bySubgroup[s.Subgroup] = g
		}
		g.AssetCount++
		g.TotalValue += s.MetricValue
	}

	groups := make([]domain.GroupSummary, 0, len(bySubgroup))
	for _, g := range bySubgroup {
		g.MeanValue = g.TotalValue / float64(g.AssetCount)
		g.ShareOfCategory = g.TotalValue / totalAbs
		groups = append(groups, *g)
	}
	// dominant subgroups first, name breaks ties so output is stable
	sort.Slice(groups, func(i, j int) bool {
		ai, aj := math.Abs(groups[i].TotalValue), math.Abs(groups[j].TotalValue)
		if ai != aj {
			return ai > aj
		}
		return groups[i].Subgroup < groups[j].Subgroup
	})
	return groups
}

// flattenLeaves walks the subtree depth-first. The path always starts
// with the category node itself, so path[1] is the first grouping level
// below it.
func flattenLeaves(node domain.Asset, parentPath []string) []domain.LeafNode {
	path := append(append([]string{}, parentPath...), node.Name)
	if node.IsLeaf() {
		return []domain.LeafNode{{
			ID:       domain.LeafID(path),
			Path:     path,
			Subgroup: domain.SubgroupFromPath(path),
			Asset:    node,
		}}
	}

	leaves := []domain.LeafNode{}
	for _, child := range node.SubLines {
		leaves = append(leaves, flattenLeaves(child, path)...)
	}
	return leaves
}

func leafIndex(subtree *domain.Asset) map[string]domain.LeafNode {
	index := map[string]domain.LeafNode{}
	if subtree == nil {
		return index
	}
	for _, leaf := range flattenLeaves(*subtree, nil) {
		index[leaf.ID] = leaf
	}
	return index
}

func newSample(leaf domain.LeafNode, metricValue float64) domain.AssetSample {
	return domain.AssetSample{
		LeafNode:         leaf,
		Twr:              leaf.Asset.Twr,
		Irr:              leaf.Asset.Irr,
		ExternalFlow:     leaf.Asset.ExternalFlow,
		TotalPerformance: leaf.Asset.TotalPerformance,
		MetricValue:      metricValue,
	}
}

func zeroIfNil(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
