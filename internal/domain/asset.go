package domain

import (
	"strings"
	"time"
)

// Asset is a node in the Qplix portfolio tree. Inner nodes are
// categories/subcategories, nodes without SubLines are instruments.
// Metric fields come back null from the vendor for non-applicable
// rows, hence the pointers.
type Asset struct {
	Name             string   `json:"name"`
	Twr              *float64 `json:"twr"`
	Irr              *float64 `json:"irr"`
	ExternalFlow     *float64 `json:"externalFlow"`
	TotalPerformance *float64 `json:"totalPerformance"`
	SubLines         []Asset  `json:"subLines"`
}

func (a Asset) IsLeaf() bool {
	return len(a.SubLines) == 0
}

// FindByName does a depth-first search and returns the first node whose
// name matches, or nil.
func (a *Asset) FindByName(name string) *Asset {
	if a.Name == name {
		return a
	}
	for i := range a.SubLines {
		if found := a.SubLines[i].FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// LeafNode is a flattened instrument with its ancestry. The ID is the
// full path joined by " > " and doubles as the identity key when
// diffing two snapshots.
type LeafNode struct {
	ID       string
	Path     []string
	Subgroup string
	Asset    Asset
}

// Subgroup is the second path element, which is the first grouping
// level under the analyzed category. Shallow paths fall back to the
// first element.
func SubgroupFromPath(path []string) string {
	if len(path) >= 2 {
		return path[1]
	}
	if len(path) == 1 {
		return path[0]
	}
	return ""
}

func LeafID(path []string) string {
	return strings.Join(path, " > ")
}

// AssetSample is a leaf with its chosen metric resolved. In delta mode
// the Start/End fields carry the raw per-snapshot values (nil when the
// asset is missing from that snapshot) and MetricValue is end minus
// start.
type AssetSample struct {
	LeafNode

	Twr              *float64
	Irr              *float64
	ExternalFlow     *float64
	TotalPerformance *float64

	MetricValue float64

	StartPerformance *float64
	EndPerformance   *float64
	StartTwr         *float64
	EndTwr           *float64
	DeltaTwr         *float64
}

type OutlierAsset struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Path             []string `json:"path"`
	Subgroup         string   `json:"subgroup"`
	MetricValue      float64  `json:"metricValue"`
	ZScore           float64  `json:"zScore"`
	ShareOfCategory  float64  `json:"shareOfCategory"`
	Twr              *float64 `json:"twr,omitempty"`
	Irr              *float64 `json:"irr,omitempty"`
	ExternalFlow     *float64 `json:"externalFlow,omitempty"`
	TotalPerformance *float64 `json:"totalPerformance,omitempty"`
	StartPerformance *float64 `json:"startPerformance,omitempty"`
	EndPerformance   *float64 `json:"endPerformance,omitempty"`
	StartTwr         *float64 `json:"startTwr,omitempty"`
	EndTwr           *float64 `json:"endTwr,omitempty"`
	DeltaTwr         *float64 `json:"deltaTwr,omitempty"`
}

type GroupSummary struct {
	Subgroup        string  `json:"subgroup"`
	AssetCount      int     `json:"assetCount"`
	TotalValue      float64 `json:"totalValue"`
	MeanValue       float64 `json:"meanValue"`
	ShareOfCategory float64 `json:"shareOfCategory"`
}

type VariabilityBucket string

const (
	VariabilityLow    VariabilityBucket = "low"
	VariabilityMedium VariabilityBucket = "medium"
	VariabilityHigh   VariabilityBucket = "high"
)

type DistributionStats struct {
	MeanValue         float64           `json:"meanValue"`
	StdDev            float64           `json:"stdDev"`
	MeanAbsoluteValue float64           `json:"meanAbsoluteValue"`
	Variability       float64           `json:"variability"`
	Bucket            VariabilityBucket `json:"bucket"`
	PercentileApplied float64           `json:"percentileApplied"`
	PositiveCount     int               `json:"positiveCount"`
	NegativeCount     int               `json:"negativeCount"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CategoryOutlierAnalysis is the full result of one analyzer run. It is
// built fresh per call and never persisted.
type CategoryOutlierAnalysis struct {
	CategoryKey   string            `json:"categoryKey"`
	CategoryLabel string            `json:"categoryLabel"`
	Metric        Metric            `json:"metric"`
	SampleSize    int               `json:"sampleSize"`
	Period        *Period           `json:"period,omitempty"`
	Stats         DistributionStats `json:"stats"`
	Groups        []GroupSummary    `json:"groups"`
	Winners       []OutlierAsset    `json:"winners"`
	Losers        []OutlierAsset    `json:"losers"`
}
