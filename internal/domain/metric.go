package domain

import "fmt"

// Metric selects which per-leaf field the analyzer ranks on.
type Metric string

const (
	MetricTotalPerformance Metric = "totalPerformance"
	MetricTwr              Metric = "twr"
	// MetricCustom means the caller supplied an expression over the
	// leaf fields instead of picking one of them.
	MetricCustom Metric = "custom"
)

func NewMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTotalPerformance, MetricTwr, MetricCustom:
		return Metric(s), nil
	case "":
		return MetricTotalPerformance, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}
