package calculator

import (
	"fmt"
	"math"
	"wealthlens/internal/domain"

	"github.com/maja42/goval"
)

// metricFunc resolves one leaf to its metric value, or nil when the
// leaf carries no usable number and must be dropped from the sample.
type metricFunc func(asset domain.Asset) *float64

func newMetricFunc(metric domain.Metric, expression string) (metricFunc, error) {
	switch metric {
	case domain.MetricTotalPerformance, "":
		return func(asset domain.Asset) *float64 {
			return finiteOrNil(asset.TotalPerformance)
		}, nil
	case domain.MetricTwr:
		return func(asset domain.Asset) *float64 {
			return finiteOrNil(asset.Twr)
		}, nil
	case domain.MetricCustom:
		if expression == "" {
			return nil, fmt.Errorf("custom metric requires an expression")
		}
		fn := newExpressionMetricFunc(expression)
		// probe with non-zero fields so a malformed expression fails
		// the request instead of silently emptying the sample
		one := 1.0
		probe := domain.Asset{Twr: &one, Irr: &one, ExternalFlow: &one, TotalPerformance: &one}
		if fn(probe) == nil {
			return nil, fmt.Errorf("invalid metric expression %q", expression)
		}
		return fn, nil
	}
	return nil, fmt.Errorf("unknown metric %q", metric)
}

// newExpressionMetricFunc evaluates a user-supplied expression over the
// leaf's metric fields, e.g. "totalPerformance / abs(externalFlow)".
// Fields the vendor reported as null evaluate as 0; a leaf with no
// reported fields at all is dropped.
func newExpressionMetricFunc(expression string) metricFunc {
	eval := goval.NewEvaluator()
	functions := map[string]goval.ExpressionFunction{
		"abs": func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("abs expects one argument")
			}
			f, ok := toFloat(args[0])
			if !ok {
				return nil, fmt.Errorf("abs expects a number")
			}
			return math.Abs(f), nil
		},
	}

	return func(asset domain.Asset) *float64 {
		if asset.Twr == nil && asset.Irr == nil && asset.ExternalFlow == nil && asset.TotalPerformance == nil {
			return nil
		}
		variables := map[string]interface{}{
			"twr":              zeroIfNil(asset.Twr),
			"irr":              zeroIfNil(asset.Irr),
			"externalFlow":     zeroIfNil(asset.ExternalFlow),
			"totalPerformance": zeroIfNil(asset.TotalPerformance),
		}

		result, err := eval.Evaluate(expression, variables, functions)
		if err != nil {
			return nil
		}
		f, ok := toFloat(result)
		if !ok {
			return nil
		}
		return finiteOrNil(&f)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func finiteOrNil(f *float64) *float64 {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return nil
	}
	v := *f
	return &v
}
