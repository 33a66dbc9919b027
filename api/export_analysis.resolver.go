package api

import (
	"fmt"
	"wealthlens/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type ExportAnalysisRequest struct {
	Analysis domain.CategoryOutlierAnalysis `json:"analysis"`
}

type outlierCsvRow struct {
	Category        string   `csv:"category"`
	Side            string   `csv:"side"`
	Name            string   `csv:"name"`
	Path            string   `csv:"path"`
	Subgroup        string   `csv:"subgroup"`
	Metric          string   `csv:"metric"`
	MetricValue     float64  `csv:"metricValue"`
	ZScore          float64  `csv:"zScore"`
	ShareOfCategory float64  `csv:"shareOfCategory"`
	Twr             *float64 `csv:"twr"`
	DeltaTwr        *float64 `csv:"deltaTwr"`
}

// exportAnalysis renders a previously computed analysis as CSV so the
// winners/losers can land in a spreadsheet. The client posts the
// analysis back rather than re-running it server side.
func (m ApiHandler) exportAnalysis(c *gin.Context) {
	var requestBody ExportAnalysisRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	analysis := requestBody.Analysis
	if analysis.CategoryKey == "" {
		returnErrorJsonCode(fmt.Errorf("analysis is required"), c, 400)
		return
	}

	rows := []outlierCsvRow{}
	appendRows := func(side string, assets []domain.OutlierAsset) {
		for _, a := range assets {
			rows = append(rows, outlierCsvRow{
				Category:        analysis.CategoryKey,
				Side:            side,
				Name:            a.Name,
				Path:            a.ID,
				Subgroup:        a.Subgroup,
				Metric:          string(analysis.Metric),
				MetricValue:     a.MetricValue,
				ZScore:          a.ZScore,
				ShareOfCategory: a.ShareOfCategory,
				Twr:             a.Twr,
				DeltaTwr:        a.DeltaTwr,
			})
		}
	}
	appendRows("winner", analysis.Winners)
	appendRows("loser", analysis.Losers)

	csvOut, err := gocsv.MarshalString(&rows)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to render csv: %w", err), c)
		return
	}

	filename := fmt.Sprintf("outliers-%s.csv", analysis.CategoryKey)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/csv", []byte(csvOut))
}
