package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
	"wealthlens/internal/domain"
	"wealthlens/internal/logger"
	"wealthlens/internal/repository"
	"wealthlens/internal/service"
	"wealthlens/internal/util"

	"github.com/spf13/cobra"
)

// one-off analysis runs from the terminal, without standing up the api

var (
	categoryFlag   string
	metricFlag     string
	expressionFlag string
	asOfFlag       string
	startFlag      string
	endFlag        string
)

func newAnalysisService() (service.AnalysisService, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	qplixRepository := repository.NewQplixRepository(secrets.Qplix.Endpoint, secrets.Qplix.ApiToken)
	return service.NewAnalysisService(qplixRepository), nil
}

func printJson(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	svc, err := newAnalysisService()
	if err != nil {
		return err
	}

	metric, err := domain.NewMetric(metricFlag)
	if err != nil {
		return err
	}

	asOf := time.Time{}
	if asOfFlag != "" {
		asOf, err = util.ParseDate(asOfFlag)
		if err != nil {
			return err
		}
	}

	ctx := context.WithValue(context.Background(), logger.ContextKey, logger.New())
	analysis, err := svc.AnalyzeCategoryOutliers(ctx, service.AnalyzeOutliersRequest{
		Category:   categoryFlag,
		Metric:     metric,
		Expression: expressionFlag,
		AsOf:       asOf,
	})
	if err != nil {
		return err
	}

	return printJson(analysis)
}

func runDelta(cmd *cobra.Command, args []string) error {
	svc, err := newAnalysisService()
	if err != nil {
		return err
	}

	metric, err := domain.NewMetric(metricFlag)
	if err != nil {
		return err
	}

	startDate, err := util.ParseDate(startFlag)
	if err != nil {
		return err
	}
	endDate, err := util.ParseDate(endFlag)
	if err != nil {
		return err
	}

	ctx := context.WithValue(context.Background(), logger.ContextKey, logger.New())
	analysis, err := svc.AnalyzeCategoryOutlierDelta(ctx, service.AnalyzeOutlierDeltaRequest{
		Category:   categoryFlag,
		Metric:     metric,
		Expression: expressionFlag,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		return err
	}

	return printJson(analysis)
}

func runCategories(cmd *cobra.Command, args []string) error {
	return printJson(domain.Categories)
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "wealthlens",
		Short:        "portfolio category outlier analysis",
		SilenceUsage: true,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "rank winners and losers within a category for one snapshot",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&categoryFlag, "category", "", "category key, e.g. stocks")
	analyzeCmd.Flags().StringVar(&metricFlag, "metric", "", "totalPerformance (default), twr, or custom")
	analyzeCmd.Flags().StringVar(&expressionFlag, "expression", "", "metric expression when --metric=custom")
	analyzeCmd.Flags().StringVar(&asOfFlag, "as-of", "", "snapshot date YYYY-MM-DD, empty for latest")
	if err := analyzeCmd.MarkFlagRequired("category"); err != nil {
		log.Fatal(err)
	}

	deltaCmd := &cobra.Command{
		Use:   "delta",
		Short: "rank winners and losers by change between two snapshots",
		RunE:  runDelta,
	}
	deltaCmd.Flags().StringVar(&categoryFlag, "category", "", "category key, e.g. stocks")
	deltaCmd.Flags().StringVar(&metricFlag, "metric", "", "totalPerformance (default), twr, or custom")
	deltaCmd.Flags().StringVar(&expressionFlag, "expression", "", "metric expression when --metric=custom")
	deltaCmd.Flags().StringVar(&startFlag, "start", "", "start snapshot date YYYY-MM-DD")
	deltaCmd.Flags().StringVar(&endFlag, "end", "", "end snapshot date YYYY-MM-DD")
	for _, flag := range []string{"category", "start", "end"} {
		if err := deltaCmd.MarkFlagRequired(flag); err != nil {
			log.Fatal(err)
		}
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "list supported category keys",
		RunE:  runCategories,
	}

	rootCmd.AddCommand(analyzeCmd, deltaCmd, categoriesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
