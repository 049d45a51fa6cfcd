package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/transitlab/graphrag/rag"
)

func newQueryCmd() *cobra.Command {
	var (
		year       int
		startYear  int
		endYear    int
		dims       []string
		timeoutSec int
	)

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Answer a question about the transport network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			scope, err := buildScope(year, startYear, endYear)
			if err != nil {
				return err
			}
			dimensions, err := parseDimensions(dims)
			if err != nil {
				return err
			}

			ctx, cancel := contextWithTimeout(cmd.Context(), timeoutSec)
			defer cancel()

			result, err := engine.Query(ctx, args[0], scope, dimensions)
			if err != nil {
				return err
			}

			fmt.Println(result.Answer)
			fmt.Println()
			fmt.Printf("question type: %s\n", result.QuestionType)
			fmt.Printf("communities analyzed: %d\n", result.CommunitiesAnalyzed)
			fmt.Printf("execution time: %s\n", result.ExecutionTime.Round(time.Millisecond))
			if result.Truncated {
				fmt.Println("note: community selection was truncated")
			}
			if result.DegradedCoverage {
				fmt.Printf("note: coverage degraded, %d communities failed\n", result.FailedCommunities)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "restrict analysis to one year")
	cmd.Flags().IntVar(&startYear, "start-year", 0, "start of year range")
	cmd.Flags().IntVar(&endYear, "end-year", 0, "end of year range")
	cmd.Flags().StringSliceVar(&dims, "dimensions", nil,
		"community dimensions to analyze (geographic, operational, temporal, service_type)")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 300, "query timeout in seconds")
	return cmd
}

func buildScope(year, startYear, endYear int) (rag.YearScope, error) {
	switch {
	case year != 0:
		return rag.YearScope{Start: year, End: year}, nil
	case startYear != 0 || endYear != 0:
		if startYear == 0 || endYear == 0 || endYear < startYear {
			return rag.YearScope{}, errors.New("start-year and end-year must both be set, with end >= start")
		}
		return rag.YearScope{Start: startYear, End: endYear}, nil
	}
	return rag.YearScope{}, nil
}

func parseDimensions(dims []string) ([]rag.Dimension, error) {
	parsed := make([]rag.Dimension, 0, len(dims))
	for _, d := range dims {
		dim, err := rag.ParseDimension(d)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, dim)
	}
	return parsed, nil
}
