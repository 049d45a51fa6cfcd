package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/transitlab/graphrag/rag"
)

func contextWithTimeout(parent context.Context, seconds int) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if seconds <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, time.Duration(seconds)*time.Second)
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the community and summary cache",
	}
	cmd.AddCommand(newCacheStatsCmd(), newCacheWarmCmd(), newCacheClearCmd(), newCacheValidateCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := engine.CacheStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("community entries:  %d\n", stats.CommunityEntries)
			fmt.Printf("summary entries:    %d\n", stats.SummaryEntries)
			fmt.Printf("quarantine entries: %d\n", stats.QuarantineEntries)
			fmt.Printf("total bytes:        %d\n", stats.TotalBytes)
			return nil
		},
	}
}

func newCacheWarmCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Detect communities and pre-generate summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			scope := rag.YearScope{}
			if year != 0 {
				scope = rag.YearScope{Start: year, End: year}
			}

			report, err := engine.Warm(cmd.Context(), scope)
			if err != nil {
				return err
			}
			fmt.Printf("communities cached: %d\n", report.CommunitiesCached)
			fmt.Printf("summaries cached:   %d\n", report.SummariesCached)
			fmt.Printf("duration:           %s\n", report.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "restrict warming to one year")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Remove every cached community and summary? [y/N]: ")
				var answer string
				fmt.Fscanln(cmd.InOrStdin(), &answer)
				if answer != "y" && answer != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := engine.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("entries removed: %d\n", report.EntriesRemoved)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func newCacheValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check entry integrity and quarantine corrupt entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := engine.ValidateCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("healthy entries: %d\n", report.HealthyEntries)
			fmt.Printf("corrupt entries: %d\n", report.CorruptEntries)
			return nil
		},
	}
}
