package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akashpatki/rupeelog/internal/activity"
	"github.com/akashpatki/rupeelog/internal/domain"
	"github.com/akashpatki/rupeelog/internal/gcsarchive"
	infraBQ "github.com/akashpatki/rupeelog/internal/infra/bigquery"
	"github.com/akashpatki/rupeelog/internal/logger"
)

var (
	userID   string
	typeFlag string
	fromFlag string
	toFlag   string
	month    int
	year     int
)

var rootCmd = &cobra.Command{
	Use:   "rupeelog",
	Short: "Personal finance activity feed over BigQuery",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print one page of the activity feed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, cleanup, err := newService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		filter, err := buildFilter()
		if err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		result, err := svc.Feed(cmd.Context(), userID, filter, page, limit)
		if err != nil {
			return err
		}

		for _, row := range result.Activities {
			fmt.Printf("%-12s  %-22s  %-8s  %10s  %s\n",
				row.Date, row.Action, row.Type, row.Amount, row.Description)
		}
		cur := activity.DefaultCurrency
		fmt.Printf("\npage %d of %d records  |  income %s%s  expenses %s%s  net %s%s\n",
			result.Page, result.TotalCount,
			cur, result.Statistics.TotalIncome.StringFixed(2),
			cur, result.Statistics.TotalExpenses.StringFixed(2),
			cur, result.Statistics.NetBalance.StringFixed(2))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered feed as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, cleanup, err := newService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		filter, err := buildFilter()
		if err != nil {
			return err
		}

		data, err := svc.Export(cmd.Context(), userID, filter)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		return os.WriteFile(outPath, data, 0o644)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per-type totals for one calendar month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if month == 0 || year == 0 {
			return fmt.Errorf("summary requires --month and --year")
		}

		svc, cleanup, err := newService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		totals, err := svc.MonthlySummary(cmd.Context(), userID, month, year)
		if err != nil {
			return err
		}

		fmt.Printf("Summary for %04d-%02d\n", year, month)
		for _, t := range totals {
			fmt.Printf("  %-8s  %10s  (%d records)\n",
				t.Type, t.Total.StringFixed(2), t.Count)
		}
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Export the full activity history and upload it to GCS",
	RunE: func(cmd *cobra.Command, _ []string) error {
		bucket, _ := cmd.Flags().GetString("bucket")
		if bucket == "" {
			bucket = os.Getenv("GCS_BUCKET")
		}
		if bucket == "" {
			return fmt.Errorf("archive requires --bucket or GCS_BUCKET")
		}

		svc, cleanup, err := newService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := svc.Export(cmd.Context(), userID, activity.Filter{})
		if err != nil {
			return err
		}

		uri := gcsarchive.URI(bucket, gcsarchive.ObjectName(userID, time.Now().UTC()))
		if err := gcsarchive.Upload(cmd.Context(), uri, data); err != nil {
			return err
		}

		fmt.Printf("archived %d bytes to %s\n", len(data), uri)
		return nil
	},
}

func newService(ctx context.Context) (*activity.Service, func(), error) {
	log := logger.New()

	repo, err := infraBQ.NewBigQueryActivityRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close repository")
		}
	}
	return activity.NewService(repo, log), cleanup, nil
}

func buildFilter() (activity.Filter, error) {
	filter := activity.Filter{
		Type:  domain.ActivityType(typeFlag),
		Month: month,
		Year:  year,
	}

	if fromFlag != "" {
		t, err := time.Parse("2006-01-02", fromFlag)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid --from %q, want YYYY-MM-DD", fromFlag)
		}
		filter.From = &t
	}
	if toFlag != "" {
		t, err := time.Parse("2006-01-02", toFlag)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid --to %q, want YYYY-MM-DD", toFlag)
		}
		filter.To = &t
	}

	return filter, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User ID to act as (required)")
	rootCmd.MarkPersistentFlagRequired("user")

	rootCmd.PersistentFlags().StringVar(&typeFlag, "type", "", "Filter by activity type (income, expense, setup)")
	rootCmd.PersistentFlags().StringVar(&fromFlag, "from", "", "Start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&toFlag, "to", "", "End date, inclusive (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntVar(&month, "month", 0, "Calendar month (1-12), requires --year")
	rootCmd.PersistentFlags().IntVar(&year, "year", 0, "Calendar year, requires --month")

	feedCmd.Flags().Int("page", 1, "Page number")
	feedCmd.Flags().Int("limit", activity.DefaultPageSize, "Records per page")

	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	archiveCmd.Flags().String("bucket", "", "GCS bucket for the archive (default: GCS_BUCKET env)")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(archiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
