package commands

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/application/markdown"
	reportapp "github.com/rooted/analytics/internal/application/report"
	"github.com/rooted/analytics/internal/bootstrap"
	"github.com/rooted/analytics/internal/domain/shared"
)

func reportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch reports from the warehouse",
	}
	cmd.AddCommand(reportTypesCmd(e), reportFetchCmd(e))
	return cmd
}

func reportTypesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the report types and how each is rendered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatters := markdown.NewRegistry()
			svc := reportapp.NewService(nil, e.clients, formatters, e.log)
			types := svc.Types()
			sort.Strings(types)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tFORMAT")
			for _, t := range types {
				format := "json"
				if formatters.Has(t) {
					format = "template"
				}
				fmt.Fprintf(tw, "%s\t%s\n", t, format)
			}
			return tw.Flush()
		},
	}
}

func reportFetchCmd(e *env) *cobra.Command {
	var (
		clientID   string
		reportType string
		period     string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one report and print it",
		Example: "  analyticsctl report fetch --client jumbomax --type weekly-executive\n" +
			"  analyticsctl report fetch --client puttout --type platform-deep-dive --period mtd --format json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !e.clients.IsValid(clientID) {
				return shared.ErrUnknownClient.WithDetails(clientID)
			}
			format = strings.ToLower(format)
			if format != "markdown" && format != "json" {
				return shared.ErrInvalidInput.WithMessage("format must be markdown or json")
			}
			if !slices.Contains(reportapp.NewService(nil, e.clients, nil, e.log).Types(), reportType) {
				return shared.ErrUnknownReportType.WithDetails(reportType)
			}

			db, warehouse, err := bootstrap.Warehouse(e.cfg, e.log, nil)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					e.log.Warn("Error closing warehouse", zap.Error(err))
				}
			}()

			svc := reportapp.NewService(warehouse, e.clients, markdown.NewRegistry(), e.log)
			result, err := svc.Fetch(cmd.Context(), reportapp.Request{
				ReportType: reportType,
				ClientID:   clientID,
				Period:     period,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			_, err = fmt.Fprintln(out, result.FormattedData)
			return err
		},
	}
	cmd.Flags().StringVarP(&clientID, "client", "c", "", "client ID")
	cmd.Flags().StringVarP(&reportType, "type", "t", "", "report type (see report types)")
	cmd.Flags().StringVarP(&period, "period", "p", "", "period, e.g. 7d, 30d, mtd (default 30d)")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown or json")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
