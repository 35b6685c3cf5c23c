package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"langprobe/internal/processor"
	"langprobe/internal/track"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Detect the spoken language of every audio track",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			proc, err := processor.New(cfg, logger, processor.Options{
				SkipCache: ctx.skipCache(),
				Debug:     ctx.debug(),
			})
			if err != nil {
				return err
			}
			defer proc.Close()

			reports := make([]*processor.Report, 0, len(args))
			for _, arg := range args {
				report, err := proc.Process(cmd.Context(), arg)
				if err != nil {
					return err
				}
				reports = append(reports, report)
			}

			if ctx.jsonOutput() {
				if len(reports) == 1 {
					return writeJSON(cmd, reports[0])
				}
				return writeJSON(cmd, reports)
			}

			out := cmd.OutOrStdout()
			colorized := shouldColorize(out)
			for i, report := range reports {
				if i > 0 {
					fmt.Fprintln(out)
				}
				renderReport(out, report, colorized)
			}
			return nil
		},
	}
}

func renderReport(out io.Writer, report *processor.Report, colorized bool) {
	source := ""
	if report.Cached {
		source = ", cached"
	}
	fmt.Fprintf(out, "%s (%s, model %s%s)\n", report.File,
		formatDuration(report.DurationSeconds), report.Model, source)

	headers := []string{"ID", "Codec", "Ch", "Tagged", "Detected", "Confidence", "Method", "Review"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
	rows := make([][]string, 0, len(report.Tracks))
	flagged := 0
	for _, tr := range report.Tracks {
		if tr.NeedsReview {
			flagged++
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", tr.ID),
			tr.Codec,
			fmt.Sprintf("%d", tr.Channels),
			orDash(tr.OriginalLanguageISO),
			detectedCell(tr),
			formatConfidence(tr.Confidence),
			orDash(tr.Stats.Method),
			reviewCell(tr.NeedsReview, colorized),
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))

	summary := fmt.Sprintf("%d track(s) analyzed, %d flagged for review", len(report.Tracks), flagged)
	if flagged > 0 {
		summary = colorize(summary, ansiYellow, colorized)
	}
	fmt.Fprintln(out, summary)
}

func detectedCell(tr track.Result) string {
	if tr.ShouldIgnore {
		return "ignored"
	}
	return orDash(tr.DetectedLanguageISO)
}

func reviewCell(needsReview, colorized bool) string {
	if needsReview {
		return colorize("yes", ansiRed, colorized)
	}
	return colorize("no", ansiGreen, colorized)
}

func formatConfidence(confidence *float64) string {
	if confidence == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *confidence)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown duration"
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return d.String()
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
