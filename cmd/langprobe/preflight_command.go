package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"langprobe/internal/preflight"
)

// checkView is the JSON shape for `preflight --json`.
type checkView struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check that the required tools, model, and directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)

			if ctx.jsonOutput() {
				views := make([]checkView, 0, len(results))
				for _, result := range results {
					views = append(views, checkView{Name: result.Name, Passed: result.Passed, Detail: result.Detail})
				}
				if err := writeJSON(cmd, views); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorized := shouldColorize(out)
				headers := []string{"Check", "Status", "Detail"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft}
				rows := make([][]string, 0, len(results))
				for _, result := range results {
					status := colorize("PASS", ansiGreen, colorized)
					if !result.Passed {
						status = colorize("FAIL", ansiRed, colorized)
					}
					rows = append(rows, []string{result.Name, status, result.Detail})
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
			}

			if !preflight.AllPassed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
