package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"langprobe/internal/models"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Whisper model utilities",
	}

	modelsCmd.AddCommand(newModelsListCommand(ctx))
	modelsCmd.AddCommand(newModelsDownloadCommand(ctx))

	return modelsCmd
}

// modelView is the JSON shape for `models list --json`.
type modelView struct {
	Name    string `json:"name"`
	SizeMB  int    `json:"size_mb"`
	Present bool   `json:"present"`
	Path    string `json:"path,omitempty"`
}

func newModelsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known whisper models and whether they are downloaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			views := make([]modelView, 0, len(models.All()))
			for _, info := range models.All() {
				path := info.Path(cfg.Paths.ModelDir)
				view := modelView{Name: info.Name, SizeMB: info.SizeMB}
				if _, err := os.Stat(path); err == nil {
					view.Present = true
					view.Path = path
				}
				views = append(views, view)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}

			headers := []string{"Name", "Size", "Downloaded"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft}
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					view.Name,
					fmt.Sprintf("%d MB", view.SizeMB),
					yesNo(view.Present),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func newModelsDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <name>",
		Short: "Download a whisper model into the model directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			downloader := &models.Downloader{Dir: cfg.Paths.ModelDir, Logger: logger}
			path, err := downloader.Ensure(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model %s available at %s\n", args[0], path)
			return nil
		},
	}
}
