package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"langprobe/internal/config"
	"langprobe/internal/language"
	"langprobe/internal/media/ffprobe"
)

// trackView is the JSON shape for `tracks --json`.
type trackView struct {
	ID           int    `json:"id"`
	StreamOrder  int    `json:"stream_order"`
	Codec        string `json:"codec"`
	Channels     int    `json:"channels"`
	Language     string `json:"language,omitempty"`
	Title        string `json:"title,omitempty"`
	ShouldIgnore bool   `json:"should_ignore"`
}

func newTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks <file>",
		Short: "List the audio tracks of a media file without analyzing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			probe, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobe, path)
			if err != nil {
				return fmt.Errorf("inspect media file: %w", err)
			}
			tracks := probe.AudioTracks(cfg.Ignore.TitleKeywords)
			if len(tracks) == 0 {
				return fmt.Errorf("%s: no audio tracks found", path)
			}

			if ctx.jsonOutput() {
				views := make([]trackView, 0, len(tracks))
				for _, tr := range tracks {
					views = append(views, trackView{
						ID:           tr.ID,
						StreamOrder:  tr.StreamOrder,
						Codec:        tr.Codec,
						Channels:     tr.Channels,
						Language:     tr.Language,
						Title:        tr.Title,
						ShouldIgnore: tr.ShouldIgnore,
					})
				}
				return writeJSON(cmd, views)
			}

			headers := []string{"ID", "Stream", "Codec", "Ch", "Language", "Title", "Ignored"}
			aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
			rows := make([][]string, 0, len(tracks))
			for _, tr := range tracks {
				rows = append(rows, []string{
					fmt.Sprintf("%d", tr.ID),
					fmt.Sprintf("%d", tr.StreamOrder),
					tr.Codec,
					fmt.Sprintf("%d", tr.Channels),
					languageCell(tr.Language),
					orDash(tr.Title),
					yesNo(tr.ShouldIgnore),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", path, formatDuration(probe.DurationSeconds()))
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func languageCell(code string) string {
	if code == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", code, language.DisplayName(code))
}
