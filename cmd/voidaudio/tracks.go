package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/voidaudio/internal/adapter/output"
	"github.com/jmylchreest/voidaudio/internal/core"
	"github.com/jmylchreest/voidaudio/internal/model"
)

var tracksOpts struct {
	// Filter options
	kind    string
	filter  string
	search  string
	missing bool
	limit   int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	template string
}

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List configured tracks",
	Long: `List the tracks declared in the config file and manifest, with the
resolved file path, its size and whether it exists.

Tracks are listed in config order, then manifest order, unless --sort is
given. The 1-based position in that order can be passed to "play".

Formats: plain (default), dmenu, json, yaml, ids.

Examples:
  # Show all tracks
  voidaudio tracks

  # Music tracks whose file is missing, as JSON
  voidaudio tracks --kind music --missing --format json

  # Large files, biggest first
  voidaudio tracks --filter 'size>1MB' --sort size --order desc

  # Custom template
  voidaudio tracks --template '{{.Track.ID}} {{bytes .Track.Size}}{{"\n"}}'`,
	Args: cobra.NoArgs,
	RunE: runTracks,
}

func init() {
	rootCmd.AddCommand(tracksCmd)

	// Filter flags
	tracksCmd.Flags().StringVar(&tracksOpts.kind, "kind", "",
		"Only list tracks of this kind (music, sfx)")
	tracksCmd.Flags().StringVar(&tracksOpts.filter, "filter", "",
		"Filter expression (e.g. 'kind=music,volume<0.5,size>1MB')")
	tracksCmd.Flags().StringVarP(&tracksOpts.search, "search", "s", "",
		"Search in id and source")
	tracksCmd.Flags().BoolVar(&tracksOpts.missing, "missing", false,
		"Only list tracks whose file does not exist")
	tracksCmd.Flags().IntVarP(&tracksOpts.limit, "limit", "n", 0,
		"Maximum number of tracks to show (0=unlimited)")

	// Sort flags
	tracksCmd.Flags().StringVar(&tracksOpts.sortBy, "sort", "",
		"Sort by field (id, kind, source, size, volume)")
	tracksCmd.Flags().StringVar(&tracksOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")

	// Output flags
	tracksCmd.Flags().StringVarP(&tracksOpts.format, "format", "f", "plain",
		"Output format (plain, dmenu, json, yaml, ids)")
	tracksCmd.Flags().StringVar(&tracksOpts.template, "template", "",
		"Custom Go template for plain/dmenu output")
}

func runTracks(cmd *cobra.Command, args []string) error {
	tracks, err := configuredTracks()
	if err != nil {
		return err
	}

	tracks, err = applyTrackFilters(tracks)
	if err != nil {
		return err
	}

	if tracksOpts.sortBy != "" {
		core.Sort(tracks, core.SortOptions{
			Field: core.ParseSortField(tracksOpts.sortBy),
			Order: core.ParseSortOrder(tracksOpts.sortOrder),
		})
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = tracksOpts.template

	formatter := output.NewFormatter(output.FormatType(tracksOpts.format), opts)
	return formatter.Format(cmd.OutOrStdout(), tracks)
}

// configuredTracks returns the listing entries for the config and manifest.
func configuredTracks() ([]model.Track, error) {
	tcs, err := cfg.AllTracks()
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	return model.NewTracks(tcs), nil
}

// applyTrackFilters applies the filter options to tracks.
func applyTrackFilters(tracks []model.Track) ([]model.Track, error) {
	kind, err := core.ParseKind(tracksOpts.kind)
	if err != nil {
		return nil, err
	}

	expr, err := core.ParseFilter(tracksOpts.filter)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	tracks = core.Search(tracks, tracksOpts.search)
	tracks = core.FilterWithExpr(tracks, expr)
	tracks = core.Filter(tracks, core.FilterOptions{
		Kind:        kind,
		MissingOnly: tracksOpts.missing,
		Limit:       tracksOpts.limit,
	})

	logger.Debug("filtered tracks", "count", len(tracks))
	return tracks, nil
}
