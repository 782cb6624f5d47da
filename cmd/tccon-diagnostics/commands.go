package main

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/tccon-diagnostics/internal/diagnostics"
	"github.com/i474232898/tccon-diagnostics/internal/tabular"
	"github.com/i474232898/tccon-diagnostics/internal/timeconv"
)

func (a *app) logArtifact(art diagnostics.Artifact) {
	a.log.Info("artifact written",
		zap.String("kind", string(art.Kind)),
		zap.String("output", art.Output),
		zap.Int("points", art.Points))
}

func (a *app) meteoCmd() *cobra.Command {
	var site, date, out string
	cmd := &cobra.Command{
		Use:   "meteo",
		Short: "Render the meteo station figure of one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay("date", date)
			if err != nil {
				return err
			}
			art, err := a.svc.MeteoFigure(site, day, out)
			if err != nil {
				return err
			}
			a.logArtifact(art)
			return nil
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "site name from the registry (required)")
	cmd.Flags().StringVar(&date, "date", "", "day to draw, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&out, "out", "meteo.png", "output PNG file")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func (a *app) retrievalCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "retrieval",
		Short: "Render the diagnostics figure of a retrieval output file",
		RunE: func(cmd *cobra.Command, args []string) error {
			art, err := a.svc.RetrievalFigure(in, out)
			if err != nil {
				return err
			}
			a.logArtifact(art)
			fmt.Fprintf(cmd.OutOrStdout(), "Data points: %d, Flagged: %d\n", art.Points, art.Flagged)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "retrieval output file (required)")
	cmd.Flags().StringVar(&out, "out", "retrieval.png", "output PNG file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (a *app) trackerCmd() *cobra.Command {
	var in, date, out string
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Render the figure of one solar tracker log",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay("date", date)
			if err != nil {
				return err
			}
			art, err := a.svc.TrackerFigure(in, day, out)
			if err != nil {
				return err
			}
			a.logArtifact(art)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "tracker log file (required)")
	cmd.Flags().StringVar(&date, "date", "", "day the log was written, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&out, "out", "tracker.png", "output PNG file")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func (a *app) trackerRangeCmd() *cobra.Command {
	var site, from, to, outDir string
	cmd := &cobra.Command{
		Use:   "tracker-range",
		Short: "Render the tracker figure of every day in a date range",
		Long: `Render one tracker figure per existing daily log of a site for the days
from --from to --to, both included. Figures are named trackerYYYYMMDD.png.
A failing day is logged and skipped; the command then exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDay("from", from)
			if err != nil {
				return err
			}
			end, err := parseDay("to", to)
			if err != nil {
				return err
			}
			arts, err := a.svc.TrackerRange(site, start, end, outDir)
			for _, art := range arts {
				a.logArtifact(art)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "site name from the registry (required)")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory receiving the figures")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *app) fileListCmd() *cobra.Command {
	var site, from, to, out string
	cmd := &cobra.Command{
		Use:   "filelist",
		Short: "List the spectra of a site for a date range",
		Long: `List the detector spectra of every day from --from up to, but not
including, --to. Without --to the list runs up to today.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDay("from", from)
			if err != nil {
				return err
			}
			end := timeconv.Midnight(time.Now())
			if to != "" {
				if end, err = parseDay("to", to); err != nil {
					return err
				}
			}
			art, err := a.svc.FileList(site, start, end, out)
			if err != nil {
				return err
			}
			a.logArtifact(art)
			return nil
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "site name from the registry (required)")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "end day, excluded, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&out, "out", "filelist.txt", "output text file")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

type columnSummary struct {
	Name  string         `json:"name"`
	Cells int            `json:"cells"`
	Kinds map[string]int `json:"kinds"`
}

type inspectReport struct {
	Path      string          `json:"path"`
	Format    []int           `json:"format"`
	Rows      int             `json:"rows"`
	ShortRows []int           `json:"shortRows,omitempty"`
	Columns   []columnSummary `json:"columns"`
}

func inspect(path string, ds *tabular.Dataset) inspectReport {
	r := inspectReport{
		Path:      path,
		Format:    ds.Format,
		Rows:      ds.Rows(),
		ShortRows: ds.ShortRows,
	}
	for i, name := range ds.Fields {
		kinds := make(map[string]int)
		for k, n := range ds.KindCounts(i) {
			kinds[k.String()] = n
		}
		r.Columns = append(r.Columns, columnSummary{Name: name, Cells: len(ds.Data[i]), Kinds: kinds})
	}
	return r
}

func (a *app) inspectCmd() *cobra.Command {
	var in string
	var tracker bool
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the header and per-column cell kinds of a file as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			read := tabular.ReadFile
			if tracker {
				read = tabular.ReadTrackerLog
			}
			ds, err := read(in)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(inspect(in, ds))
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "file to inspect (required)")
	cmd.Flags().BoolVar(&tracker, "tracker", false, "parse the file as a tab separated tracker log")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
