package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bankrip/internal/manifest"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded extraction runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Manifest.Enabled {
				return errors.New("run history is disabled (set manifest.enabled = true)")
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.Manifest.Path); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			store, err := manifest.Open(cmd.Context(), cfg.Manifest.Path)
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			defer store.Close()

			if id := strings.TrimSpace(runID); id != "" {
				run, err := store.GetRun(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, run)
				}
				printRunDetail(cmd, run)
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					formatDuration(run.FinishedAt.Sub(run.StartedAt)),
					yesNo(run.DryRun),
					strconv.Itoa(run.TotalExtracted),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Took", "Dry Run", "Extracted"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
				shouldColorize(out),
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the per-sample records of one run")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit history as JSON")
	return cmd
}

func printRunDetail(cmd *cobra.Command, run manifest.Run) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintf(out, "Run:         %s\n", run.ID)
	fmt.Fprintf(out, "Started:     %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Bank root:   %s\n", run.BankRoot)
	fmt.Fprintf(out, "Output root: %s\n", run.OutputRoot)
	fmt.Fprintf(out, "Description: %s\n", run.DescriptionPath)
	fmt.Fprintf(out, "Dry run:     %s\n", yesNo(run.DryRun))
	fmt.Fprintf(out, "Extracted:   %d\n", run.TotalExtracted)
	if len(run.Records) == 0 {
		return
	}

	rows := make([][]string, 0, len(run.Records))
	for _, rec := range run.Records {
		size, sum := "-", "-"
		if rec.PayloadOffset != nil {
			size = humanize.IBytes(uint64(rec.PayloadSize))
		}
		if rec.Digest != "" {
			sum = shortDigest(rec.Digest.Encoded())
		}
		rows = append(rows, []string{
			rec.Bank,
			rec.Name,
			outcomeLabel(rec.Outcome, colorize),
			size,
			sum,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Bank", "Name", "Outcome", "Size", "SHA256"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		colorize,
	))
}

func shortDigest(encoded string) string {
	if len(encoded) > 12 {
		return encoded[:12]
	}
	return encoded
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
