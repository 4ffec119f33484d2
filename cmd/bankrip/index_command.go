package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bankrip/internal/index"
)

type indexEntryJSON struct {
	Bank   index.BankID `json:"bank"`
	Name   string       `json:"name"`
	Offset uint64       `json:"offset"`
	Length uint64       `json:"length"`
	Line   int          `json:"line"`
}

type indexJSON struct {
	Stats   index.Stats      `json:"stats"`
	Entries []indexEntryJSON `json:"entries"`
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var bankFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "List the sample entries declared by the description file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateDescription(); err != nil {
				return err
			}

			banks := index.Banks()
			if strings.TrimSpace(bankFlag) != "" {
				bank, err := index.ParseBank(bankFlag)
				if err != nil {
					return err
				}
				banks = []index.BankID{bank}
			}

			idx, err := index.BuildFile(cfg.Paths.DescriptionPath, index.Options{BankName: cfg.Extraction.BankName})
			if err != nil {
				return err
			}

			var entries []index.SampleEntry
			for _, bank := range banks {
				entries = append(entries, idx.Entries(bank)...)
			}

			if jsonOut {
				payload := indexJSON{Stats: idx.Stats, Entries: make([]indexEntryJSON, 0, len(entries))}
				for _, e := range entries {
					payload.Entries = append(payload.Entries, indexEntryJSON{
						Bank: e.Bank, Name: e.Name, Offset: e.Offset, Length: e.Length, Line: e.Line,
					})
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No sample entries found")
			} else {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Bank.String(),
						e.Name,
						strconv.FormatUint(e.Offset, 10),
						strconv.FormatUint(e.Length, 10),
						strconv.Itoa(e.Line),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Bank", "Name", "Offset", "Length", "Line"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
					shouldColorize(out),
				))
			}
			fmt.Fprintf(out, "%d samples, %d orphaned, %d duplicate names, %d malformed\n",
				idx.Total(), idx.Stats.Orphaned, idx.Stats.Duplicates, idx.Stats.Malformed)
			return nil
		},
	}

	cmd.Flags().StringVar(&bankFlag, "bank", "", "Only list entries of this bank (24000, 44100, 48000)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit entries as JSON")
	return cmd
}
