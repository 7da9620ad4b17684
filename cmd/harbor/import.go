package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/harbor/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import [bundle-id...]",
	Short: "Import bookmarks once",
	Long:  "Run the checksum gate and import for every source, or only for the given bundle ids.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, cleanup, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 0 {
			results, err := a.ImportAll(ctx)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return printResults(cmd.OutOrStdout(), results)
		}

		results := make([]*importer.Result, 0, len(args))
		for _, bundle := range args {
			src, err := a.Source(bundle)
			if err != nil {
				return err
			}
			res, err := a.Importer().Import(ctx, src, a.Collection())
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			results = append(results, res)
		}
		return printResults(cmd.OutOrStdout(), results)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func printResults(w io.Writer, results []*importer.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tSTATE\tADMITTED\tDUPLICATES\tREJECTED\tNOTES")
	for _, r := range results {
		if r == nil {
			continue
		}
		notes := ""
		switch {
		case r.AccessDenied:
			notes = "access denied"
		case r.Malformed:
			notes = "malformed file"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.Source, r.State, len(r.Admitted), r.Duplicates, r.Rejected, notes)
	}
	return tw.Flush()
}
