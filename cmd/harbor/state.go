package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var skipCmd = &cobra.Command{
	Use:   "skip <bundle-id>",
	Short: "Never import a source until it is reset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		src, err := a.Source(args[0])
		if err != nil {
			return err
		}
		if err := a.Importer().Skip(cmd.Context(), src); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s skipped\n", src.BundleID())
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <bundle-id>",
	Short: "Forget the import state so the next run imports again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		src, err := a.Source(args[0])
		if err != nil {
			return err
		}
		if err := a.Importer().Reset(cmd.Context(), src); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s reset\n", src.BundleID())
		return nil
	},
}

type sourceStatus struct {
	Source   string `json:"source"`
	Location string `json:"location"`
	Imported bool   `json:"imported"`
	Checksum string `json:"checksum,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored import state of every source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		out := make([]sourceStatus, 0, len(a.Sources()))
		for _, src := range a.Sources() {
			fact, err := a.Importer().Status(cmd.Context(), src)
			if err != nil {
				return err
			}
			out = append(out, sourceStatus{
				Source:   src.BundleID(),
				Location: src.Location(),
				Imported: fact.Imported,
				Checksum: fact.Checksum,
			})
		}
		return printStatus(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(skipCmd, resetCmd, statusCmd)
}

func printStatus(w io.Writer, statuses []sourceStatus) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tSTATE\tCHECKSUM\tLOCATION")
	for _, s := range statuses {
		state := "pending"
		switch {
		case s.Imported && s.Checksum == "":
			state = "skipped"
		case s.Imported:
			state = "imported"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Source, state, s.Checksum, s.Location)
	}
	return tw.Flush()
}
