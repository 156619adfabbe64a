package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"location-hierarchy/internal/app"
	"location-hierarchy/internal/config"
	"location-hierarchy/internal/display"
	"location-hierarchy/internal/hierarchy"
	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/terms"
)

var (
	dbPath string
	driver string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "hierarchy-cli",
		Short:        "Resolve, render and inspect event location hierarchies",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path (overrides SQLITE_PATH)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "store driver: sqlite | postgres | memory (overrides STORE_DRIVER)")

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(canonicalCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openApp(ctx context.Context) (*app.App, error) {
	logger.Setup()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.SQLitePath = dbPath
	}
	if driver != "" {
		cfg.StoreDriver = driver
	}
	return app.New(ctx, cfg, nil, nil)
}

func chainNames(ctx context.Context, st terms.Store, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, err := st.Get(ctx, id); err == nil && n != nil {
			names = append(names, n.Name)
		}
	}
	return names
}

func resolveCmd() *cobra.Command {
	var eventID string
	cmd := &cobra.Command{
		Use:   "resolve --event ID [address]",
		Short: "Geocode an address and attach its hierarchy to an event",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			out := a.Resolver.Resolve(ctx, eventID, strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "Reason: %s\n", out.Reason)
			if out.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Error: %s\n", out.Error)
			}
			if len(out.Chain) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Chain: %s\n", strings.Join(chainNames(ctx, a.Store, out.Chain), a.Config.Separator))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "event id")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		eventID    string
		start, end int
		links      bool
		venue      string
	)
	cmd := &cobra.Command{
		Use:   "render --event ID",
		Short: "Print the rendered hierarchy of an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			v := a.Surface.Render(ctx, display.Request{
				OwnerID:   eventID,
				OwnerType: a.Config.OwnerType,
				Window:    hierarchy.Window{Start: start, End: end},
				Links:     links,
				ShowVenue: venue != "",
				Venue:     hierarchy.Venue{Label: venue},
			})
			if links {
				fmt.Fprintln(cmd.OutOrStdout(), v.Block)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "event id")
	cmd.Flags().IntVar(&start, "start", 0, "first level of the window (1-based)")
	cmd.Flags().IntVar(&end, "end", 0, "last level of the window (inclusive)")
	cmd.Flags().BoolVar(&links, "links", false, "print block markup with archive links")
	cmd.Flags().StringVar(&venue, "venue", "", "trailing venue label")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

// readRows：event_id,address；首行为表头时跳过
func readRows(r io.Reader) ([][2]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var rows [][2]string
	for i := 0; ; i++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "event_id") {
			continue
		}
		rows = append(rows, [2]string{strings.TrimSpace(rec[0]), strings.Join(rec[1:], ",")})
	}
	return rows, nil
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Resolve event addresses in bulk from a CSV file (event_id,address)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			rows, err := readRows(f)
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			bar := progressbar.NewOptions(len(rows),
				progressbar.OptionSetDescription("resolving"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(cmd.ErrOrStderr()) }),
			)
			reasons := make(map[string]int)
			for _, row := range rows {
				out := a.Resolver.Resolve(ctx, row[0], row[1])
				reasons[out.Reason]++
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			keys := make([]string, 0, len(reasons))
			for k := range reasons {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", k, reasons[k])
			}
			return nil
		},
	}
}

func canonicalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canonical [slug]",
		Short: "Print the canonical archive target of a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			arc, err := a.Surface.Archive(ctx, args[0], false)
			if err != nil {
				return err
			}
			if arc == nil {
				return fmt.Errorf("term %q not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Path: %s\n", strings.Join(arc.Path, a.Config.Separator))
			if arc.Canonical == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Canonical: (self)")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Canonical: %s", arc.Canonical.Slug)
			if arc.CanonicalURL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " %s", arc.CanonicalURL)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
