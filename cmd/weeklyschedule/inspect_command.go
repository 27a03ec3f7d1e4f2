package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"weeklyschedule/internal/catalog"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Summarize a written catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = strings.TrimSpace(args[0])
			}
			if path == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				path = cfg.OutputPath()
			}

			cat, err := catalog.Read(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("no catalog at %s (run weeklyschedule build first)", path)
				}
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if len(cat.Metas) == 0 {
				fmt.Fprintf(out, "%s %s contains no series\n", statusLabel("empty", colorize), path)
				return nil
			}

			videos := 0
			rows := make([][]string, 0, len(cat.Metas))
			for i, meta := range cat.Metas {
				videos += len(meta.Videos)
				if limit > 0 && i >= limit {
					continue
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					meta.ID,
					meta.Name,
					strconv.Itoa(len(meta.Videos)),
					meta.LatestRelease(),
				})
			}

			fmt.Fprintf(out, "%s %s: %d series, %d videos\n", statusLabel("ok", colorize), path, len(cat.Metas), videos)
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Name", "Videos", "Latest"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many series (0 shows all)")
	return cmd
}
