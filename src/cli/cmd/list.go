package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"github.com/plinthworks/layerforge/src/layer"
	"github.com/plinthworks/layerforge/src/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered layers",
	Long:  "List every layer under the configured roots with its manifest status and declared dependency count. Never invokes the container runtime.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	color := output.UseColor()
	w := cmd.OutOrStdout()

	layers, err := layer.Discover(cfg)
	if err != nil {
		return err
	}
	if len(layers) == 0 {
		fmt.Fprintf(w, "\n    no layers found under %s\n\n", strings.Join(cfg.Roots, ", "))
		return nil
	}

	// Manifest parsing is read-only, so it can fan out; builds stay
	// strictly sequential.
	type row struct {
		deps int
		err  error
	}
	rows := make([]row, len(layers))
	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	for i, l := range layers {
		if !l.HasManifest() {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		go func(i int, l layer.Layer) {
			defer sem.Release(1)
			deps, err := l.Dependencies()
			rows[i] = row{deps: len(deps), err: err}
		}(i, l)
	}
	if err := sem.Acquire(ctx, int64(runtime.NumCPU())); err != nil {
		return err
	}

	sec := output.NewSection(w, "Layers", 0, color)
	var buildable int
	for i, l := range layers {
		switch {
		case !l.HasManifest():
			sec.Row("%-24s%s", l.Name, output.Dimmed("no "+cfg.Manifest, color))
		case rows[i].err != nil:
			sec.Row("%-24smanifest error: %v", l.Name, rows[i].err)
		default:
			sec.Row("%-24s%d dependencies  (%s)", l.Name, rows[i].deps, l.Dir)
			buildable++
		}
	}
	sec.Separator()
	sec.Row("%d layer(s), %d buildable", len(layers), buildable)
	sec.Close()

	return nil
}
