package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/plinthworks/layerforge/src/build"
	"github.com/plinthworks/layerforge/src/container"
	"github.com/plinthworks/layerforge/src/layer"
	"github.com/plinthworks/layerforge/src/output"
	"github.com/plinthworks/layerforge/src/version"
)

var buildCmd = &cobra.Command{
	Use:   "build [layer]",
	Short: "Build dependency layers",
	Long: `Build dependency layers via the containerized installer.

With no arguments, every layer discovered under the configured roots is
built; individual failures are recorded and the run continues. With a
layer name, exactly that layer is built and the first failure aborts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// newRunner is swapped out in tests for an in-memory fake.
var newRunner = func(verbose bool, stdout, stderr io.Writer) container.Runner {
	r := container.NewDockerRunner(verbose)
	r.Stdout = stdout
	r.Stderr = stderr
	return r
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ci := output.IsCI()
	color := output.UseColor()
	w := cmd.OutOrStdout()
	runStart := time.Now()

	output.Banner(w, output.NewBannerInfo(version.Version, version.Commit), color)
	output.ContextBlock(w, []output.KV{
		{Key: "Runtime", Value: "python" + cfg.RuntimeVersion},
		{Key: "Image", Value: cfg.ImageRef()},
		{Key: "Roots", Value: strings.Join(cfg.Roots, ", ")},
		{Key: "Manifest", Value: cfg.Manifest},
	})

	// Installer output: captured unless verbose, dumped on failure.
	var execBuf bytes.Buffer
	execErr := io.Writer(&execBuf)
	if verbose {
		execErr = os.Stderr
	}
	runner := newRunner(verbose, io.Discard, execErr)

	// Runtime availability is a fatal precondition — nothing is scanned
	// until the daemon answers.
	if err := runner.CheckAvailable(ctx); err != nil {
		return err
	}

	builder := &build.Builder{Runner: runner, Config: cfg}

	if len(args) == 1 {
		return runBuildOne(ctx, w, ci, color, builder, &execBuf, args[0])
	}
	return runBuildAll(ctx, w, ci, color, builder, &execBuf, runStart)
}

// runBuildOne builds exactly the named layer. Any failure aborts.
func runBuildOne(ctx context.Context, w io.Writer, ci, color bool, builder *build.Builder, execBuf *bytes.Buffer, name string) error {
	l, err := layer.Find(builder.Config, name)
	if err != nil {
		return err
	}
	if !l.HasManifest() {
		return fmt.Errorf("layer %s has no %s", l.Name, builder.Config.Manifest)
	}

	res := buildLayerSection(ctx, w, ci, color, builder, execBuf, l)
	if res.Outcome == build.OutcomeFailed {
		return fmt.Errorf("building %s: %s", res.Name, res.Message)
	}
	return nil
}

// runBuildAll builds every discovered layer and reports a summary. The
// exit code reflects failures only; skips are informational.
func runBuildAll(ctx context.Context, w io.Writer, ci, color bool, builder *build.Builder, execBuf *bytes.Buffer, runStart time.Time) error {
	layers, err := layer.Discover(builder.Config)
	if err != nil {
		return err
	}
	if len(layers) == 0 {
		fmt.Fprintf(w, "\n    no layers found under %s\n\n", strings.Join(builder.Config.Roots, ", "))
		return nil
	}

	results := make([]build.LayerResult, 0, len(layers))
	for _, l := range layers {
		results = append(results, buildLayerSection(ctx, w, ci, color, builder, execBuf, l))
	}

	summary := build.Summarize(results)

	output.SectionStart(w, "lf_summary", "Summary")
	sumSec := output.NewSection(w, "Summary", 0, color)
	for _, r := range results {
		detail := string(r.Outcome)
		if r.Message != "" {
			detail += "  " + output.Dimmed(r.Message, color)
		}
		output.SummaryRow(w, r.Name, string(r.Outcome), detail, color)
	}
	sumSec.Separator()
	sumSec.Row("built %d, skipped %d, failed %d", summary.Built, summary.Skipped, summary.Failed)
	status := "success"
	if !summary.Ok() {
		status = "failed"
	}
	output.SummaryTotal(w, time.Since(runStart), status, color)
	sumSec.Close()
	output.SectionEnd(w, "lf_summary")

	if !summary.Ok() {
		return fmt.Errorf("%d layer(s) failed: %s", summary.Failed, strings.Join(summary.FailedNames, ", "))
	}
	return nil
}

// buildLayerSection runs one layer build inside a framed section and
// renders its status row.
func buildLayerSection(ctx context.Context, w io.Writer, ci, color bool, builder *build.Builder, execBuf *bytes.Buffer, l layer.Layer) build.LayerResult {
	id := "lf_" + l.Name
	output.SectionStartCollapsed(w, id, "Layer "+l.Name)
	sec := output.NewSection(w, l.Name, 0, color)

	execBuf.Reset()
	builder.Log = sec.Row
	res := builder.Build(ctx, l)
	builder.Log = nil

	switch res.Outcome {
	case build.OutcomeSkipped:
		sec.Row("%-8s%s", "skip", res.Message)
	case build.OutcomeFailed:
		sec.Separator()
		sec.Row("%-8s%s %s", "status", output.StatusIcon("failed", color), res.Message)
	default:
		sec.Separator()
		sec.Row("%-8s%s %s", "status", output.StatusIcon("built", color), output.Dimmed(res.Duration.Round(time.Millisecond).String(), color))
	}
	sec.Close()

	// Raw installer output: collapsed in CI, shown on failure locally.
	if res.Outcome == build.OutcomeFailed && execBuf.Len() > 0 && !verbose {
		if ci {
			output.SectionStartCollapsed(w, id+"_raw", "Installer Output (raw)")
			fmt.Fprint(w, execBuf.String())
			output.SectionEnd(w, id+"_raw")
		} else {
			fmt.Fprint(os.Stderr, execBuf.String())
		}
	}

	output.SectionEnd(w, id)
	return res
}
