package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tsawler/binder"
	"github.com/tsawler/binder/config"
	"github.com/tsawler/binder/model"
	"github.com/tsawler/binder/render"
)

var (
	configPath string
	verbose    bool

	// now is replaced in tests.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "binder <input-dir> [output-path]",
	Short: "Compile a directory of documents into one file",
	Long: `Walks the input directory, extracts every PDF, Word, Excel, text and
image file it finds and writes them, in path order, into a single document.

The output format follows the output extension: .md and .markdown produce
Markdown, anything else produces HTML. Without an output path the result is
written to compiled_docs_<timestamp>.html in the current directory.`,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE:         runBinder,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runBinder(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	root := args[0]
	output := defaultOutput(now())
	if len(args) > 1 {
		output = args[1]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	flow, warnings, err := cfg.Apply(binder.Open(root)).
		Logger(logger).
		Now(now).
		Assemble(ctx)
	if err != nil {
		return fmt.Errorf("compile %s: %w", root, err)
	}

	r := render.ForPath(output)
	if x, ok := r.(render.XML); ok {
		x.Generated = now()
		r = x
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, flow); err != nil {
		return fmt.Errorf("render %s: %w", output, err)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("compiled",
		"files", countFiles(flow),
		"elements", len(flow),
		"warnings", len(warnings),
		"output", output,
		"size", humanize.Bytes(uint64(buf.Len())))
	cmd.Printf("Wrote %s\n", output)
	return nil
}

func defaultOutput(t time.Time) string {
	return "compiled_docs_" + t.Format("20060102_150405") + ".html"
}

// countFiles counts metadata blocks; the cover page has none.
func countFiles(flow []model.FlowElement) int {
	n := 0
	for _, el := range flow {
		if el.Type() == model.ElementTypeMetadata {
			n++
		}
	}
	return n
}
