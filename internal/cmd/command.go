package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/rezip"
	"github.com/nguyengg/rezip/internal"
	"github.com/nguyengg/rezip/internal/config"
	"golang.org/x/term"
)

// Command recompacts each given zip archive in place.
type Command struct {
	DryRun            bool   `short:"n" long:"dry-run" description:"list and validate entries without rewriting any archive"`
	CompressThreshold string `short:"t" long:"compress-threshold" value-name:"SIZE" description:"files at least this large (e.g. 256, 4KiB) are deflated, smaller ones are stored; defaults to 256 unless set in .rezip"`
	Sort              string `short:"s" long:"sort" choice:"normal" choice:"ignore-case" description:"reorder entries by name; entries keep their original order if not given"`
	Verbose           bool   `short:"v" long:"verbose" description:"log progress of each archive to stderr"`
	Progress          bool   `long:"progress" description:"show a progress bar on stderr if it is a terminal"`
	Args              struct {
		Files []flags.Filename `positional-arg-name:"file" description:"the zip archives to recompact" required:"yes"`
	} `positional-args:"yes"`

	stdout, stderr io.Writer
	loader         *config.Loader
}

// Execute processes the files in order and stops at the first failure.
//
// The failure is reported to stderr as "<path>: <message>" and returned so that the process can exit with non-zero
// status. Names of visited entries are written to stdout, one per line.
func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := c.options(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(c.stderr, "rezip: %v\n", err)
		return err
	}

	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		if err = c.recompact(ctx, i, n, string(file), opts); err != nil {
			if errors.Is(err, context.Canceled) {
				err = fmt.Errorf("interrupted: %w", err)
			}

			_, _ = fmt.Fprintf(c.stderr, "%s: %v\n", file, err)
			return err
		}
	}

	return nil
}

func (c *Command) recompact(ctx context.Context, i, n int, name string, opts rezip.Options) error {
	var w io.Writer
	if c.Verbose {
		w = c.stderr
	}

	opts.Logger = internal.NewLogger(w, i, n, name)
	opts.Logger.Printf("start recompacting (threshold=%s, sort=%s, dry-run=%t)", humanize.IBytes(opts.CompressThreshold), opts.Sort, opts.DryRun)

	if c.Progress && !opts.DryRun && isTerminal(c.stderr) {
		bar := internal.DefaultBytes(c.stderr, -1, "recompacting "+filepath.Base(name))
		defer bar.Close()
		opts.Progress = bar
	}

	if err := rezip.RecompactFile(ctx, name, func(o *rezip.Options) {
		*o = opts
	}); err != nil {
		return err
	}

	opts.Logger.Printf("done recompacting")
	return nil
}

// options merges flags with the .rezip defaults.
func (c *Command) options(ctx context.Context) (opts rezip.Options, err error) {
	loader := c.loader
	if loader == nil {
		loader = config.DefaultLoader
	}

	if _, err = loader.Load(ctx); err != nil {
		return opts, err
	}
	defaults := loader.Defaults()

	opts.DryRun = c.DryRun
	opts.Observer = rezip.PrintObserver(c.stdout)

	opts.CompressThreshold = rezip.DefaultCompressThreshold
	if v := firstNonEmpty(c.CompressThreshold, defaults.CompressThreshold); v != "" {
		if opts.CompressThreshold, err = humanize.ParseBytes(v); err != nil {
			return opts, fmt.Errorf("invalid compress threshold %q: %w", v, err)
		}
	}

	if opts.Sort, err = rezip.ParseSort(firstNonEmpty(c.Sort, defaults.Sort)); err != nil {
		return opts, err
	}

	return opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
