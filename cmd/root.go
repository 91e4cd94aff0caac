/*
Copyright © 2023 Kovalev Pavel kovalev5690@gmail.com
*/package cmd

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

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Pavel7004/hdrconst/pkg/domain"
	"github.com/Pavel7004/hdrconst/pkg/header"
	"github.com/Pavel7004/hdrconst/pkg/transcode"
)

const envPrefix = "HDRCONST_"

type options struct {
	output      string
	numericType string
	stringType  string
	keyword     string
	verbosity   string
	strict      bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "hdrconst [file]",
		Short: "Utility that turns C register headers into constant declarations",
		Long: `hdrconst reads a vendor C header and rewrites its
#define NAME _u(VALUE) and #define NAME "STRING" lines as aligned
constant declarations. Comments and blank lines are kept, each block
of definitions between them is aligned on its own.

Example: curl -s $URL | hdrconst > proc_pio.rs
This will print the constants of the fetched header.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindEnv(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return transcodeHeader(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Write output to file instead of stdout")
	f.StringVar(&opts.numericType, "numeric-type", domain.DefaultTypeLabels.Numeric, "Type label for numeric definitions")
	f.StringVar(&opts.stringType, "string-type", domain.DefaultTypeLabels.String, "Type label for string definitions")
	f.StringVar(&opts.keyword, "keyword", transcode.DefaultKeyword, "Text in front of each declared name, e.g. \"pub const\"")
	f.StringVarP(&opts.verbosity, "verbosity", "v", "info", "Log level: trace, debug, info, warn or error")
	f.BoolVar(&opts.strict, "strict", false, "Fail when a #define line is not recognised")

	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// Give the signals back after the first one, so a second
		// interrupt kills a run that is stuck.
		<-ctx.Done()
		stop()
	}()

	err := rootCmd.ExecuteContext(ctx)
	code := exitCode(ctx, err)
	stop()

	switch code {
	case 0:
		return
	case 130:
		fmt.Fprintln(os.Stderr, "command interrupted")
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return 130
	}
	return 1
}

// bindEnv fills flags not given on the command line from HDRCONST_*
// variables.
func bindEnv(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := os.LookupEnv(key); ok {
			if serr := fs.Set(f.Name, v); serr != nil {
				err = fmt.Errorf("%s: %w", key, serr)
			}
		}
	})
	return err
}

func transcodeHeader(cmd *cobra.Command, args []string, opts *options) error {
	lvl, err := parseLevel(opts.verbosity)
	if err != nil {
		return fmt.Errorf("bad verbosity %q: %w", opts.verbosity, err)
	}
	l := Logger(cmd.ErrOrStderr(), lvl)

	r := header.NewReaderFrom(cmd.InOrStdin())
	if len(args) == 1 && args[0] != header.Stdin {
		r = header.NewReader(args[0])
		if err := r.Open(); err != nil {
			return err
		}
		defer r.Close()
	}

	t := transcode.New(
		transcode.WithTypeLabels(domain.TypeLabels{
			Numeric: opts.numericType,
			String:  opts.stringType,
		}),
		transcode.WithKeyword(opts.keyword),
		transcode.WithLogger(l),
	)

	transcodeTo := func(w io.Writer) error {
		stats, err := t.RunReader(cmd.Context(), r, w)
		if err != nil {
			return err
		}
		l.Info("Transcoded header", append([]interface{}{"input", r.Filename}, stats.LogContext()...)...)
		if stats.Skipped > 0 {
			l.Warn("Some #define lines were not recognised", "skipped", stats.Skipped)
		}

		if opts.strict {
			return stats.Check()
		}
		return nil
	}

	if opts.output == "" {
		return transcodeTo(cmd.OutOrStdout())
	}
	return writeFile(opts.output, transcodeTo)
}

var OutFilePerm = os.FileMode(0o644)

// writeFile hands fn a temporary file next to path and renames it over
// path only when fn succeeds. A failed run leaves path as it was, and
// path may name the input being read.
func writeFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = fn(f); err != nil {
		return err
	}
	if err = f.Chmod(OutFilePerm); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f.Name(), err)
	}
	return os.Rename(f.Name(), path)
}
