package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"classlint/internal/jvmfmt"
)

const (
	envConfig  = "CLASSLINT_CONFIG"
	envWorkers = "CLASSLINT_WORKERS"
)

// errFailed ends a run that already reported its problems: exit 1 without
// a further message.
var errFailed = errors.New("lint failed")

func main() {
	_ = godotenv.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		// cobra reads os.Args when given nil.
		args = []string{}
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	strict  bool
	noColor bool
	verbose bool
}

func (g *globalFlags) decodeOptions() jvmfmt.Options {
	opts := jvmfmt.Options{Mode: jvmfmt.ModeBestEffort}
	if g.strict {
		opts.Mode = jvmfmt.ModeStrict
	}
	return opts
}

func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// color reports whether output to w should be styled.
func (g *globalFlags) color(w io.Writer) bool {
	if g.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	lf := &lintFlags{}

	root := &cobra.Command{
		Use:   "classlint [flags] <config-file> <classfile>...",
		Short: "Lint compiled JVM class files against configurable method rules",
		Long: `classlint decodes JVM class files and checks every method against the
rules enabled in a TOML (or YAML) configuration:

  no_binary_in_names = true   # readAndWrite, is_or_has
  too_many_arguments = 4      # more than 4 parameters
  check_no_void = true        # void methods other than <init>, <clinit>, main

Directories are searched for *.class files. The exit code is 0 only when
every rule passes on every input.

A positional config file named like a subcommand (scan, rules, graph)
runs that subcommand instead; pass it as ./rules or with --config.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd.Context(), g, lf, args, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.BoolVar(&g.strict, "strict", false, "treat trailing data and invalid descriptors as decode failures")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log debug diagnostics")

	f := root.Flags()
	f.StringVarP(&lf.config, "config", "c", os.Getenv(envConfig), "rule configuration file (env "+envConfig+")")
	f.IntVarP(&lf.workers, "workers", "j", envInt(envWorkers, runtime.NumCPU()), "files processed concurrently (env "+envWorkers+")")
	f.BoolVar(&lf.json, "json", false, "print a JSON report instead of report lines")

	root.AddCommand(newScanCmd(g, stdout, stderr))
	root.AddCommand(newRulesCmd(stdout))
	root.AddCommand(newGraphCmd(g, stdout, stderr))
	return root
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
