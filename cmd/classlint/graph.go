package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"classlint/internal/jvmfmt"
	"classlint/internal/lint"
	"classlint/internal/output"
	"classlint/internal/refgraph"
)

func newGraphCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		out      string
		refsOut  string
		title    string
		classes  bool
		maxNodes int
	)
	cmd := &cobra.Command{
		Use:   "graph --out <file.dot> <classfile>...",
		Short: "Render the method references of class files as Graphviz DOT",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(stderr)
			runner, err := lint.New(lint.WithLogger(log), lint.WithDecodeOptions(g.decodeOptions()))
			if err != nil {
				return err
			}
			files, err := lint.Expand(args)
			if err != nil {
				return err
			}

			var all []refgraph.Ref
			for _, file := range files {
				cf, err := runner.Decode(file)
				if err != nil {
					log.Warn("skipping input", "file", file, "kind", jvmfmt.KindOf(err).String(), "err", err)
					continue
				}
				refs, skipped, err := refgraph.Refs(cf)
				if err != nil {
					log.Warn("skipping input", "file", file, "kind", jvmfmt.KindOf(err).String(), "err", err)
					continue
				}
				if skipped > 0 {
					log.Debug("unresolvable references", "file", file, "count", skipped)
				}
				all = append(all, refs...)
			}

			var dot string
			if classes {
				dot = refgraph.ClassDOT(all, title, refgraph.NASA, maxNodes)
			} else {
				dot = refgraph.MethodDOT(all, title)
			}
			if out == "" {
				_, err = io.WriteString(stdout, dot)
			} else {
				err = os.WriteFile(out, []byte(dot), 0o644)
			}
			if err != nil {
				return fmt.Errorf("graph: %w", err)
			}
			if refsOut != "" {
				if err := output.WriteJSONFile(refsOut, all); err != nil {
					return err
				}
			}
			log.Info("graph written", "out", out, "files", len(files), "refs", len(all))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "", "DOT output file (default stdout)")
	f.StringVar(&refsOut, "refs", "", "also write the resolved references as JSON")
	f.StringVar(&title, "title", "references", "graph title")
	f.BoolVar(&classes, "classes", false, "aggregate references per class")
	f.IntVar(&maxNodes, "max-nodes", 0, "limit class-level graph to the most connected classes (0 = all)")
	return cmd
}
