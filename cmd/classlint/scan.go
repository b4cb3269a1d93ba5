package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"classlint/internal/classfile"
	"classlint/internal/jvmfmt"
	"classlint/internal/lint"
	"classlint/internal/output"
)

type scanInfo struct {
	File       string        `json:"file"`
	Class      string        `json:"class,omitempty"`
	Super      string        `json:"super,omitempty"`
	Interface  bool          `json:"interface"`
	Version    string        `json:"version,omitempty"`
	Release    string        `json:"release,omitempty"`
	Preview    bool          `json:"preview,omitempty"`
	Flags      uint16        `json:"access_flags"`
	Constants  int           `json:"constants"`
	Interfaces int           `json:"interfaces"`
	Fields     int           `json:"fields"`
	Methods    int           `json:"methods"`
	Attributes int           `json:"attributes"`
	Diags      []jvmfmt.Diag `json:"diagnostics,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func newScanCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "scan <classfile>...",
		Short: "Print the header and table sizes of class files",
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

			infos := make([]scanInfo, 0, len(files))
			failed := false
			for _, file := range files {
				cf, err := runner.Decode(file)
				if err != nil {
					log.Warn("skipping input", "file", file, "kind", jvmfmt.KindOf(err).String(), "err", err)
					infos = append(infos, scanInfo{File: file, Error: err.Error()})
					failed = true
					continue
				}
				infos = append(infos, describe(file, cf))
			}

			if jsonOut {
				err = output.WriteJSON(stdout, infos)
			} else {
				for _, info := range infos {
					if info.Error == "" {
						printScan(stdout, info)
					}
				}
			}
			if err != nil {
				return err
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func describe(file string, cf *classfile.ClassFile) scanInfo {
	info := scanInfo{
		File:       file,
		Interface:  cf.IsInterface(),
		Version:    cf.Version(),
		Release:    cf.Release(),
		Preview:    cf.Preview(),
		Flags:      cf.AccessFlags,
		Constants:  cf.Pool.Count(),
		Interfaces: len(cf.Interfaces),
		Fields:     cf.FieldCount,
		Methods:    len(cf.Methods),
		Attributes: cf.AttributeCount,
		Diags:      cf.Diags,
	}
	// Unresolvable names still leave the table sizes worth showing.
	info.Class, _ = cf.Name()
	info.Super, _ = cf.SuperName()
	return info
}

func printScan(w io.Writer, info scanInfo) {
	fmt.Fprintf(w, "%s\n", info.File)
	fmt.Fprintf(w, "  class:      %s\n", orUnknown(info.Class))
	if info.Super != "" {
		fmt.Fprintf(w, "  super:      %s\n", info.Super)
	}
	release := "unknown release"
	if info.Release != "" {
		release = "Java " + info.Release
	}
	if info.Preview {
		release += ", preview"
	}
	fmt.Fprintf(w, "  version:    %s (%s)\n", info.Version, release)
	fmt.Fprintf(w, "  flags:      0x%04x\n", info.Flags)
	fmt.Fprintf(w, "  constants:  %d\n", info.Constants)
	fmt.Fprintf(w, "  interfaces: %d  fields: %d  methods: %d  attributes: %d\n",
		info.Interfaces, info.Fields, info.Methods, info.Attributes)
	for _, d := range info.Diags {
		fmt.Fprintf(w, "  diag: %s\n", d)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
