package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"classlint/internal/config"
	"classlint/internal/lint"
	"classlint/internal/output"
	"classlint/internal/rules"
)

type lintFlags struct {
	config  string
	workers int
	json    bool
}

// runLint loads the rule configuration, lints the inputs and reports.
// Configuration problems stop the run before any input is read.
func runLint(ctx context.Context, g *globalFlags, lf *lintFlags, args []string, stdout, stderr io.Writer) error {
	log := g.logger(stderr)

	cfgPath, inputs := lf.config, args
	if cfgPath == "" {
		if len(args) == 0 {
			return errors.New("missing config file argument")
		}
		cfgPath, inputs = args[0], args[1:]
	}
	if len(inputs) == 0 {
		return errors.New("no class files given")
	}

	rs, err := config.LoadRules(cfgPath)
	if errors.Is(err, rules.ErrNoRulesSelected) {
		return fmt.Errorf("%s: %w", cfgPath, err)
	}
	if err != nil {
		return err
	}
	for _, r := range rs {
		log.Debug("rule enabled", "rule", r.Kind().Key(), "param", r.Param())
	}

	runner, err := lint.New(
		lint.WithWorkers(lf.workers),
		lint.WithLogger(log),
		lint.WithDecodeOptions(g.decodeOptions()),
	)
	if err != nil {
		return err
	}
	rep, err := runner.Run(ctx, inputs, rs)
	if err != nil {
		return err
	}

	if lf.json {
		err = output.WriteJSON(stdout, output.ToJSON(rep))
	} else {
		err = output.NewReporter(stdout, g.color(stdout)).Report(rep)
	}
	if err != nil {
		return err
	}

	log.Debug("lint finished",
		"files", rep.Files,
		"results", len(rep.Results),
		"violations", rep.Violations(),
		"failures", len(rep.Failures))
	if !rep.OK() {
		return errFailed
	}
	return nil
}
