// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"psyfield-core/abx"
	"psyfield-core/pipeline"
	"psyfield/internal/cli"
	"psyfield/internal/output"
	"psyfield/internal/preset"
	"psyfield/internal/version"
)

// Exit codes: 0 ok, 1 runtime failure, 2 usage error.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("psyfield")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return exitUsage
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "psyfield version %s\n", version.Version)
		return exitOK
	}
	if opts.Preset == "list" {
		for _, p := range preset.Builtins() {
			_, _ = fmt.Fprintf(outw, "%s\t%s\n", p.Name, p.Description)
		}
		return exitOK
	}

	seq, err := resolveSequence(opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	req := pipeline.Request{
		Seed:             opts.Seed,
		Width:            opts.Width,
		Height:           opts.Height,
		Steps:            opts.Steps,
		NonDeterministic: !opts.Deterministic,
		Sequence:         seq,
	}
	res, err := pipeline.Run(parent, req)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		var verr *abx.ValidationError
		if errors.As(err, &verr) {
			return exitUsage
		}
		return exitRuntime
	}

	rep := output.NewReport(req, res)
	switch opts.Output {
	case cli.OutputJSON:
		err = output.WriteJSON(outw, rep)
	default:
		err = output.WriteText(outw, rep)
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitRuntime
	}
	return exitOK
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// resolveSequence picks the engine sequence: a named preset, an explicit
// -pipeline JSON value, or nil for the default sequence.
func resolveSequence(opts cli.Options) ([]pipeline.Step, error) {
	if opts.Preset != "" {
		p, err := preset.Lookup(opts.Preset)
		if err != nil {
			return nil, err
		}
		return p.Steps(), nil
	}
	if opts.Pipeline == "" {
		return nil, nil
	}
	raw := []byte(opts.Pipeline)
	if !strings.HasPrefix(strings.TrimSpace(opts.Pipeline), "[") {
		b, err := os.ReadFile(opts.Pipeline)
		if err != nil {
			return nil, fmt.Errorf("pipeline file: %w", err)
		}
		raw = b
	}
	var seq []pipeline.Step
	if err := json.Unmarshal(raw, &seq); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if len(seq) == 0 {
		return nil, errors.New("pipeline: empty sequence")
	}
	return seq, nil
}
