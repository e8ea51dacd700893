// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"psyfield/internal/version"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Simulation parameters
	Seed   int64
	Width  int
	Height int
	Steps  int

	// Pipeline selection
	Pipeline string // inline JSON sequence or a path to a JSON file
	Preset   string // named preset; empty means the default sequence

	// Output
	Output string

	// Deterministic is true unless --non-deterministic.
	Deterministic bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: deterministic phenomenal-field simulator

License: MIT
Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	var nonDet bool

	// Simulation parameters
	fs.Int64Var(&opt.Seed, "seed", 1337, "PRNG seed for the run [1337]")
	fs.IntVar(&opt.Width, "width", 64, "field width in cells, 8..512 [64]")
	fs.IntVar(&opt.Height, "height", 64, "field height in cells, 8..512 [64]")
	fs.IntVar(&opt.Steps, "steps", 10, "coupling evolution steps, 1..1000 [10]")

	// Pipeline selection
	fs.StringVar(&opt.Pipeline, "pipeline", "", "engine sequence: inline JSON array or path to a JSON file [default sequence]")
	fs.StringVar(&opt.Preset, "preset", "", "named preset (see psyfield -preset list) []")

	// Output
	fs.StringVar(&opt.Output, "output", OutputText, "output format: text | json [text]")
	fs.BoolVar(&nonDet, "non-deterministic", false, "seed from system entropy instead of -seed [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	opt.Deterministic = !nonDet
	if opt.Version {
		return opt, nil
	}

	// Validation
	if opt.Pipeline != "" && opt.Preset != "" && opt.Preset != "list" {
		return opt, errors.New("--pipeline conflicts with --preset")
	}
	if opt.Output != OutputText && opt.Output != OutputJSON {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}
