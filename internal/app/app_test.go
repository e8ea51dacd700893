// internal/app/app_test.go
package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := Run(args, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestRunTextOutput(t *testing.T) {
	code, out, errOut := run(t, "--seed", "42", "--width", "16", "--height", "16", "--steps", "3")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	for _, want := range []string{"seed\t42", "valence", "coupling"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunJSONOutput(t *testing.T) {
	code, out, errOut := run(t, "--seed", "7", "--width", "16", "--height", "16", "--steps", "2", "--output", "json")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	var rep map[string]any
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if rep["seed"] != float64(7) {
		t.Errorf("seed = %v", rep["seed"])
	}
}

func TestRunReproducibleOutput(t *testing.T) {
	_, out1, _ := run(t, "--seed", "42", "--width", "16", "--height", "16", "--steps", "3", "--output", "json")
	_, out2, _ := run(t, "--seed", "42", "--width", "16", "--height", "16", "--steps", "3", "--output", "json")
	if out1 != out2 {
		t.Error("same request produced different output")
	}
}

func TestRunPreset(t *testing.T) {
	code, out, errOut := run(t, "--preset", "meditative-absorption", "--width", "16", "--height", "16", "--steps", "2")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "absorb") {
		t.Errorf("preset stages missing from provenance:\n%s", out)
	}
}

func TestRunPresetList(t *testing.T) {
	code, out, _ := run(t, "--preset", "list")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{"baseline", "psychedelic-agonist", "meditative-absorption"} {
		if !strings.Contains(out, want) {
			t.Errorf("preset list missing %q:\n%s", want, out)
		}
	}
}

func TestRunInlinePipeline(t *testing.T) {
	code, out, errOut := run(t,
		"--width", "16", "--height", "16", "--steps", "2",
		"--pipeline", `[{"name":"blur","params":{"intensity":0.5}}]`,
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "blur") {
		t.Errorf("pipeline stage missing from provenance:\n%s", out)
	}
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{"--output", "yaml"},
		{"--width", "7"},
		{"--steps", "0"},
		{"--preset", "no-such-preset"},
		{"--pipeline", `[{"name":"no-such-engine"}]`},
		{"--pipeline", `[]`},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, _, errOut := run(t, args...)
			if code != 2 {
				t.Errorf("exit %d, want 2 (stderr: %s)", code, errOut)
			}
			if errOut == "" {
				t.Error("expected a message on stderr")
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := run(t, "--version")
	if code != 0 || !strings.Contains(out, "psyfield version") {
		t.Errorf("exit %d, output %q", code, out)
	}
}

func TestHelpFlag(t *testing.T) {
	code, out, _ := run(t, "-h")
	if code != 0 || !strings.Contains(out, "Usage of psyfield") {
		t.Errorf("exit %d, output %q", code, out)
	}
}
