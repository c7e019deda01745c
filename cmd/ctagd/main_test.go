package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/ctagd/internal/logging"
	"github.com/danmuck/ctagd/internal/testutil/testlog"
	"github.com/rs/zerolog"
)

const scenario = `{"GenerateTags":{"filename":"a.go","size":12}}` + "\n" + "package main"

func TestRunScenario(t *testing.T) {
	testlog.Start(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--log-level", "off"}, strings.NewReader(scenario), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit code %d; stderr=%s", code, stderr.String())
	}
	lines := strings.Split(stdout.String(), "\n")
	if lines[0] != `{"Program":{"name":"ctagd","version":"0.1.0"}}` || lines[1] != "" {
		t.Fatalf("unexpected announcement: %q", stdout.String())
	}
	if !strings.HasPrefix(lines[2], `{"Tag":{"name":"main","path":"a.go","language":"Go","line":1,"kind":"package"`) {
		t.Fatalf("unexpected tag line: %q", lines[2])
	}
	if lines[3] != `{"Completed":{"command":"generate-tags"}}` {
		t.Fatalf("unexpected completed line: %q", lines[3])
	}
	if len(lines) != 5 || lines[4] != "" {
		t.Fatalf("unexpected trailing output: %q", stdout.String())
	}
}

func TestRunEmptyInput(t *testing.T) {
	testlog.Start(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--name", "tagger", "--program-version", "9.9"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if stdout.String() != `{"Program":{"name":"tagger","version":"9.9"}}`+"\n\n" {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestRunExitCodes(t *testing.T) {
	testlog.Start(t)
	cases := map[string]struct {
		input string
		code  int
	}{
		"malformed": {input: "{nope\n", code: 2},
		"unknown":   {input: `{"Shutdown":{}}` + "\n", code: 2},
		"truncated": {input: `{"GenerateTags":{"filename":"a.go","size":100}}` + "\npackage", code: 3},
	}
	for label, tc := range cases {
		var stdout, stderr bytes.Buffer
		code := run(nil, strings.NewReader(tc.input), &stdout, &stderr)
		if code != tc.code {
			t.Fatalf("%s: exit=%d want=%d", label, code, tc.code)
		}
		if strings.Contains(stdout.String(), "Completed") {
			t.Fatalf("%s: no Completed reply expected: %q", label, stdout.String())
		}
	}
}

func TestRunConfigFileAndFlagPrecedence(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "ctagd.toml")
	if err := os.WriteFile(path, []byte("name = \"from-file\"\nversion = \"1.0\"\nlog_level = \"off\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", path, "--program-version", "2.0"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit code %d; stderr=%s", code, stderr.String())
	}
	if stdout.String() != `{"Program":{"name":"from-file","version":"2.0"}}`+"\n\n" {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestRunBadFlags(t *testing.T) {
	testlog.Start(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--no-such-flag"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if code := run([]string{"extra"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("unexpected exit code for positional args %d", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("nothing may reach stdout on flag errors: %q", stdout.String())
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--version"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "ctagd ") {
		t.Fatalf("unexpected version output: %q", stdout.String())
	}
}

func TestRunLogLevelFlagBeatsEnv(t *testing.T) {
	testlog.Start(t)
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	t.Setenv(logging.EnvLogLevel, "error")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--log-level", "debug"}, strings.NewReader(scenario), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit code %d; stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "request completed") {
		t.Fatalf("debug records missing from stderr: %q", stderr.String())
	}
	if strings.Contains(stdout.String(), "request completed") {
		t.Fatalf("logs must not reach stdout: %q", stdout.String())
	}
}
