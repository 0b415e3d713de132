package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- End-to-end tests ---
// These exercise the full pipeline: input → detect → parse → map → render → stdout

// isolate clears configuration from the host environment.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SCALAFO_CONFIG", "SCALAFO_ROOT", "SCALAFO_SOURCE_ROOT", "SCALAFO_THEME",
		"SCALAFO_FORMAT", "SCALAFO_DEBUG", "NO_COLOR",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const scalastyleOutput = `Starting scalastyle
error file=src/Foo.scala message=Missing semicolon.message line=10 column=4
warning file=src/Foo.scala message=magic.number.message line=3
warning file=src/Bar.scala message=file.size.limit line=1
Processed 2 file(s)
Found 1 errors
Found 2 warnings
Finished in 87 ms
`

const coberturaReport = `<?xml version="1.0"?>
<coverage line-rate="0.5">
  <packages><package name="a"><classes>
    <class name="a.Foo" filename="a/Foo.scala">
      <methods><method name="m"><lines><line number="3" hits="2"/></lines></method></methods>
      <lines><line number="3" hits="2"/><line number="4" hits="0"/><line number="6" hits="0"/></lines>
    </class>
    <class name="a.Bar" filename="a/Bar.scala"><lines><line number="1" hits="1"/></lines></class>
  </classes></package></packages>
</coverage>
`

const passingSuite = `<testsuite name="a.BarSpec"><testcase classname="a.BarSpec" name="works" time="0.004"/></testsuite>`

const failingSuite = `<testsuite name="a.FooSpec">
  <testcase classname="a.FooSpec" name="adds" time="0.01"/>
  <testcase classname="a.FooSpec" name="divides" time="0.02"><failure message="2 did not equal 3">at FooSpec.scala:14</failure></testcase>
</testsuite>`

func TestE2E_RenderScalastyleFromStdin(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm"}, strings.NewReader(scalastyleOutput), &stdout, &stderr)
	output := stdout.String()

	if code != 1 {
		t.Errorf("expected exit code 1 for error diagnostics, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(output, "SCOPE: 2 files, 3 diags (1 err, 2 warn)") {
		t.Errorf("missing SCOPE line; got:\n%s", output)
	}
	if n := strings.Count(output, "## src/Foo.scala"); n != 1 {
		t.Errorf("expected one block for src/Foo.scala, got %d:\n%s", n, output)
	}
	if !strings.Contains(output, "WARN scalastyle:3 magic.number\n") {
		t.Errorf("a finding without a column must not show one; got:\n%s", output)
	}
	if !strings.Contains(output, "ERR scalastyle:10:4 Missing semicolon\n") {
		t.Errorf("missing diagnostic with .message removed; got:\n%s", output)
	}
	if strings.Contains(output, "\033[") {
		t.Error("LLM output contains ANSI escape codes")
	}
}

func TestE2E_LintCleanRunExitsZero(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm"}, strings.NewReader("Processed 4 file(s)\nFound 0 errors\nFound 0 warnings\n"), &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "SCOPE: 0 files, 0 diags") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestE2E_LintRecoversSyntaxErrorLine(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, root, "src/Foo.scala", "object Foo {\n  val a = 1\n  val b = 2\n"+strings.Repeat("x", 200))
	input := writeFile(t, root, "scalastyle.txt", "error file=src/Foo.scala message=Unexpected token,120,end of input\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"lint", "--root", root, "--format", "llm", input}, nil, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "ERR scalastyle:4 Unexpected token,120,end of input") {
		t.Errorf("expected line 4 recovered from offset; got:\n%s", stdout.String())
	}
}

func TestE2E_LintSyntaxErrorWithMissingSourceHintsAtRoot(t *testing.T) {
	isolate(t)
	root := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"lint", "--root", root}, strings.NewReader("error file=src/Gone.scala message=Unexpected token,12,x\n"), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "is --root") {
		t.Errorf("expected a hint about --root; got: %s", stderr.String())
	}
}

func TestE2E_LintUnknownSeverityIsFatal(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"lint"}, strings.NewReader("info file=A.scala message=x line=1\n"), &stdout, &stderr)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no partial output, got:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "scalafo: parsing scalastyle output: line 1: unrecognized scalastyle severity") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}

func TestE2E_CoverageJSON(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, root, "src/main/scala/a/Foo.scala", strings.Repeat("line\n", 7))
	writeFile(t, root, "src/main/scala/a/Bar.scala", "object Bar\n")
	report := writeFile(t, root, "cobertura.xml", coberturaReport)

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"coverage", "--root", root, "--format", "json",
		"--paths", "src/main/scala/a/Foo.scala,src/main/scala/a/Missing.scala",
		report,
	}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	var out struct {
		Patterns []struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if len(out.Patterns) != 2 || out.Patterns[1].Type != "coverage-map" {
		t.Fatalf("unexpected patterns: %s", stdout.String())
	}
	var cm struct {
		Files []struct {
			Path  string
			Lines string
		}
	}
	if err := json.Unmarshal(out.Patterns[1].Data, &cm); err != nil {
		t.Fatal(err)
	}
	if len(cm.Files) != 1 || cm.Files[0].Path != "src/main/scala/a/Foo.scala" || cm.Files[0].Lines != "NNCUNUN" {
		t.Errorf("unexpected coverage map: %+v", cm.Files)
	}
}

func TestE2E_CoverageRequiresPaths(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"coverage"}, strings.NewReader(coberturaReport), &stdout, &stderr)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "--paths is required") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}

func TestE2E_TestReportsWithCoverage(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, root, "src/main/scala/a/Foo.scala", strings.Repeat("line\n", 7))
	cov := writeFile(t, root, "cobertura.xml", coberturaReport)
	pass := writeFile(t, root, "TEST-a.BarSpec.xml", passingSuite)
	fail := writeFile(t, root, "TEST-a.FooSpec.xml", failingSuite)

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"test", "--root", root, "--format", "llm",
		"--coverage", cov, "--paths", "src/main/scala/a/Foo.scala",
		pass, fail,
	}, nil, &stdout, &stderr)
	output := stdout.String()

	if code != 1 {
		t.Errorf("expected exit code 1 for failing tests, got %d (stderr: %s)", code, stderr.String())
	}
	for _, want := range []string{
		"SCOPE: FAIL 1/3 tests",
		"FAIL a.FooSpec (1/2 failed)",
		"  FAIL divides (20ms)",
		"Passing Suites (1)",
		"src/main/scala/a/Foo.scala 33.3% (1/3) uncovered: 4-6",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q; got:\n%s", want, output)
		}
	}
}

func TestE2E_TestReportMissingFile(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"test", filepath.Join(t.TempDir(), "nope.xml")}, nil, &stdout, &stderr)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestE2E_AutoDetectJUnit(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm"}, strings.NewReader(passingSuite), &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "SCOPE: PASS 1 tests") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestE2E_Report(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, root, "src/main/scala/a/Foo.scala", strings.Repeat("line\n", 7))

	input := "--- tool:style format:scalastyle ---\n" +
		"warning file=src/Foo.scala message=magic.number line=3\n" +
		"--- tool:cov format:cobertura ---\n" +
		coberturaReport +
		"--- tool:tests format:junit ---\n" +
		passingSuite + "\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"report", "--root", root, "--format", "llm", "--paths", "src/main/scala/a/Foo.scala"},
		strings.NewReader(input), &stdout, &stderr)
	output := stdout.String()

	if code != 0 {
		t.Errorf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	for _, want := range []string{
		"REPORT: 3 tools, all pass",
		"style: 0 err, 1 warn",
		"cov: 1 files, 1/3 lines covered",
		"tests: PASS, 1 tests",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q; got:\n%s", want, output)
		}
	}
}

func TestE2E_ReportSectionFailures(t *testing.T) {
	isolate(t)

	input := "--- tool:sarif format:sarif ---\n{broken\n" +
		"--- tool:gate format:junit status:fail ---\n" + passingSuite + "\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm"}, strings.NewReader(input), &stdout, &stderr)
	output := stdout.String()

	if code != 1 {
		t.Errorf("expected exit code 1, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(output, "REPORT: 2 tools: 2 fail") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, "ERROR ") {
		t.Errorf("expected parse error to be shown; got:\n%s", output)
	}
}

func TestE2E_WrapSARIF(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"wrap", "sarif"}, strings.NewReader(scalastyleOutput), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name string `json:"name"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if doc.Version != "2.1.0" || doc.Runs[0].Tool.Driver.Name != "scalastyle" {
		t.Errorf("unexpected header: %+v", doc)
	}
	results := doc.Runs[0].Results
	if len(results) != 3 || results[0].Level != "error" || results[0].Message.Text != "Missing semicolon" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestE2E_WrapSARIFRoundTripsThroughAutoDetect(t *testing.T) {
	isolate(t)

	var sarifOut, stderr bytes.Buffer
	if code := run([]string{"wrap", "sarif"}, strings.NewReader(scalastyleOutput), &sarifOut, &stderr); code != 0 {
		t.Fatalf("wrap failed: %s", stderr.String())
	}
	var stdout bytes.Buffer
	code := run([]string{"--format", "llm"}, &sarifOut, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	for _, want := range []string{"ERR scalastyle:10:4 Missing semicolon", "WARN scalastyle:3 magic.number"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, stdout.String())
		}
	}
}

func TestE2E_LintJSONLeavesMissingColumnUnset(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	input := "warning file=A.scala message=File must end with newline line=42\n"
	if code := run([]string{"lint", "--format", "json"}, strings.NewReader(input), &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"name": "scalastyle:42"`) {
		t.Errorf("expected item name without a column; got:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "scalastyle:42:0") {
		t.Errorf("column 0 was invented:\n%s", stdout.String())
	}
}

func TestE2E_InputErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"empty stdin", nil, "", "no input on stdin"},
		{"unrecognized", nil, "hello world", "unrecognized input format"},
		{"bad format flag", []string{"--format", "html"}, scalastyleOutput, "format \"html\""},
		{"bad theme flag", []string{"--theme", "neon"}, scalastyleOutput, "theme \"neon\""},
		{"unknown wrap target", []string{"wrap", "xml"}, "", "unknown target \"xml\""},
		{"missing wrap target", []string{"wrap"}, "", "missing target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.input), &stdout, &stderr)
			if code != 2 {
				t.Errorf("expected exit code 2, got %d", code)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("expected %q in stderr, got: %s", tt.want, stderr.String())
			}
		})
	}
}

func TestE2E_ConfigFileAndDebugLogging(t *testing.T) {
	isolate(t)
	cfgPath := writeFile(t, t.TempDir(), "scalafo.toml", "format = \"json\"\ndebug = true\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfgPath}, strings.NewReader(scalastyleOutput), &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !json.Valid(stdout.Bytes()) {
		t.Errorf("expected JSON output from config file; got:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "input format detected") || !strings.Contains(stderr.String(), "format=scalastyle") {
		t.Errorf("expected debug log lines; got:\n%s", stderr.String())
	}
}

func TestE2E_TerminalMonoTheme(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "terminal", "--theme", "mono"}, strings.NewReader(scalastyleOutput), &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Scalastyle: 3 issues") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}
