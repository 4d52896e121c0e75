package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(t.Context(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestImportThenInspect(t *testing.T) {
	db := filepath.Join(t.TempDir(), "imdb.db")

	out, _, err := execute(t, "import", "testdata/imdb", "--db", db, "--chunk-size", "3", "--log-level", "error")
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	for _, want := range []string{"titles", "principals", "total", "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("import report lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "FAILED") {
		t.Errorf("unexpected failure in report:\n%s", out)
	}

	out, _, err = execute(t, "tables", "--db", db, "--log-level", "error")
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("tables printed %d lines, want header + 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "titles") || !strings.Contains(out, "ratings") {
		t.Errorf("tables output:\n%s", out)
	}

	out, _, err = execute(t, "query", "--db", db, "--log-level", "error", "SELECT COUNT(*) AS n FROM titles")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got := strings.Fields(out); len(got) != 2 || got[0] != "n" || got[1] != "8" {
		t.Errorf("query output = %q, want n 8", out)
	}

	out, _, err = execute(t, "query", "--db", db, "--log-level", "error",
		"SELECT primary_name FROM names WHERE nconst = ?", "nm0000001")
	if err != nil {
		t.Fatalf("query with argument: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 1 {
		t.Errorf("query with argument printed:\n%s", out)
	}

	dest := filepath.Join(t.TempDir(), "copy.db")
	if _, _, err := execute(t, "backup", "--db", db, "--log-level", "error", dest); err != nil {
		t.Fatalf("backup: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("backup file: %v", err)
	}
}

func TestImportReportsFailedTables(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile("testdata/imdb/title.ratings.tsv.gz")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "title.ratings.tsv.gz"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "import", dir, "--only", "ratings,crew", "--log-level", "error")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	for _, want := range []string{"FAILED", "crew: ", "1 of 2 tables failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestImportRequiresDir(t *testing.T) {
	_, _, err := execute(t, "import", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "no data directory") {
		t.Fatalf("err = %v", err)
	}
}

func TestBench(t *testing.T) {
	out, _, err := execute(t, "bench", "testdata/imdb", "--parallel", "--only", "titles,ratings", "--log-level", "error")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("bench printed %d lines, want header + 2 + total:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "CLASS") || !strings.HasPrefix(lines[3], "total") {
		t.Errorf("bench table:\n%s", out)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	_, stderr, err := execute(t, "tables", "--log-format", "xml")
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if !strings.Contains(stderr, "log.format") {
		t.Errorf("stderr lacks the failing path:\n%s", stderr)
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	db := filepath.Join(t.TempDir(), "imdb.db")
	cfgPath := filepath.Join(t.TempDir(), "cine.json")
	body := `{"source": {"dir": "testdata/imdb"}, "storage": {"dsn": "` + filepath.ToSlash(db) + `"}, "import": {"entities": ["ratings"]}}`
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "import", "--config", cfgPath, "--log-level", "error")
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ratings") || strings.Contains(out, "titles") {
		t.Errorf("config entities not honoured:\n%s", out)
	}

	// --only on the command line replaces the file's selection.
	out, _, err = execute(t, "import", "--config", cfgPath, "--only", "names", "--log-level", "error")
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "names") || strings.Contains(out, "ratings") {
		t.Errorf("--only not honoured:\n%s", out)
	}
}

func TestUnknownMetricsBackend(t *testing.T) {
	_, _, err := execute(t, "tables", "--metrics-backend", "statsd", "--log-level", "error")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestProbe(t *testing.T) {
	out, _, err := execute(t, "probe", "testdata/imdb/title.ratings.tsv.gz", "--rows", "1", "--log-level", "error")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	for _, want := range []string{"TitleRating", "1 rows sampled", "average_rating", "all 1 rows decode"} {
		if !strings.Contains(out, want) {
			t.Errorf("probe output lacks %q:\n%s", want, out)
		}
	}
}
