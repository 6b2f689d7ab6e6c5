package volbycli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestRunConvertDirectory(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	xmlBytes, err := os.ReadFile(filepath.Join("..", "volby", "testdata", "results_feed.xml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "results_feed.xml"), xmlBytes, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := Run([]string{"--src", src, "--dst", dst}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Run() exit code = %d, stderr = %s", code, stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("results_feed.xml")) {
		t.Fatalf("stdout missing file name: %s", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("stderr not empty: %s", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dst, "results_feed.json")); err != nil {
		t.Fatalf("expected output json: %v", err)
	}
}

func TestRunConvertFailure(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(src, "broken.xml"), []byte(`<VYSLEDKY>`), 0o644); err != nil {
		t.Fatalf("write broken xml: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := Run([]string{"--src", src, "--dst", dst}, &stdout, &stderr)
	if code == 0 {
		t.Fatalf("expected failure exit code, got 0")
	}
	if stderr.Len() == 0 {
		t.Fatalf("expected stderr output")
	}
}

func TestRunFetch(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("..", "volby", "testdata", "preferences_feed.xml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "kandid.json")
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--fetch", "--mode", "preferences", "--url", srv.URL, "--out", out}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Run() exit code = %d, stderr = %s", code, stderr.String())
	}
	payload, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(payload, []byte("total_preference_votes")) {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestRunListRegions(t *testing.T) {
	xmlBytes, err := os.ReadFile(filepath.Join("..", "volby", "testdata", "results_feed.xml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	src := t.TempDir()
	dst := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "results.xml"), xmlBytes, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	var convertOut, convertErr bytes.Buffer
	if code := Run([]string{"--src", src, "--dst", dst}, &convertOut, &convertErr); code != 0 {
		t.Fatalf("convert step failed: %s", convertErr.String())
	}

	var stdout, stderr bytes.Buffer
	code := Run([]string{"--regions", filepath.Join(dst, "results.json"), "--filter", "plzeň"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Run() exit code = %d, stderr = %s", code, stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Plzeňský")) {
		t.Fatalf("stdout missing region: %s", stdout.String())
	}
	if bytes.Contains(stdout.Bytes(), []byte("Karlovarský")) {
		t.Fatalf("filter should exclude other regions: %s", stdout.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("Run() with no action = %d, want 2", code)
	}
	if code := Run([]string{"--mode", "bogus", "--src", "x"}, &stdout, &stderr); code != 2 {
		t.Fatalf("Run() with bad mode = %d, want 2", code)
	}
}
