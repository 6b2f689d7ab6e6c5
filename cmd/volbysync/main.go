// Command volbysync downloads snapshots of the election feeds into a local
// XML directory, so they can be converted and inspected offline.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"volby/internal/volby"
)

type feedTarget struct {
	name string
	url  string
}

func main() {
	var (
		xmlDir  string
		timeout time.Duration
		only    string
	)

	flag.StringVar(&xmlDir, "xml-dir", "xml", "directory where XML snapshots are stored")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout per feed")
	flag.StringVar(&only, "only", "", "sync a single feed: results or preferences")
	flag.Parse()

	_ = godotenv.Load()

	targets := []feedTarget{
		{"vysledky", envOr("VOLBY_RESULTS_URL", volby.DefaultResultsURL)},
		{"vysledky_kandid", envOr("VOLBY_KANDID_URL", volby.DefaultPreferencesURL)},
	}
	switch only {
	case "":
	case "results":
		targets = targets[:1]
	case "preferences":
		targets = targets[1:]
	default:
		fmt.Fprintf(os.Stderr, "unknown feed %q\n", only)
		os.Exit(2)
	}

	client := &http.Client{Timeout: timeout}
	for _, target := range targets {
		if err := downloadFeed(client, target, xmlDir); err != nil {
			fmt.Fprintf(os.Stderr, "failed downloading %s: %v\n", target.name, err)
			os.Exit(1)
		}
		fmt.Printf("updated %s.xml from %s\n", target.name, target.url)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func downloadFeed(client *http.Client, target feedTarget, xmlDir string) error {
	req, err := http.NewRequest(http.MethodGet, target.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", volby.DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %s: %s", resp.Status, string(body))
	}

	outPath := filepath.Join(xmlDir, target.name+".xml")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	// Write through a temp file so a failed download never truncates the
	// previous snapshot.
	tmpFile, err := os.CreateTemp(xmlDir, "volby-xml-*.xml")
	if err != nil {
		return err
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	return os.Rename(tmpFile.Name(), outPath)
}
