package volbycli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"volby/internal/feedindex"
	"volby/internal/volby"
)

// Environment variables consulted for feed endpoints when no -url is given.
const (
	envResultsURL     = "VOLBY_RESULTS_URL"
	envPreferencesURL = "VOLBY_KANDID_URL"
)

// Run executes the feed CLI with the provided arguments.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("volby", flag.ContinueOnError)
	fs.SetOutput(stderr)

	mode := fs.String("mode", "results", "feed kind: results or preferences")
	src := fs.String("src", "", "directory of feed XML snapshots to convert")
	dst := fs.String("dst", "json", "directory for JSON output of -src")
	fetch := fs.Bool("fetch", false, "fetch the feed over HTTP and convert it")
	url := fs.String("url", "", "feed URL for -fetch (defaults from env or built-in endpoints)")
	out := fs.String("out", "", "output file for -fetch (default stdout)")
	regions := fs.String("regions", "", "converted results JSON file to list regions from")
	filter := fs.String("filter", "", "fuzzy query for -regions listing")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// .env is optional; flags and real env still win.
	_ = godotenv.Load()

	switch *mode {
	case "results", "preferences":
	default:
		fmt.Fprintf(stderr, "unknown mode %q\n", *mode)
		return 2
	}

	switch {
	case *regions != "":
		return listRegions(*regions, *filter, stdout, stderr)
	case *fetch || *url != "":
		return fetchFeed(*mode, *url, *out, stdout, stderr)
	case *src != "":
		return convertDir(*mode, *src, *dst, stdout, stderr)
	default:
		fmt.Fprintln(stderr, "nothing to do: pass -src, -fetch, or -regions")
		fs.Usage()
		return 2
	}
}

func convertDir(mode, src, dst string, stdout, stderr io.Writer) int {
	convert := volby.ConvertResults
	if mode == "preferences" {
		convert = volby.ConvertPreferences
	}

	var converted int
	err := volby.ConvertDirectoryWithObserver(src, dst, convert, func(srcPath, dstPath string) {
		fmt.Fprintf(stdout, "Converted %s -> %s\n", filepath.Base(srcPath), dstPath)
		converted++
	})
	if err != nil {
		fmt.Fprintf(stderr, "conversion failed: %v\n", err)
		return 1
	}

	if converted == 0 {
		fmt.Fprintln(stdout, "No XML files converted.")
	}
	return 0
}

func fetchFeed(mode, url, out string, stdout, stderr io.Writer) int {
	feed := volby.NewFeed(volby.FeedConfig{URL: resolveURL(mode, url)})
	doc, err := feed.Load()
	if err != nil {
		fmt.Fprintf(stderr, "fetch failed: %v\n", err)
		return 1
	}

	marshal := volby.MarshalResults
	if mode == "preferences" {
		marshal = volby.MarshalPreferences
	}
	payload, err := marshal(doc)
	if err != nil {
		fmt.Fprintf(stderr, "extraction failed: %v\n", err)
		return 1
	}

	if out == "" {
		stdout.Write(payload)
		return 0
	}
	if err := os.WriteFile(out, payload, 0o644); err != nil {
		fmt.Fprintf(stderr, "write %s: %v\n", out, err)
		return 1
	}
	fmt.Fprintf(stdout, "Fetched %s -> %s\n", feed.URL(), out)
	return 0
}

func listRegions(path, query string, stdout, stderr io.Writer) int {
	summaries, err := feedindex.LoadRegionSummaries(path)
	if err != nil {
		fmt.Fprintf(stderr, "load regions: %v\n", err)
		return 1
	}
	filtered := feedindex.FilterSummaries(summaries, query)
	if len(filtered) == 0 {
		fmt.Fprintln(stdout, "No matching regions.")
		return 0
	}
	for _, summary := range filtered {
		seats := "-"
		if summary.Seats != nil {
			seats = fmt.Sprintf("%d", *summary.Seats)
		}
		fmt.Fprintf(stdout, "%s\t%s\tseats=%s\tparties=%d\n",
			summary.RegionCode, summary.Name, seats, len(summary.PartyNames))
	}
	return 0
}

func resolveURL(mode, url string) string {
	if url != "" {
		return url
	}
	if mode == "preferences" {
		if env := os.Getenv(envPreferencesURL); env != "" {
			return env
		}
		return volby.DefaultPreferencesURL
	}
	if env := os.Getenv(envResultsURL); env != "" {
		return env
	}
	return volby.DefaultResultsURL
}
