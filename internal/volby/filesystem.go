package volby

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConvertFunc turns one feed XML payload into JSON bytes; ConvertResults and
// ConvertPreferences both satisfy it.
type ConvertFunc func(io.Reader) ([]byte, error)

// ConvertDirectory walks srcDir for *.xml feed snapshots and writes JSON
// outputs to dstDir using convert.
func ConvertDirectory(srcDir, dstDir string, convert ConvertFunc) error {
	return ConvertDirectoryWithObserver(srcDir, dstDir, convert, nil)
}

// ConvertDirectoryWithObserver mirrors ConvertDirectory and reports each
// conversion via observer.
func ConvertDirectoryWithObserver(srcDir, dstDir string, convert ConvertFunc, observer func(src, dst string)) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("read src dir: %w", err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("ensure dst dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".xml") {
			continue
		}

		srcPath := filepath.Join(srcDir, entry.Name())
		dstName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())) + ".json"
		dstPath := filepath.Join(dstDir, dstName)

		if err := ConvertFile(srcPath, dstPath, convert); err != nil {
			return err
		}
		if observer != nil {
			observer(srcPath, dstPath)
		}
	}

	return nil
}

// ConvertFile converts a single feed XML file at srcPath into JSON at
// dstPath.
func ConvertFile(srcPath, dstPath string, convert ConvertFunc) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", srcPath, err)
	}
	out, err := convert(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("convert %s: %w", srcPath, err)
	}
	if err := os.WriteFile(dstPath, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dstPath, err)
	}
	return nil
}
