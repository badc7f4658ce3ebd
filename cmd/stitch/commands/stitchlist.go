// Package commands implements the stitch CLI command handler.
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jayvdb/jaeger-stats/internal/stitch"
)

// parseStitchList reads a run list file, one run per line formatted
// "path,label". Blank lines and lines starting with "#" are skipped. A
// line with no comma uses its path as its own label.
func parseStitchList(path string) ([]stitch.RunDescriptor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stitch list %q: %w", path, err)
	}
	defer file.Close()

	var descriptors []stitch.RunDescriptor

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		runPath, label, found := strings.Cut(line, ",")
		if !found {
			label = runPath
		}

		descriptors = append(descriptors, stitch.RunDescriptor{
			Path:  strings.TrimSpace(runPath),
			Label: strings.TrimSpace(label),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stitch list %q: %w", path, err)
	}

	return descriptors, nil
}
