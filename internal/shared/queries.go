package shared

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// LoadQueries reads search queries from a line-oriented file.
//
// Returns [ErrNoQueries] when the file does not exist or has no usable lines.
func LoadQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoQueries, path)
		}
		return nil, fmt.Errorf("failed to open queries file: %w", err)
	}
	defer f.Close()

	queries, err := ParseQueries(f)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable lines", ErrNoQueries, path)
	}
	return queries, nil
}

// ParseQueries returns the trimmed lines of r, skipping blank lines and lines starting with '#'.
func ParseQueries(r io.Reader) ([]string, error) {
	var queries []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}

	return queries, nil
}
