package internal

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Principle is a single sandhi rule from the corpus. Identity is its content;
// duplicate lines stay duplicated.
type Principle struct {
	Content string
}

// LoadPrinciples reads a line-oriented rule corpus: UTF-8, one rule per
// non-empty line, blank lines skipped. Order follows the file.
func LoadPrinciples(path string) ([]Principle, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	var principles []Principle
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		principles = append(principles, Principle{Content: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	if len(principles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, path)
	}

	return principles, nil
}
