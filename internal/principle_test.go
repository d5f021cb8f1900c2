package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrinciples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	content := "rule: a + i -> e (guna)\n\n  rule: a + u -> o (guna)  \n\n\nrule: a + i -> e (guna)\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	principles, err := LoadPrinciples(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{
		"rule: a + i -> e (guna)",
		"rule: a + u -> o (guna)",
		"rule: a + i -> e (guna)", // duplicates stay
	}
	if len(principles) != len(want) {
		t.Fatalf("got %d principles, want %d", len(principles), len(want))
	}
	for i, w := range want {
		if principles[i].Content != w {
			t.Errorf("principle %d = %q, want %q", i, principles[i].Content, w)
		}
	}
}

func TestLoadPrinciplesMissingFile(t *testing.T) {
	_, err := LoadPrinciples(filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, ErrCorpusNotFound) {
		t.Errorf("err = %v, want ErrCorpusNotFound", err)
	}
}

func TestLoadPrinciplesEmptyCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte("\n\n   \n\t\n"), 0644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	_, err := LoadPrinciples(path)
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("err = %v, want ErrEmptyCorpus", err)
	}
}
