package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paperlens/internal/models"
	"paperlens/internal/util"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadPaperMarkdown(t *testing.T) {
	r := NewRegistry()
	path := writeTemp(t, "paper.md", "# Attention Is All You Need\n\nAuthors: Vaswani et al.\n\nWe propose the Transformer.\n")

	paper, err := r.LoadPaper(path)
	if err != nil {
		t.Fatalf("LoadPaper: %v", err)
	}
	if paper.PaperType != models.PaperTypeMD {
		t.Errorf("paper type = %s, want md", paper.PaperType)
	}
	if paper.Metadata.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", paper.Metadata.Title)
	}
	if paper.Metadata.Author != "Vaswani et al." {
		t.Errorf("author = %q", paper.Metadata.Author)
	}
	if !strings.HasPrefix(paper.ID, "paper_") || len(paper.ID) != len("paper_")+16 {
		t.Errorf("unexpected paper ID %q", paper.ID)
	}
}

func TestLoadPaperStableID(t *testing.T) {
	r := NewRegistry()
	content := "A Study of Things\n\nBody text of the paper.\n"
	a := writeTemp(t, "one.txt", content)
	b := writeTemp(t, "two.txt", content)

	pa, err := r.LoadPaper(a)
	if err != nil {
		t.Fatalf("LoadPaper: %v", err)
	}
	pb, err := r.LoadPaper(b)
	if err != nil {
		t.Fatalf("LoadPaper: %v", err)
	}
	if pa.ID != pb.ID {
		t.Errorf("same content produced different IDs: %s vs %s", pa.ID, pb.ID)
	}
}

func TestLoadPaperUnsupportedFormat(t *testing.T) {
	r := NewRegistry()
	path := writeTemp(t, "paper.docx", "whatever")
	_, err := r.LoadPaper(path)
	if !errors.Is(err, util.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadPaperEmptyFile(t *testing.T) {
	r := NewRegistry()
	path := writeTemp(t, "empty.txt", "   \n\n  \n")
	_, err := r.LoadPaper(path)
	if !errors.Is(err, util.ErrNoExtractableText) {
		t.Fatalf("expected ErrNoExtractableText, got %v", err)
	}
}

func TestCleanText(t *testing.T) {
	in := "Line one\t \r\nLine two   \r\n\r\n\r\n\r\nLine three\r"
	got := cleanText(in)
	want := "Line one\nLine two\n\nLine three"
	if got != want {
		t.Errorf("cleanText = %q, want %q", got, want)
	}
}

func TestHeaderFieldsPlainMarkers(t *testing.T) {
	title, author := headerFields("Title: Deep Learning Revisited\nAuthor: J. Smith\n\nAbstract...")
	if title != "Deep Learning Revisited" {
		t.Errorf("title = %q", title)
	}
	if author != "J. Smith" {
		t.Errorf("author = %q", author)
	}
}
