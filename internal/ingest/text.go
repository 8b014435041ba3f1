package ingest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"paperlens/internal/models"
)

// TextParser reads plain-text and markdown papers.
type TextParser struct{}

func (p *TextParser) Extensions() []string { return []string{".txt", ".md", ".markdown"} }

var blankRuns = regexp.MustCompile(`\n{3,}`)

func (p *TextParser) Parse(path string) (string, models.PaperMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", models.PaperMetadata{}, fmt.Errorf("read file: %w", err)
	}
	text := cleanText(string(raw))

	meta := models.PaperMetadata{FileSize: int64(len(raw))}
	meta.Title, meta.Author = headerFields(text)
	return text, meta, nil
}

// cleanText normalizes line endings, strips trailing whitespace, and
// collapses runs of blank lines down to one.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankRuns.ReplaceAllString(s, "\n\n"))
}

// headerFields scans the leading lines for explicit Title:/Author: markers
// or a markdown heading.
func headerFields(text string) (title, author string) {
	lines := strings.Split(text, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case title == "" && strings.HasPrefix(line, "# "):
			title = strings.TrimSpace(line[2:])
		case title == "" && hasFieldPrefix(line, "title"):
			title = fieldValue(line)
		case author == "" && (hasFieldPrefix(line, "author") || hasFieldPrefix(line, "authors")):
			author = fieldValue(line)
		}
		if title != "" && author != "" {
			break
		}
	}
	return title, author
}

func hasFieldPrefix(line, field string) bool {
	return strings.HasPrefix(strings.ToLower(line), field+":")
}

func fieldValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}
