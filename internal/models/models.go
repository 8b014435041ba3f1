package models

import (
	"strings"
	"time"

	"paperlens/internal/util"
)

type PaperType string

const (
	PaperTypePDF      PaperType = "pdf"
	PaperTypeTxt      PaperType = "txt"
	PaperTypeMD       PaperType = "md"
	PaperTypeMarkdown PaperType = "markdown"
)

// PaperTypeForExt maps a file extension (without dot, lowercased) to a PaperType.
func PaperTypeForExt(ext string) (PaperType, bool) {
	switch PaperType(strings.ToLower(ext)) {
	case PaperTypePDF:
		return PaperTypePDF, true
	case PaperTypeTxt:
		return PaperTypeTxt, true
	case PaperTypeMD:
		return PaperTypeMD, true
	case PaperTypeMarkdown:
		return PaperTypeMarkdown, true
	default:
		return "", false
	}
}

type PaperMetadata struct {
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	FileSize  int64     `json:"file_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Paper is an ingested document. Immutable once built by the ingest registry.
type Paper struct {
	ID        string        `json:"id"`
	FilePath  string        `json:"file_path"`
	Content   string        `json:"content"`
	PaperType PaperType     `json:"paper_type"`
	Metadata  PaperMetadata `json:"metadata"`
}

// NewPaper derives the content-hash identifier and a best-effort title.
func NewPaper(filePath, content string, paperType PaperType) *Paper {
	now := time.Now()
	p := &Paper{
		ID:        "paper_" + util.ShortHash(content),
		FilePath:  filePath,
		Content:   content,
		PaperType: paperType,
		Metadata:  PaperMetadata{CreatedAt: now, UpdatedAt: now},
	}
	p.Metadata.Title = titleFromContent(content)
	return p
}

func (p *Paper) WordCount() int {
	return len(strings.Fields(p.Content))
}

// titleFromContent scans the first ten lines for a markdown heading or a
// plausibly short title line.
func titleFromContent(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
		if line != "" && !strings.HasPrefix(line, "#") && len(line) < 100 {
			return line
		}
	}
	return ""
}
