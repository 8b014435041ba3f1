// Package ingest loads papers from disk and turns them into models.Paper
// values ready for analysis. Parsers are registered per file extension.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"paperlens/internal/models"
	"paperlens/internal/util"
)

// Parser converts one document format into plain text plus metadata.
type Parser interface {
	Parse(path string) (text string, meta models.PaperMetadata, err error)
	Extensions() []string
}

// Registry routes files to the parser registered for their extension.
type Registry struct {
	parsers map[string]Parser
}

func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(&PDFParser{})
	r.Register(&TextParser{})
	return r
}

func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		r.parsers[strings.ToLower(ext)] = p
	}
}

// SupportedExtensions lists every registered extension, dot included.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	return exts
}

// LoadPaper parses the file at path into a Paper. The paper ID is derived
// from the extracted content, so re-ingesting the same document yields the
// same ID regardless of file name.
func (r *Registry) LoadPaper(path string) (*models.Paper, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parser, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", util.ErrUnsupportedFormat, ext)
	}
	text, meta, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	text = util.SanitizeText(text)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), util.ErrNoExtractableText)
	}

	paperType, ok := models.PaperTypeForExt(strings.TrimPrefix(ext, "."))
	if !ok {
		return nil, fmt.Errorf("%w: %q", util.ErrUnsupportedFormat, ext)
	}
	paper := models.NewPaper(path, text, paperType)
	if meta.Title != "" {
		paper.Metadata.Title = meta.Title
	}
	if meta.Author != "" {
		paper.Metadata.Author = meta.Author
	}
	paper.Metadata.Pages = meta.Pages
	paper.Metadata.FileSize = meta.FileSize
	return paper, nil
}
