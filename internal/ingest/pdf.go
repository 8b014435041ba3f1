package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"paperlens/internal/models"
)

// PDFParser extracts plain text from PDF files.
type PDFParser struct{}

func (p *PDFParser) Extensions() []string { return []string{".pdf"} }

func (p *PDFParser) Parse(path string) (string, models.PaperMetadata, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", models.PaperMetadata{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", models.PaperMetadata{}, fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", models.PaperMetadata{}, fmt.Errorf("read extracted text: %w", err)
	}

	meta := models.PaperMetadata{Pages: r.NumPage()}
	if st, err := os.Stat(path); err == nil {
		meta.FileSize = st.Size()
	}
	return buf.String(), meta, nil
}
