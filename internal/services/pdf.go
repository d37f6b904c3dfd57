package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"mediascribe/internal/domain"
)

type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// GeneratePDF renders a ready session's transcript, summary, and key ideas
// into a PDF at outPath.
func (s *PDFService) GeneratePDF(sess domain.Session, sum domain.Summary, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure pdf directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Transcript %s", sess.ID), false)
	pdf.SetAuthor("mediascribe", false)
	pdf.AddPage()

	title := strings.TrimSuffix(sess.SourceName, filepath.Ext(sess.SourceName))
	if strings.TrimSpace(title) == "" {
		title = "Transcript"
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	createdAt := time.Unix(sess.CreatedAt, 0).Local()
	pdf.Cell(0, 6, fmt.Sprintf("Created: %s", createdAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	s.writeSection(pdf, "Summary", sum.Summary, false)
	pdf.Ln(8)
	s.writeSection(pdf, "Key Ideas", strings.Join(sum.KeyIdeas, "\n"), true)
	pdf.Ln(8)
	s.writeSection(pdf, "Transcript", sess.Transcript, false)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}

func (s *PDFService) writeSection(pdf *gofpdf.Fpdf, title, content string, bullet bool) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)

	content = strings.TrimSpace(content)
	if content == "" {
		pdf.MultiCell(0, 6, "(empty)", "", "L", false)
		return
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		text := line
		if bullet {
			text = fmt.Sprintf("• %s", line)
		}
		pdf.MultiCell(0, 6, text, "", "L", false)
	}
}
