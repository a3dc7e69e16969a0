package formatter

import (
	"bytes"
	"os"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	pdfFontName = "DejaVuSans"

	// Runtime layout keeps fonts next to the binary, source layout is for local runs
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func resolveFontPath() string {
	for _, path := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (pf *PDFFormatter) Format(report *entity.ResourceReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts only cover cp1252, text is translated when no UTF-8 font is bundled
	fontName := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	write := func(style string, size float64, text string) {
		pdf.SetFont(fontName, style, size)
		_, lineHeight := pdf.GetFontSize()
		pdf.MultiCell(0, lineHeight*1.5, tr(text), "", "", false)
	}

	write("B", 20, reportTitle(report))
	pdf.Ln(4)

	for _, line := range profileLines(report.UserInfo) {
		write("", 11, line)
	}

	if len(report.Sections) == 0 {
		pdf.Ln(4)
		write("", 12, "No resources were found.")
	}

	for _, section := range report.Sections {
		pdf.Ln(6)
		write("B", 16, section.Title)

		for _, r := range section.Resources {
			pdf.Ln(2)
			write("B", 13, r.Name)
			for _, f := range resourceFields(r) {
				write("", 11, f.label+": "+f.value)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
