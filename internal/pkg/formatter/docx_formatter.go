package formatter

import (
	"bytes"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(report *entity.ResourceReport) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	addHeading(doc, "Heading1", reportTitle(report))

	for _, line := range profileLines(report.UserInfo) {
		doc.AddParagraph().AddRun().AddText(line)
	}

	if len(report.Sections) == 0 {
		doc.AddParagraph().AddRun().AddText("No resources were found.")
	}

	for _, section := range report.Sections {
		addHeading(doc, "Heading2", section.Title)

		for _, r := range section.Resources {
			addHeading(doc, "Heading3", r.Name)

			for _, f := range resourceFields(r) {
				par := doc.AddParagraph()
				label := par.AddRun()
				label.Properties().SetBold(true)
				label.AddText(f.label + ": ")
				par.AddRun().AddText(f.value)
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addHeading(doc *document.Document, style, text string) {
	par := doc.AddParagraph()
	par.SetStyle(style)
	par.AddRun().AddText(text)
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
