package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/resource-assistant/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(report *entity.ResourceReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", reportTitle(report))

	if lines := profileLines(report.UserInfo); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&buf, "- %s\n", line)
		}
		buf.WriteString("\n")
	}

	if len(report.Sections) == 0 {
		buf.WriteString("No resources were found.\n")
		return buf.Bytes(), nil
	}

	for _, section := range report.Sections {
		fmt.Fprintf(&buf, "## %s\n\n", section.Title)
		for _, r := range section.Resources {
			fmt.Fprintf(&buf, "### %s\n\n", r.Name)
			for _, f := range resourceFields(r) {
				fmt.Fprintf(&buf, "- **%s:** %s\n", f.label, f.value)
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
