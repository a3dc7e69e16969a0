package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/resource-assistant/internal/entity"
)

const defaultTitle = "Family Support Resources"

// Formatter renders a resource report into a downloadable document
type Formatter interface {
	Format(report *entity.ResourceReport) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}

func reportTitle(report *entity.ResourceReport) string {
	if report.Title == "" {
		return defaultTitle
	}
	return report.Title
}

// profileLines describes the answers the report was generated for
func profileLines(info entity.UserInfo) []string {
	var lines []string
	if info.Emergency != nil {
		emergency := "No"
		if *info.Emergency {
			emergency = "Yes"
		}
		lines = append(lines, "Emergency: "+emergency)
	}
	if info.ZipCode != "" {
		lines = append(lines, "ZIP code: "+info.ZipCode)
	}
	if len(info.Needs) > 0 {
		lines = append(lines, "Needs: "+strings.Join(info.Needs, ", "))
	}
	if info.HouseholdSize != "" {
		lines = append(lines, "Household size: "+info.HouseholdSize)
	}
	if info.Income != "" {
		lines = append(lines, "Income: "+info.Income)
	}
	return lines
}

type field struct {
	label string
	value string
}

// resourceFields lists the non-empty resource attributes in display order
func resourceFields(r entity.Resource) []field {
	all := []field{
		{label: "Category", value: r.Category},
		{label: "Description", value: r.Description},
		{label: "Eligibility", value: r.Eligibility},
		{label: "How to start", value: r.Action},
		{label: "Contact", value: r.Contact},
		{label: "Hours", value: r.Hours},
		{label: "Website", value: r.URL},
	}

	fields := make([]field, 0, len(all))
	for _, f := range all {
		if strings.TrimSpace(f.value) != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
