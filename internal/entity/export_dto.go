package entity

type ResultFormat string

const (
	FormatJSON     ResultFormat = "json"
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// ResourceReport is the printable summary of an intake session
type ResourceReport struct {
	Title    string          `json:"title"`
	UserInfo UserInfo        `json:"user_info"`
	Sections []ReportSection `json:"sections"`
}

type ReportSection struct {
	Priority  ResourcePriority `json:"priority"`
	Title     string           `json:"title"`
	Resources []Resource       `json:"resources"`
}
