package recommendation

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/futig/resource-assistant/internal/entity"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

const notSpecified = "Not specified"

type promptFile struct {
	System   string               `yaml:"system"`
	Versions map[string]promptSet `yaml:"versions"`
}

type promptSet struct {
	Bulk      string `yaml:"bulk"`
	Detail    string `yaml:"detail"`
	Recommend string `yaml:"recommend"`
}

// PromptBuilder renders prompts from one version of the embedded templates.
// All render methods are pure functions of their arguments.
type PromptBuilder struct {
	version   string
	system    string
	bulk      *template.Template
	detail    *template.Template
	recommend *template.Template
}

func NewPromptBuilder(version string) (*PromptBuilder, error) {
	var file promptFile
	if err := yaml.Unmarshal(promptsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}

	set, ok := file.Versions[version]
	if !ok {
		return nil, fmt.Errorf("%w: unknown prompt version %q", entity.ErrInvalidParameter, version)
	}

	b := &PromptBuilder{
		version: version,
		system:  strings.TrimSpace(file.System),
	}

	var err error
	if b.bulk, err = parseTemplate("bulk", set.Bulk); err != nil {
		return nil, err
	}
	if b.detail, err = parseTemplate("detail", set.Detail); err != nil {
		return nil, err
	}
	if b.recommend, err = parseTemplate("recommend", set.Recommend); err != nil {
		return nil, err
	}

	return b, nil
}

// PromptVersions lists the template versions shipped with the binary
func PromptVersions() ([]string, error) {
	var file promptFile
	if err := yaml.Unmarshal(promptsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}

	versions := make([]string, 0, len(file.Versions))
	for v := range file.Versions {
		versions = append(versions, v)
	}
	return versions, nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("prompt template %q is empty", name)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return tmpl, nil
}

func (b *PromptBuilder) Version() string {
	return b.version
}

func (b *PromptBuilder) SystemPrompt() string {
	return b.system
}

// BulkPrompt asks for the full set of recommendations for the collected profile
func (b *PromptBuilder) BulkPrompt(info entity.UserInfo) (string, error) {
	data := struct {
		Emergency     string
		ZipCode       string
		Needs         string
		HouseholdSize string
		Income        string
	}{
		Emergency:     yesNo(info.Emergency),
		ZipCode:       orNotSpecified(info.ZipCode),
		Needs:         orNotSpecified(strings.Join(info.Needs, ", ")),
		HouseholdSize: orNotSpecified(info.HouseholdSize),
		Income:        orNotSpecified(info.Income),
	}

	return render(b.bulk, data)
}

// DetailPrompt asks for the ten-point narrative about a single resource
func (b *PromptBuilder) DetailPrompt(resource entity.Resource, zipCode string) (string, error) {
	data := struct {
		Name     string
		Category string
		ZipCode  string
	}{
		Name:     resource.Name,
		Category: orNotSpecified(resource.Category),
		ZipCode:  orNotSpecified(zipCode),
	}

	return render(b.detail, data)
}

// RecommendPrompt renders the one-shot recommendation request
func (b *PromptBuilder) RecommendPrompt(req *entity.RecommendRequest) (string, error) {
	userInput := fmt.Sprintf(
		"Zip Code: %s, Income Range: %s, Education Level: %s, Number of Kids: %s",
		req.ZipCode,
		req.IncomeRange,
		req.EducationLevel,
		orNotSpecified(string(req.NumKids)),
	)

	return render(b.recommend, struct{ UserInput string }{UserInput: userInput})
}

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

func yesNo(v *bool) string {
	switch {
	case v == nil:
		return notSpecified
	case *v:
		return "Yes"
	default:
		return "No"
	}
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}
