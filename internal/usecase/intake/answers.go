package intake

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/futig/resource-assistant/internal/entity"
)

var zipCodeRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

func parseYesNo(answer entity.Answer) (bool, error) {
	switch strings.ToLower(answer.Text()) {
	case "yes", "y", "true":
		return true, nil
	case "no", "n", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected yes or no", entity.ErrInvalidAnswer)
	}
}

func parseZipCode(answer entity.Answer) (string, error) {
	zip := answer.Text()
	if !zipCodeRe.MatchString(zip) {
		return "", fmt.Errorf("%w: ZIP code must have 5 digits", entity.ErrInvalidAnswer)
	}
	return zip, nil
}

// parseNeeds accepts a list of values, a JSON array string or a comma
// separated string. Values are trimmed and de-duplicated in order.
func parseNeeds(answer entity.Answer) ([]string, error) {
	var raw []string
	for _, v := range answer.Values {
		v = strings.TrimSpace(v)

		var list []string
		if strings.HasPrefix(v, "[") && json.Unmarshal([]byte(v), &list) == nil {
			raw = append(raw, list...)
			continue
		}
		raw = append(raw, strings.Split(v, ",")...)
	}

	needs := make([]string, 0, len(raw))
	for _, need := range raw {
		need = strings.TrimSpace(need)
		if need == "" || slices.Contains(needs, need) {
			continue
		}
		needs = append(needs, need)
	}

	if len(needs) == 0 {
		return nil, fmt.Errorf("%w: select at least one need", entity.ErrInvalidAnswer)
	}

	return needs, nil
}

// parseOption returns the canonical option matching the answer, ignoring case
func parseOption(answer entity.Answer, options []string) (string, error) {
	text := answer.Text()
	for _, opt := range options {
		if strings.EqualFold(opt, text) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not one of %s", entity.ErrInvalidAnswer, text, strings.Join(options, ", "))
}

// findResource returns the first resource with a matching name
func findResource(resources []entity.Resource, name string) (entity.Resource, bool) {
	name = strings.TrimSpace(name)
	for _, r := range resources {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			return r, true
		}
	}
	return entity.Resource{}, false
}
