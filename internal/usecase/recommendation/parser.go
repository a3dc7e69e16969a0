package recommendation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/futig/resource-assistant/internal/entity"
)

const searchFallbackURL = "https://www.google.com/search?q="

var acceptedURLPrefixes = []string{"https://", "http://"}

// ParseResources decodes the JSON array of resources from raw completion text.
// Code fences are stripped symmetrically, anything outside the outermost
// brackets is dropped. Every resource gets a navigable URL and a known priority.
func ParseResources(raw string) ([]entity.Resource, error) {
	cleaned := strings.Trim(strings.TrimSpace(raw), "`")

	start := strings.IndexByte(cleaned, '[')
	end := strings.LastIndexByte(cleaned, ']')
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON array found in response", entity.ErrMalformedResponse)
	}

	var resources []entity.Resource
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &resources); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMalformedResponse, err)
	}

	for i := range resources {
		resources[i].URL = EnsureValidURL(resources[i])
		resources[i].Priority = entity.NormalizePriority(resources[i].Priority)
	}

	return resources, nil
}

// EnsureValidURL returns the resource URL when it has an accepted scheme,
// otherwise a web search link for the program. The fallback is only an
// approximation of the official page.
func EnsureValidURL(resource entity.Resource) string {
	u := strings.TrimSpace(resource.URL)
	for _, prefix := range acceptedURLPrefixes {
		if strings.HasPrefix(u, prefix) {
			return u
		}
	}

	query := strings.TrimSpace(resource.Name + " " + resource.Category + " program")
	return searchFallbackURL + url.QueryEscape(query)
}

// SplitByPriority partitions resources into buckets, source order kept in each
func SplitByPriority(resources []entity.Resource) entity.ResourceBuckets {
	var buckets entity.ResourceBuckets
	for _, r := range resources {
		switch entity.NormalizePriority(r.Priority) {
		case entity.PriorityEmergency:
			buckets.Emergency = append(buckets.Emergency, r)
		case entity.PriorityPrimary:
			buckets.Primary = append(buckets.Primary, r)
		default:
			buckets.Additional = append(buckets.Additional, r)
		}
	}
	return buckets
}
