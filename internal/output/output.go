package output

import (
	"fmt"
	"strings"

	"github.com/uptimemock/uptimemock/internal/mock"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formatter renders the endpoint catalog.
type Formatter interface {
	FormatEndpoints(catalog Catalog) (string, error)
}

// Catalog is the endpoint listing as presented to operators.
type Catalog struct {
	BaseURL   string          `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Endpoints []EndpointEntry `json:"endpoints" yaml:"endpoints"`
}

// EndpointEntry is one row of the listing.
type EndpointEntry struct {
	Path        string `json:"path" yaml:"path"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
	Stateful    bool   `json:"stateful" yaml:"stateful"`
}

// NewCatalog builds the listing for endpoints. URLs are filled in when
// baseURL is set; parameterized paths get none.
func NewCatalog(endpoints []mock.Endpoint, baseURL string) Catalog {
	baseURL = strings.TrimRight(baseURL, "/")
	c := Catalog{BaseURL: baseURL, Endpoints: make([]EndpointEntry, 0, len(endpoints))}
	for _, e := range endpoints {
		entry := EndpointEntry{
			Path:        e.Path,
			Category:    string(e.Category),
			Description: e.Description,
			Stateful:    e.Stateful,
		}
		if baseURL != "" && !e.Parameterized {
			entry.URL = baseURL + e.Path
		}
		c.Endpoints = append(c.Endpoints, entry)
	}
	return c
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &TableFormatter{Markdown: true}
	default:
		return &TableFormatter{}
	}
}
