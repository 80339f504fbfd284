package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/uptimemock/uptimemock/internal/mock"
)

func sampleCatalog(baseURL string) Catalog {
	return NewCatalog(mock.NewSimulator().Endpoints(), baseURL)
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("yml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func TestNewCatalogURLs(t *testing.T) {
	c := sampleCatalog("http://localhost:3000/")
	require.Equal(t, "http://localhost:3000", c.BaseURL)

	byPath := make(map[string]EndpointEntry)
	for _, e := range c.Endpoints {
		byPath[e.Path] = e
	}
	require.Equal(t, "http://localhost:3000/ping", byPath[mock.PathPing].URL)
	require.Empty(t, byPath[mock.PathStatusCode].URL)
	require.True(t, byPath[mock.PathFlapping].Stateful)
	require.False(t, byPath[mock.PathPing].Stateful)
}

func TestFormatters(t *testing.T) {
	c := sampleCatalog("http://localhost:3000")

	tableOut, err := NewFormatter(FormatTable).FormatEndpoints(c)
	require.NoError(t, err)
	require.Contains(t, tableOut, "/always-up")
	require.Contains(t, tableOut, "http://localhost:3000/always-up")
	require.Contains(t, strings.ToLower(tableOut), "25 endpoints")

	mdOut, err := NewFormatter(FormatMarkdown).FormatEndpoints(c)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.ToLower(mdOut), "| path"), mdOut)
	require.Contains(t, mdOut, "/docker/unhealthy")

	jsonOut, err := NewFormatter(FormatJSON).FormatEndpoints(c)
	require.NoError(t, err)
	var decoded Catalog
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &decoded))
	require.Len(t, decoded.Endpoints, len(c.Endpoints))

	yamlOut, err := NewFormatter(FormatYAML).FormatEndpoints(c)
	require.NoError(t, err)
	var fromYAML Catalog
	require.NoError(t, yaml.Unmarshal([]byte(yamlOut), &fromYAML))
	require.Equal(t, c.Endpoints[0].Path, fromYAML.Endpoints[0].Path)
}

func TestTableWithoutBaseURL(t *testing.T) {
	out, err := NewFormatter(FormatTable).FormatEndpoints(sampleCatalog(""))
	require.NoError(t, err)
	require.NotContains(t, out, "http://")
	require.Contains(t, out, "/status/:code")
}
