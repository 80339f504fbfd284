package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableFormatter renders the catalog as a rounded ASCII table, or as a
// Markdown table when Markdown is set.
type TableFormatter struct {
	Markdown bool
}

func (f *TableFormatter) FormatEndpoints(catalog Catalog) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	withURL := catalog.BaseURL != ""
	header := table.Row{"Path", "Category", "Description", "State"}
	if withURL {
		header = append(header, "URL")
	}
	t.AppendHeader(header)

	stateful := 0
	for _, e := range catalog.Endpoints {
		state := ""
		if e.Stateful {
			state = "stateful"
			stateful++
		}
		row := table.Row{e.Path, e.Category, e.Description, state}
		if withURL {
			row = append(row, e.URL)
		}
		t.AppendRow(row)
	}

	footer := table.Row{"", "", fmt.Sprintf("%d endpoints", len(catalog.Endpoints)), fmt.Sprintf("%d stateful", stateful)}
	if withURL {
		footer = append(footer, "")
	}
	t.AppendFooter(footer)

	if f.Markdown {
		return t.RenderMarkdown(), nil
	}
	return t.Render(), nil
}
