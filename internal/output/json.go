package output

import (
	"encoding/json"
)

// JSONFormatter renders the catalog as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) FormatEndpoints(catalog Catalog) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(catalog, "", "  ")
	} else {
		data, err = json.Marshal(catalog)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
