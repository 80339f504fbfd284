package output

import (
	"gopkg.in/yaml.v3"
)

// YAMLFormatter renders the catalog as YAML, suitable for seeding monitor
// definitions.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatEndpoints(catalog Catalog) (string, error) {
	data, err := yaml.Marshal(catalog)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
