package store

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/yaml.v2"
)

//go:embed seed.yaml
var seedTemplate string

const day = 24 * time.Hour

// DefaultSeed renders the embedded demo snapshot with timestamps relative to
// now.
func DefaultSeed(now time.Time) (Tables, error) {
	tmpl, err := template.New("seed").Funcs(template.FuncMap{
		"daysAgo":     func(n int) string { return FormatISO(now.Add(-time.Duration(n) * day)) },
		"daysFromNow": func(n int) string { return FormatISO(now.Add(time.Duration(n) * day)) },
	}).Parse(seedTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("failed to render seed template: %w", err)
	}

	var raw map[string][]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	tables := emptyTables()
	for name, rows := range raw {
		table, err := ParseTable(name)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			record, err := ToRecord(fromYAML(row))
			if err != nil {
				return nil, fmt.Errorf("seed %s: %w", name, err)
			}
			tables[table] = append(tables[table], record)
		}
	}
	return tables, nil
}

// fromYAML converts yaml.v2 generic maps into JSON-encodable maps.
func fromYAML(v interface{}) interface{} {
	switch x := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[fmt.Sprint(k)] = fromYAML(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = fromYAML(item)
		}
		return out
	default:
		return x
	}
}
