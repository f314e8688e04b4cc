package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edix-io/Edix/core"
)

// Format identifies an export/import serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

// ParseFormat normalizes a format name, rejecting anything outside the
// supported set.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXML:
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, name)
	}
}

// Item is one imported record: the structure it targets and its field
// values. The structure comes from the record's _structure key; records
// without one go to "default".
type Item struct {
	Structure string
	Data      map[string]any
}

// Marshal serializes records into the requested format.
//
// CSV output is headered with the keys of the first record; zero records
// produce empty output, not an error and not a header-only file. XML
// output nests one <record> element per row with one child element per
// field, each child's text being the value's string form (lossy for
// nested structures).
func Marshal(records []core.Record, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		if records == nil {
			records = []core.Record{}
		}
		return json.MarshalIndent(records, "", "  ")

	case FormatYAML:
		return yaml.Marshal(records)

	case FormatCSV:
		return marshalCSV(records)

	case FormatXML:
		return marshalXML(records)

	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
}

// Unmarshal decodes an import payload into items. JSON, YAML and CSV are
// accepted; XML import is not supported.
func Unmarshal(format Format, payload []byte) ([]Item, error) {
	var entries []map[string]any
	var err error

	switch format {
	case FormatJSON:
		entries, err = unmarshalJSON(payload)
	case FormatYAML:
		entries, err = unmarshalYAML(payload)
	case FormatCSV:
		entries, err = unmarshalCSV(payload)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		structure := "default"
		if name, ok := entry["_structure"].(string); ok && name != "" {
			structure = name
		}
		delete(entry, "_structure")
		items = append(items, Item{Structure: structure, Data: entry})
	}
	return items, nil
}

func marshalCSV(records []core.Record) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}

	headers := recordKeys(records[0])

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, record := range records {
		row := make([]string, len(headers))
		for i, key := range headers {
			row[i] = stringify(record[key])
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalXML(records []core.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<data>")

	for _, record := range records {
		buf.WriteString("<record>")
		for _, key := range recordKeys(record) {
			buf.WriteString("<" + key + ">")
			if err := xml.EscapeText(&buf, []byte(stringify(record[key]))); err != nil {
				return nil, err
			}
			buf.WriteString("</" + key + ">")
		}
		buf.WriteString("</record>")
	}

	buf.WriteString("</data>")
	return buf.Bytes(), nil
}

func unmarshalJSON(payload []byte) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(payload, &list); err == nil {
		return list, nil
	}

	var single map[string]any
	if err := json.Unmarshal(payload, &single); err != nil {
		return nil, fmt.Errorf("failed to decode JSON payload: %w", err)
	}
	return []map[string]any{single}, nil
}

func unmarshalYAML(payload []byte) ([]map[string]any, error) {
	var list []map[string]any
	if err := yaml.Unmarshal(payload, &list); err == nil {
		return list, nil
	}

	var single map[string]any
	if err := yaml.Unmarshal(payload, &single); err != nil {
		return nil, fmt.Errorf("failed to decode YAML payload: %w", err)
	}
	return []map[string]any{single}, nil
}

func unmarshalCSV(payload []byte) ([]map[string]any, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV payload: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	entries := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entry := make(map[string]any, len(headers))
		for i, header := range headers {
			if i < len(row) {
				entry[header] = row[i]
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// recordKeys returns a record's keys in stable order, id first.
func recordKeys(record core.Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		if key == "id" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if _, ok := record["id"]; ok {
		keys = append([]string{"id"}, keys...)
	}
	return keys
}

// stringify renders a value for the flat formats (CSV, XML).
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	default:
		return fmt.Sprint(v)
	}
}
