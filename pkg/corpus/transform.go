package corpus

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// articleFromRow normalizes one raw dataset row into an Article. The export
// carries both plain and dcterms-prefixed variants of most columns, so each
// field is resolved from a candidate key list in preference order.
func articleFromRow(row map[string]any) Article {
	return Article{
		ID:        stringField(row, "o:id", "o_id", "id"),
		Title:     stringField(row, "title", "dcterms:title", "Titre"),
		Newspaper: stringField(row, "newspaper", "dcterms:publisher", "publisher"),
		Country:   stringField(row, "country", "pays", "Country"),
		PubDate:   NormalizeDate(stringField(row, "pub_date", "date", "dcterms:date")),
		Subject:   pipeField(row, "subject", "dcterms:subject"),
		Spatial:   pipeField(row, "spatial", "dcterms:spatial"),
	}
}

// indexEntryFromRow normalizes one raw index row. The numeric id is kept
// numeric; unparsable ids become null.
func indexEntryFromRow(row map[string]any) IndexEntry {
	entry := IndexEntry{
		Title:       stringField(row, "Titre", "title", "dcterms:title"),
		Type:        stringField(row, "Type", "type"),
		Coordinates: stringField(row, "Coordonnées", "coordinates", "coordonnees", "curation:coordinates"),
	}
	if id, ok := numericID(firstNonEmpty(row, "o:id", "o_id", "id")); ok {
		entry.ID = &id
	}
	return entry
}

// firstNonEmpty returns the first candidate value that is present and not an
// empty container. Empty strings count as present.
func firstNonEmpty(row map[string]any, keys ...string) any {
	for _, key := range keys {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case []any:
			if len(val) == 0 {
				continue
			}
		case map[string]any:
			if len(val) == 0 {
				continue
			}
		}
		return v
	}
	return nil
}

func stringField(row map[string]any, keys ...string) string {
	return stringify(firstNonEmpty(row, keys...))
}

func pipeField(row map[string]any, keys ...string) string {
	return pipeSeparated(firstNonEmpty(row, keys...))
}

// pipeSeparated flattens a value into the canonical " | " separated list form
// used by the subject and spatial columns. Lists join their items, flat
// objects join their values by sorted key, and nested structures fall back to
// their JSON encoding.
func pipeSeparated(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			var part string
			switch item.(type) {
			case []any, map[string]any:
				encoded, err := json.Marshal(item)
				if err != nil {
					continue
				}
				part = string(encoded)
			default:
				part = stringify(item)
			}
			if part == "" {
				continue
			}
			parts = append(parts, part)
		}
		return JoinPipeList(parts)
	case map[string]any:
		for _, item := range val {
			switch item.(type) {
			case []any, map[string]any:
				encoded, err := json.Marshal(val)
				if err != nil {
					return ""
				}
				return string(encoded)
			}
		}
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			if val[key] == nil {
				continue
			}
			parts = append(parts, stringify(val[key]))
		}
		return JoinPipeList(parts)
	default:
		return stringify(v)
	}
}

// stringify renders a decoded JSON scalar the way the export files spell
// them: integral floats without a trailing ".0", nil as the empty string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func numericID(v any) (int64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return int64(val), true
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
