package store

import (
	"database/sql"
	"encoding/json"
	"strings"
	"unicode"
)

// marshalTags serializes a tag list (allergens, labels) to JSON text.
func marshalTags(tags []string) (string, error) {
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalTags restores a tag list from its JSON text column.
func unmarshalTags(s string) ([]string, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// isNumeric reports whether s is non-empty and consists only of digits,
// which routes a search query to exact barcode matching.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// escapeLike escapes LIKE wildcards in a user-supplied substring query.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
