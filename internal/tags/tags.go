// Package tags implements the canonical tag form used by notes and tasks:
// lowercase, trimmed, deduplicated, comma-joined.
package tags

import "strings"

// Input is a raw tag value as supplied by a tool call. Tags arrive either as
// a single delimited string or as a list of strings; nil means absent.
type Input interface{}

// Normalize converts raw tag input into canonical form. Strings split on both
// comma and semicolon; list items are taken as-is. Each item is trimmed and
// lowercased, empties are dropped, duplicates keep first occurrence order.
// Malformed input degrades to fewer tags, never to an error.
func Normalize(value Input) string {
	items := rawItems(value)
	if len(items) == 0 {
		return ""
	}

	cleaned := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		tag := strings.ToLower(strings.TrimSpace(item))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return strings.Join(cleaned, ",")
}

// ToList splits a canonical string into its tags. It tolerates non-canonical
// input (extra whitespace, empty segments) by dropping the noise.
func ToList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// Merge unions existing canonical tags with normalized new input, keeping
// existing-first order.
func Merge(existing string, newTags Input) string {
	combined := append(ToList(existing), ToList(Normalize(newTags))...)
	return Normalize(listInput(combined))
}

// Remove subtracts the normalized removal set from existing canonical tags,
// preserving the order of the survivors.
func Remove(existing string, toRemove Input) string {
	if existing == "" {
		return ""
	}
	removeSet := make(map[string]struct{})
	for _, tag := range ToList(Normalize(toRemove)) {
		removeSet[tag] = struct{}{}
	}
	remaining := make([]string, 0)
	for _, tag := range ToList(existing) {
		if _, drop := removeSet[tag]; !drop {
			remaining = append(remaining, tag)
		}
	}
	return Normalize(listInput(remaining))
}

// rawItems flattens the accepted input shapes into a slice of raw strings.
func rawItems(value Input) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return strings.Split(strings.ReplaceAll(v, ";", ","), ",")
	case []string:
		return v
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return items
	default:
		return nil
	}
}

func listInput(items []string) Input {
	return items
}
