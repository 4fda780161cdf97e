package lib

import "strings"

// NormalizeTags parses a comma separated tag string. A nil input means the
// field was not submitted and yields nil; anything else yields a non-nil,
// lower-cased, de-duplicated list in first-seen order.
func NormalizeTags(raw *string) []string {
	if raw == nil {
		return nil
	}

	parts := strings.Split(*raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// JoinTags renders tags back into the form field format.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
