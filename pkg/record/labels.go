package record

import (
	"strings"
	"unicode"
)

// DefaultLabeler converts a wire name into a field label: underscores become
// spaces and only the first letter is upper-cased ("cfg_scale" -> "Cfg scale").
func DefaultLabeler(name string) string {
	return capitalize(strings.ToLower(strings.ReplaceAll(name, "_", " ")))
}

// GroupLabeler converts a group field name into a title-cased group name
// ("post_processing" -> "Post Processing").
func GroupLabeler(name string) string {
	words := strings.Split(name, "_")
	for idx, word := range words {
		words[idx] = capitalize(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}

// SnakeCase derives the default wire name from a Go field name, splitting on
// camelCase and acronym boundaries ("CFGScale" -> "cfg_scale").
func SnakeCase(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	var out strings.Builder
	for i, r := range runes {
		if i > 0 && isBoundary(runes, i) {
			out.WriteRune('_')
		}
		out.WriteRune(unicode.ToLower(r))
	}
	return out.String()
}

func isBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	case unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	default:
		return false
	}
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
