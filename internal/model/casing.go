package model

import (
	"strings"
	"unicode"
)

// ExternalKey converts a Go field name into the engine's key naming.
// The name is split into words at case changes, with acronym runs kept as one
// word; the first word is lowercased and every following word is capitalized.
//
//	MaxPoses         -> maxPoses
//	ModelURL         -> modelUrl
//	NMSRadius        -> nmsRadius
//	DetectorModelURL -> detectorModelUrl
func ExternalKey(name string) string {
	words := splitWords(name)
	var b strings.Builder
	for i, w := range words {
		lower := strings.ToLower(w)
		if i == 0 {
			b.WriteString(lower)
			continue
		}
		r := []rune(lower)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func splitWords(name string) []string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		prev := runes[i-1]
		endOfAcronym := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || endOfAcronym {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}
