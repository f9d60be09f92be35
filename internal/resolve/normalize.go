// Package resolve matches scraped team and player names against canonical
// records. Scraped labels are noisy: umlauts, abbreviations, swapped name
// order and roman team numerals all appear, so matching runs on normalized
// text with a fuzzy fallback.
package resolve

import (
	"strconv"
	"strings"
)

// Normalize folds a scraped label into its comparison form: lowercase,
// German transliteration, punctuation stripped, whitespace collapsed.
func Normalize(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw) + 8)
	for _, r := range raw {
		switch r {
		case 'ä':
			b.WriteString("ae")
		case 'ö':
			b.WriteString("oe")
		case 'ü':
			b.WriteString("ue")
		case 'ß':
			b.WriteString("ss")
		case 'é', 'è', 'ê':
			b.WriteRune('e')
		case 'á', 'à', 'â':
			b.WriteRune('a')
		case 'ó', 'ò', 'ô':
			b.WriteRune('o')
		case '.', ',', '-', '/', '(', ')', '\'':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var romanBySuffix = map[string]string{
	"1": "i", "2": "ii", "3": "iii", "4": "iv", "5": "v",
	"6": "vi", "7": "vii", "8": "viii", "9": "ix", "10": "x",
}

var arabicByRoman = map[string]string{
	"i": "1", "ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9", "x": "10",
}

// teamVariants generates the normalized lookup keys under which one team
// label is recognized. Roman and arabic squad numerals are interchangeable
// on the portal, and a first squad often appears without any numeral.
func teamVariants(label string) []string {
	normalized := Normalize(label)
	if normalized == "" {
		return nil
	}

	variants := []string{normalized}
	fields := strings.Fields(normalized)
	if len(fields) < 2 {
		return variants
	}

	base := strings.Join(fields[:len(fields)-1], " ")
	last := fields[len(fields)-1]

	if roman, ok := romanBySuffix[last]; ok {
		variants = append(variants, base+" "+roman)
	}
	if arabic, ok := arabicByRoman[last]; ok {
		variants = append(variants, base+" "+arabic)
	}
	if last == "i" || last == "1" {
		variants = append(variants, base)
	}
	return variants
}

// nameOrderVariants returns the normalized name plus its comma-flipped form,
// so "Müller, Hans" and "Hans Müller" land on the same key.
func nameOrderVariants(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	variants := []string{Normalize(trimmed)}
	if parts := strings.SplitN(trimmed, ",", 2); len(parts) == 2 {
		variants = append(variants, Normalize(parts[1]+" "+parts[0]))
	}
	return variants
}

// normalizeFederationID strips leading zeros so "01234567" and "1234567"
// compare equal.
func normalizeFederationID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return strconv.FormatUint(v, 10)
	}
	return raw
}
