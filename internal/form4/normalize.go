package form4

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	noTitle            = "No Title"
	seeRemarksSentinel = "See Remarks"
)

// deriveTitle builds the insider's display title from the relationship
// flags. Officer title wins (substituting the remarks text when the filing
// points there), then Director, then 10% Owner; multiple roles join with a
// comma.
func deriveTitle(owner reportingOwner, remarks string) string {
	rel := owner.Relationship
	var parts []string

	if xmlFlagSet(rel.IsOfficer) {
		title := strings.TrimSpace(rel.OfficerTitle)
		if strings.Contains(title, seeRemarksSentinel) && remarks != "" {
			title = remarks
		}
		if title != "" {
			parts = append(parts, title)
		}
	}
	if xmlFlagSet(rel.IsDirector) && len(parts) == 0 {
		parts = append(parts, "Director")
	}
	if xmlFlagSet(rel.IsTenPercentOwner) {
		parts = append(parts, "10% Owner")
	}

	if len(parts) == 0 {
		return noTitle
	}
	return strings.Join(parts, ", ")
}

// NormalizeName converts an all-caps filer name to display form: each word
// capitalized, hyphenated sub-words capitalized independently, and Scottish
// "Mc" prefixes restored ("MCDONALD" becomes "McDonald").
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		subs := strings.Split(word, "-")
		for j, sub := range subs {
			subs[j] = capitalizeWord(sub)
		}
		words[i] = strings.Join(subs, "-")
	}
	return strings.Join(words, " ")
}

func capitalizeWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	if len(r) > 2 && r[0] == 'M' && r[1] == 'c' {
		r[2] = unicode.ToUpper(r[2])
	}
	return string(r)
}

// TradeTypeLabel maps a Form 4 transaction code to its display label.
// Unrecognized codes keep the raw code character with an Unknown label.
func TradeTypeLabel(code string) string {
	switch code {
	case "P":
		return "P - Purchase"
	case "S":
		return "S - Sale"
	case "A":
		return "A - Grant"
	case "D":
		return "D - Sale to Issuer"
	case "G":
		return "G - Gift"
	case "F":
		return "F - Tax"
	case "M":
		return "M - Option Exercise"
	case "X":
		return "X - Option Exercise"
	case "C":
		return "C - Convertible Derivative"
	case "W":
		return "W - Inherited"
	default:
		return fmt.Sprintf("%s - Unknown", code)
	}
}
