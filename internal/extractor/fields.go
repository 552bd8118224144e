// Package extractor pulls member fields out of loosely structured HTML.
// Every rule here is best effort: a miss yields "Unknown", never an error.
package extractor

import (
	"regexp"
	"strings"

	"housemembers/internal/models"
	"housemembers/pkg/utils"
)

var (
	honorificPrefix = regexp.MustCompile(`(?i)^(?:representative|honorable|rep|hon|mrs|mr|ms|dr)(?:\.\s*|\s+)`)
	stateCode       = regexp.MustCompile(`\b([A-Z]{2})\b`)
	districtNumber  = regexp.MustCompile(`district\s*(\d+)|(\d+)(?:st|nd|rd|th)\s*district`)
)

var (
	republicanTokens  = []string{"republican", "gop", "(r)"}
	democratTokens    = []string{"democrat", "democratic", "(d)"}
	independentTokens = []string{"independent"}
)

// CleanName strips leading honorifics, invisible runes and extra whitespace.
// "Rep. Jane Doe" and "Honorable Jane Doe" both become "Jane Doe".
func CleanName(name string) string {
	strs := utils.NewStringHelper()
	name = strs.NormalizeWhitespace(strs.StripNonPrintable(name))

	for {
		stripped := honorificPrefix.ReplaceAllString(name, "")
		if stripped == name {
			break
		}

		name = strings.TrimSpace(stripped)
	}

	return name
}

// DetectParty classifies free text. Republican is checked before Democrat,
// which is checked before Independent; the first hit wins.
func DetectParty(text string) models.Party {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, republicanTokens):
		return models.PartyRepublican
	case containsAny(lower, democratTokens):
		return models.PartyDemocrat
	case containsAny(lower, independentTokens):
		return models.PartyIndependent
	}

	return models.PartyUnknown
}

// DetectState returns the first standalone two-uppercase-letter token.
func DetectState(text string) string {
	if m := stateCode.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	return models.Unknown
}

// DetectDistrict finds "district 5" or "5th district" and returns the number.
func DetectDistrict(text string) string {
	m := districtNumber.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return models.Unknown
	}

	if m[1] != "" {
		return m[1]
	}

	return m[2]
}

func containsAny(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}

	return false
}
