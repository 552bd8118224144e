package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"housemembers/internal/extractor"
	"housemembers/internal/models"
)

var ordinalNumber = regexp.MustCompile(`^(\d+)(?:st|nd|rd|th)?$`)

var partyAliases = map[string]models.Party{
	"r":                    models.PartyRepublican,
	"rep":                  models.PartyRepublican,
	"gop":                  models.PartyRepublican,
	"republican":           models.PartyRepublican,
	"d":                    models.PartyDemocrat,
	"dem":                  models.PartyDemocrat,
	"democrat":             models.PartyDemocrat,
	"democratic":           models.PartyDemocrat,
	"i":                    models.PartyIndependent,
	"id":                   models.PartyIndependent,
	"ind":                  models.PartyIndependent,
	"independent":          models.PartyIndependent,
	"independent democrat": models.PartyIndependent,
}

var titleAliases = map[string]string{
	"rep":                   models.DefaultTitle,
	"rep.":                  models.DefaultTitle,
	"representative":        models.DefaultTitle,
	"del":                   "Delegate",
	"del.":                  "Delegate",
	"delegate":              "Delegate",
	"res.comm.":             "Resident Commissioner",
	"resident commissioner": "Resident Commissioner",
}

// Canonicalize cleans every field of m into its canonical form. It is
// idempotent: Canonicalize(Canonicalize(m)) == Canonicalize(m).
func Canonicalize(m models.Member) models.Member {
	out := models.Member{
		Name:       extractor.CleanName(m.Name),
		Title:      CanonicalTitle(m.Title),
		Party:      CanonicalParty(string(m.Party)),
		State:      CanonicalState(m.State),
		District:   CanonicalDistrict(m.District),
		Source:     strings.TrimSpace(m.Source),
		ProfileURL: strings.TrimSpace(m.ProfileURL),
	}

	if out.Source == "" {
		out.Source = models.Unknown
	}

	for k, v := range m.Extra {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		if k == "" || v == "" {
			continue
		}

		if out.Extra == nil {
			out.Extra = make(map[string]string, len(m.Extra))
		}

		out.Extra[k] = v
	}

	return out
}

// CanonicalParty maps party names and abbreviations to a Party. Text that
// is not a known alias is classified like free text by the extractor.
func CanonicalParty(party string) models.Party {
	key := strings.ToLower(strings.Join(strings.Fields(party), " "))
	if key == "" {
		return models.PartyUnknown
	}

	if p, ok := partyAliases[key]; ok {
		return p
	}

	switch models.Party(party) {
	case models.PartyRepublican, models.PartyDemocrat, models.PartyIndependent:
		return models.Party(party)
	}

	return extractor.DetectParty(party)
}

// CanonicalState returns a two-letter postal code, or Unknown.
func CanonicalState(state string) string {
	state = strings.Join(strings.Fields(state), " ")
	if state == "" {
		return models.Unknown
	}

	if code := strings.ToUpper(state); len(code) == 2 {
		if _, ok := stateNames[code]; ok {
			return code
		}

		return models.Unknown
	}

	if code, ok := stateCodes[strings.ToLower(state)]; ok {
		return code
	}

	return models.Unknown
}

// CanonicalDistrict returns the district number without leading zeros,
// "0" for at-large seats, or Unknown.
func CanonicalDistrict(district string) string {
	district = strings.ToLower(strings.TrimSpace(district))

	switch district {
	case "":
		return models.Unknown
	case "at-large", "at large", "atlarge":
		return "0"
	}

	m := ordinalNumber.FindStringSubmatch(district)
	if m == nil {
		return models.Unknown
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return models.Unknown
	}

	return strconv.Itoa(n)
}

// CanonicalTitle expands common abbreviations and defaults to Representative.
func CanonicalTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return models.DefaultTitle
	}

	if t, ok := titleAliases[strings.ToLower(title)]; ok {
		return t
	}

	return title
}
