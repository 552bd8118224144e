package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"housemembers/internal/models"
)

// ErrUnknownCandidate is returned for a RawCandidate variant the transformer cannot map.
var ErrUnknownCandidate = errors.New("unknown raw candidate type")

// Optional field keys carried in Member.Extra.
const (
	ExtraBioguideID  = "bioguide_id"
	ExtraGovTrackID  = "govtrack_id"
	ExtraFirstName   = "first_name"
	ExtraLastName    = "last_name"
	ExtraNickname    = "nickname"
	ExtraServedFrom  = "served_from"
	ExtraServedTo    = "served_to"
	ExtraURL         = "url"
	ExtraCongress    = "congress"
	ExtraStartDate   = "start_date"
	ExtraEndDate     = "end_date"
	ExtraWebsite     = "website"
	ExtraPhone       = "phone"
	ExtraOffice      = "office"
	ExtraGender      = "gender"
	ExtraBirthday    = "birthday"
	ExtraTwitter     = "twitter"
	ExtraYoutube     = "youtube"
	ExtraSourceURL   = "source_url"
	ExtraScrapedFrom = "scraped_from"
)

var bracketSuffix = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)

// Transformer maps each source-specific variant onto the canonical fields.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform converts a raw candidate into an uncanonicalized member.
func (t *Transformer) Transform(raw models.RawCandidate) (models.Member, error) {
	switch c := raw.(type) {
	case models.CongressMember:
		return t.fromCongress(c), nil
	case *models.CongressMember:
		return t.fromCongress(*c), nil
	case models.GovTrackRole:
		return t.fromGovTrack(c), nil
	case *models.GovTrackRole:
		return t.fromGovTrack(*c), nil
	case models.WebFragment:
		return t.fromWeb(c), nil
	case *models.WebFragment:
		return t.fromWeb(*c), nil
	}

	return models.Member{}, fmt.Errorf("%w: %T", ErrUnknownCandidate, raw)
}

func (t *Transformer) fromCongress(c models.CongressMember) models.Member {
	m := models.Member{
		Name:     congressName(c),
		Party:    models.Party(c.PartyName),
		State:    c.State,
		District: c.District.String(),
		Source:   c.Label,
		Extra: map[string]string{
			ExtraBioguideID: c.BioguideID,
			ExtraFirstName:  c.FirstName,
			ExtraLastName:   c.LastName,
			ExtraURL:        c.URL,
		},
	}

	if c.Congress > 0 {
		m.Extra[ExtraCongress] = strconv.Itoa(c.Congress)
	}

	if n := len(c.Terms); n > 0 {
		last := c.Terms[n-1]
		m.Extra[ExtraServedFrom] = last.StartYear.String()
		m.Extra[ExtraServedTo] = last.EndYear.String()
	}

	return m
}

// congressName prefers the split name fields and otherwise turns the
// directory form "Last, First[, Jr.]" into "First Last[ Jr.]".
func congressName(c models.CongressMember) string {
	first := strings.TrimSpace(c.FirstName)
	last := strings.TrimSpace(c.LastName)

	if first != "" && last != "" {
		return first + " " + last
	}

	name := strings.TrimSpace(c.Name)

	surname, given, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}

	given, suffix := splitNameSuffix(given)

	return strings.Join(strings.Fields(given+" "+surname+" "+suffix), " ")
}

var nameSuffixes = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true, "iv": true}

func isNameSuffix(s string) bool {
	return nameSuffixes[strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")]
}

// splitNameSuffix separates a trailing generational suffix, written either
// after a comma or as the last word.
func splitNameSuffix(given string) (string, string) {
	given = strings.TrimSpace(given)

	if i := strings.LastIndex(given, ","); i >= 0 && isNameSuffix(given[i+1:]) {
		return given[:i], strings.TrimSpace(given[i+1:])
	}

	if i := strings.LastIndex(given, " "); i > 0 && isNameSuffix(given[i+1:]) {
		return given[:i], given[i+1:]
	}

	return given, ""
}

func (t *Transformer) fromGovTrack(r models.GovTrackRole) models.Member {
	p := r.Person

	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if p.FirstName == "" || p.LastName == "" {
		name = bracketSuffix.ReplaceAllString(p.Name, "")
	}

	m := models.Member{
		Name:       name,
		Title:      r.Title,
		Party:      models.Party(r.Party),
		State:      r.State,
		District:   r.District.String(),
		Source:     r.Label,
		ProfileURL: r.Website,
		Extra: map[string]string{
			ExtraGovTrackID: p.ID.String(),
			ExtraBioguideID: p.BioguideID,
			ExtraFirstName:  p.FirstName,
			ExtraLastName:   p.LastName,
			ExtraNickname:   p.Nickname,
			ExtraStartDate:  r.StartDate,
			ExtraEndDate:    r.EndDate,
			ExtraWebsite:    r.Website,
			ExtraPhone:      r.Phone,
			ExtraGender:     p.Gender,
			ExtraBirthday:   p.Birthday,
			ExtraTwitter:    p.TwitterID,
			ExtraYoutube:    p.YoutubeID,
			ExtraSourceURL:  r.SourceURL,
		},
	}

	if office, ok := r.Extra["address"].(string); ok {
		m.Extra[ExtraOffice] = office
	}

	return m
}

// fromWeb applies page overrides: canonical field names replace the
// extracted value, anything else is kept as an optional field.
func (t *Transformer) fromWeb(w models.WebFragment) models.Member {
	m := models.Member{
		Name:       w.Name,
		Party:      models.Party(w.Party),
		State:      w.State,
		District:   w.District,
		Source:     w.Label,
		ProfileURL: w.ProfileURL,
		Extra: map[string]string{
			ExtraScrapedFrom: w.PageURL,
		},
	}

	for key, value := range w.Overrides {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case models.FieldName:
			m.Name = value
		case models.FieldTitle:
			m.Title = value
		case models.FieldParty:
			m.Party = models.Party(value)
		case models.FieldState:
			m.State = value
		case models.FieldDistrict:
			m.District = value
		case models.FieldSource:
			m.Source = value
		case models.FieldProfileURL:
			m.ProfileURL = value
		default:
			m.Extra[key] = value
		}
	}

	return m
}
