package normalizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housemembers/internal/models"
)

func TestNormalize_CongressMember(t *testing.T) {
	raw := models.CongressMember{
		BioguideID: "P000197",
		Name:       "Pelosi, Nancy",
		State:      "California",
		District:   "11",
		PartyName:  "Democratic",
		URL:        "https://api.congress.gov/v3/member/P000197",
		Terms: models.CongressTerms{
			{Chamber: "House of Representatives", StartYear: "1987"},
			{Chamber: "House of Representatives", StartYear: "2023", EndYear: "2025"},
		},
		Congress: 119,
		Label:    "Congress.gov API",
	}

	got, ok := Normalize(raw)
	require.True(t, ok)

	want := models.Member{
		Name:     "Nancy Pelosi",
		Title:    models.DefaultTitle,
		Party:    models.PartyDemocrat,
		State:    "CA",
		District: "11",
		Source:   "Congress.gov API",
		Extra: map[string]string{
			ExtraBioguideID: "P000197",
			ExtraURL:        "https://api.congress.gov/v3/member/P000197",
			ExtraCongress:   "119",
			ExtraServedFrom: "2023",
			ExtraServedTo:   "2025",
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_CongressPrefersSplitName(t *testing.T) {
	got, ok := Normalize(models.CongressMember{
		Name:      "Ocasio-Cortez, Alexandria",
		FirstName: "Alexandria",
		LastName:  "Ocasio-Cortez",
		Label:     "Congress.gov API",
	})
	require.True(t, ok)
	assert.Equal(t, "Alexandria Ocasio-Cortez", got.Name)
	assert.Equal(t, models.Unknown, got.State)
	assert.Equal(t, models.Unknown, got.District)
	assert.Equal(t, models.PartyUnknown, got.Party)
}

func TestNormalize_CongressDirectoryNameKeepsSuffixLast(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`Johnson, Henry C. "Hank", Jr.`, `Henry C. "Hank" Johnson Jr.`},
		{"Higgins, Clay, III", "Clay Higgins III"},
		{"Wilson, Joe Sr.", "Joe Wilson Sr."},
		{"Scott, David", "David Scott"},
		{"Cher", "Cher"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(models.CongressMember{Name: tt.raw, Label: "Congress.gov API"})
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestNormalize_GovTrackRole(t *testing.T) {
	raw := models.GovTrackRole{
		RoleType:  "representative",
		State:     "WY",
		District:  "0",
		Party:     "Republican",
		Title:     "Rep.",
		StartDate: "2025-01-03",
		Website:   "https://hageman.house.gov",
		Extra:     map[string]any{"address": "2441 Rayburn HOB", "fax": 12},
		Person: models.GovTrackPerson{
			ID:        "456789",
			Name:      "Rep. Harriet Hageman [R-WY0]",
			FirstName: "Harriet",
			LastName:  "Hageman",
			Gender:    "female",
		},
		Label:     "GovTrack.us API",
		SourceURL: "https://www.govtrack.us/api/v2/role",
	}

	got, ok := Normalize(raw)
	require.True(t, ok)

	assert.Equal(t, "Harriet Hageman", got.Name)
	assert.Equal(t, models.DefaultTitle, got.Title)
	assert.Equal(t, models.PartyRepublican, got.Party)
	assert.Equal(t, "WY", got.State)
	assert.Equal(t, "0", got.District)
	assert.Equal(t, "https://hageman.house.gov", got.ProfileURL)
	assert.Equal(t, "456789", got.Extra[ExtraGovTrackID])
	assert.Equal(t, "2441 Rayburn HOB", got.Extra[ExtraOffice])
	assert.Equal(t, "female", got.Extra[ExtraGender])
	assert.Equal(t, "https://www.govtrack.us/api/v2/role", got.Extra[ExtraSourceURL])
	assert.NotContains(t, got.Extra, ExtraNickname, "empty optional fields are omitted")
}

func TestNormalize_GovTrackFallsBackToDisplayName(t *testing.T) {
	got, ok := Normalize(models.GovTrackRole{
		Person: models.GovTrackPerson{Name: "Rep. Nancy Pelosi [D-CA11]"},
		Label:  "GovTrack.us API",
	})
	require.True(t, ok)
	assert.Equal(t, "Nancy Pelosi", got.Name)
}

func TestNormalize_WebFragmentWithOverrides(t *testing.T) {
	raw := models.WebFragment{
		Name:       "Rep.  Ro   Khanna",
		Party:      "Unknown",
		State:      "Unknown",
		District:   "17",
		ProfileURL: "https://khanna.house.gov",
		PageURL:    "https://example.com/ca",
		Overrides:  map[string]string{"state": "California", "committee": "Armed Services"},
		Label:      "California Delegation",
	}

	got, ok := Normalize(raw)
	require.True(t, ok)

	assert.Equal(t, "Ro Khanna", got.Name)
	assert.Equal(t, "CA", got.State)
	assert.Equal(t, "17", got.District)
	assert.Equal(t, models.PartyUnknown, got.Party)
	assert.Equal(t, "California Delegation", got.Source)
	assert.Equal(t, "Armed Services", got.Extra["committee"])
	assert.Equal(t, "https://example.com/ca", got.Extra[ExtraScrapedFrom])
}

func TestNormalize_DropsEmptyName(t *testing.T) {
	for _, raw := range []models.RawCandidate{
		models.WebFragment{Name: "  Rep.  ", Label: "Web"},
		models.CongressMember{Label: "Congress.gov API"},
		models.GovTrackRole{Label: "GovTrack.us API"},
	} {
		_, ok := Normalize(raw)
		assert.False(t, ok, "%T", raw)
	}
}

func TestNormalize_UnknownVariant(t *testing.T) {
	_, ok := Normalize(nil)
	assert.False(t, ok)
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []models.Member{
		{Name: "Hon. Jane   Doe", Party: "D", State: "new york", District: "07th", Title: "Del."},
		{Name: "John Smith", Party: "Independent Democrat", State: "tx", District: "at-large", Source: " Web "},
		{Name: "A B", Party: "Democratic-Farmer-Labor", State: "Atlantis", District: "n/a", Extra: map[string]string{"x": " ", "y": " 1 "}},
	}

	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Canonicalize not idempotent for %q (-once +twice):\n%s", in.Name, diff)
		}
	}
}

func TestCanonicalize_Fields(t *testing.T) {
	got := Canonicalize(models.Member{
		Name:     "Hon. Jane   Doe",
		Party:    "D",
		State:    "new york",
		District: "07th",
		Title:    "Del.",
		Extra:    map[string]string{"x": " ", "y": " 1 "},
	})

	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, models.PartyDemocrat, got.Party)
	assert.Equal(t, "NY", got.State)
	assert.Equal(t, "7", got.District)
	assert.Equal(t, "Delegate", got.Title)
	assert.Equal(t, models.Unknown, got.Source)
	assert.Equal(t, map[string]string{"y": "1"}, got.Extra)
}

func TestCanonicalParty(t *testing.T) {
	tests := []struct {
		in   string
		want models.Party
	}{
		{"Democratic", models.PartyDemocrat},
		{"D", models.PartyDemocrat},
		{"Republican", models.PartyRepublican},
		{"r", models.PartyRepublican},
		{"Independent", models.PartyIndependent},
		{"ID", models.PartyIndependent},
		{"Democratic-Farmer-Labor", models.PartyDemocrat},
		{"Libertarian", models.PartyUnknown},
		{"", models.PartyUnknown},
		{"Unknown", models.PartyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalParty(tt.in))
		})
	}
}

func TestCanonicalState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CA", "CA"},
		{"ca", "CA"},
		{"California", "CA"},
		{"  north   carolina ", "NC"},
		{"District of Columbia", "DC"},
		{"Puerto Rico", "PR"},
		{"U.S. Virgin Islands", "VI"},
		{"ZZ", models.Unknown},
		{"Atlantis", models.Unknown},
		{"", models.Unknown},
		{models.Unknown, models.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalState(tt.in))
		})
	}

	assert.Equal(t, "Wyoming", StateName("wy"))
	assert.Empty(t, StateName("ZZ"))
}

func TestCanonicalDistrict(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5", "5"},
		{"05", "5"},
		{"0", "0"},
		{"At-Large", "0"},
		{"12th", "12"},
		{"", models.Unknown},
		{"Unknown", models.Unknown},
		{"district five", models.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalDistrict(tt.in))
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	valid := models.Member{Name: "Jane Doe", Party: models.PartyUnknown, State: models.Unknown, Source: "x"}
	require.NoError(t, v.Validate(valid))

	tests := []struct {
		name   string
		mutate func(m *models.Member)
		want   error
	}{
		{"empty name", func(m *models.Member) { m.Name = "" }, ErrEmptyName},
		{"bad party", func(m *models.Member) { m.Party = "Whig" }, ErrInvalidParty},
		{"bad state", func(m *models.Member) { m.State = "California" }, ErrInvalidState},
		{"no source", func(m *models.Member) { m.Source = "" }, ErrMissingSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			assert.ErrorIs(t, v.Validate(m), tt.want)
		})
	}
}

func TestProcessor_NormalizeAll(t *testing.T) {
	p := NewProcessor()

	got := p.NormalizeAll([]models.RawCandidate{
		models.WebFragment{Name: "Jane Doe", Label: "Web"},
		models.WebFragment{Name: "", Label: "Web"},
		models.WebFragment{Name: "John Roe", Label: "Web"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Jane Doe", got[0].Name)
	assert.Equal(t, "John Roe", got[1].Name)
}
