package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RawCandidate is a source-specific record before normalization.
// The concrete types are CongressMember, GovTrackRole and WebFragment.
type RawCandidate interface {
	SourceLabel() string
	raw()
}

// FlexString decodes JSON strings, numbers and null into a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*f = FlexString(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// booleans and objects carry no usable value
		*f = ""

		return nil
	}

	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))

		return nil
	}

	*f = FlexString(n.String())

	return nil
}

// String returns the decoded value.
func (f FlexString) String() string {
	return string(f)
}

// CongressTerm is one term entry of a Congress.gov member.
type CongressTerm struct {
	Chamber   string     `json:"chamber"`
	StartYear FlexString `json:"startYear"`
	EndYear   FlexString `json:"endYear"`
}

// CongressTerms accepts both a bare list and the {"item": [...]} wrapper.
type CongressTerms []CongressTerm

// UnmarshalJSON implements json.Unmarshaler.
func (t *CongressTerms) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '[' {
		var list []CongressTerm
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}

		*t = list

		return nil
	}

	var wrapped struct {
		Item []CongressTerm `json:"item"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}

	*t = wrapped.Item

	return nil
}

// CongressMember is a member entry from the Congress.gov member API.
type CongressMember struct {
	BioguideID string        `json:"bioguideId"`
	Name       string        `json:"name"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	State      string        `json:"state"`
	District   FlexString    `json:"district"`
	PartyName  string        `json:"partyName"`
	URL        string        `json:"url"`
	Terms      CongressTerms `json:"terms"`

	// Set by the adapter, not part of the API payload.
	Congress int    `json:"-"`
	Label    string `json:"-"`
}

// SourceLabel implements RawCandidate.
func (c CongressMember) SourceLabel() string { return c.Label }

func (CongressMember) raw() {}

// GovTrackPerson is the person object embedded in a GovTrack role.
type GovTrackPerson struct {
	ID         FlexString `json:"id"`
	BioguideID string     `json:"bioguideid"`
	Name       string     `json:"name"`
	FirstName  string     `json:"firstname"`
	LastName   string     `json:"lastname"`
	Nickname   string     `json:"nickname"`
	Gender     string     `json:"gender"`
	Birthday   string     `json:"birthday"`
	TwitterID  string     `json:"twitterid"`
	YoutubeID  string     `json:"youtubeid"`
}

// GovTrackRole is a role entry from the GovTrack role API.
type GovTrackRole struct {
	RoleType  string         `json:"role_type"`
	State     string         `json:"state"`
	District  FlexString     `json:"district"`
	Party     string         `json:"party"`
	Title     string         `json:"title"`
	StartDate string         `json:"startdate"`
	EndDate   string         `json:"enddate"`
	Website   string         `json:"website"`
	Phone     string         `json:"phone"`
	Extra     map[string]any `json:"extra"`
	Person    GovTrackPerson `json:"person"`

	// Set by the adapter.
	Label     string `json:"-"`
	SourceURL string `json:"-"`
}

// SourceLabel implements RawCandidate.
func (g GovTrackRole) SourceLabel() string { return g.Label }

func (GovTrackRole) raw() {}

// WebFragment carries the fields extracted from one HTML fragment.
type WebFragment struct {
	Name       string
	Party      string
	State      string
	District   string
	ProfileURL string
	PageURL    string

	// Overrides are fixed values configured for the page, e.g. state or committee.
	Overrides map[string]string
	Label     string
}

// SourceLabel implements RawCandidate.
func (w WebFragment) SourceLabel() string { return w.Label }

func (WebFragment) raw() {}
