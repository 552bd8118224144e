// Package models defines the records that flow through the collector pipeline.
package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Unknown is the placeholder for fields no source could supply.
const Unknown = "Unknown"

// DefaultTitle is used when a source does not report a member's title.
const DefaultTitle = "Representative"

// Party is the canonical party label of a member.
type Party string

// Party values.
const (
	PartyRepublican  Party = "Republican"
	PartyDemocrat    Party = "Democrat"
	PartyIndependent Party = "Independent"
	PartyUnknown     Party = Unknown
)

// Canonical column names, in output order.
const (
	FieldName       = "name"
	FieldTitle      = "title"
	FieldParty      = "party"
	FieldState      = "state"
	FieldDistrict   = "district"
	FieldSource     = "source"
	FieldProfileURL = "profile_url"
)

// CanonicalFields lists the fixed columns every member carries.
var CanonicalFields = []string{
	FieldName,
	FieldTitle,
	FieldParty,
	FieldState,
	FieldDistrict,
	FieldSource,
	FieldProfileURL,
}

// Member is the canonical record all sources are mapped into.
// Extra holds sparse source-specific fields (dates, contact info, ids).
type Member struct {
	Name       string
	Title      string
	Party      Party
	State      string
	District   string
	Source     string
	ProfileURL string
	Extra      map[string]string
}

// Get returns the value of a canonical or extra field.
func (m Member) Get(field string) string {
	switch field {
	case FieldName:
		return m.Name
	case FieldTitle:
		return m.Title
	case FieldParty:
		return string(m.Party)
	case FieldState:
		return m.State
	case FieldDistrict:
		return m.District
	case FieldSource:
		return m.Source
	case FieldProfileURL:
		return m.ProfileURL
	}

	return m.Extra[field]
}

// ExtraKeys returns the member's optional field names in sorted order.
func (m Member) ExtraKeys() []string {
	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Clone returns a copy that shares no map with m.
func (m Member) Clone() Member {
	out := m
	if m.Extra != nil {
		out.Extra = make(map[string]string, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}

	return out
}

// MarshalJSON writes canonical fields first, then extras sorted by key.
func (m Member) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	keys := append([]string{}, CanonicalFields...)
	for _, k := range m.ExtraKeys() {
		if !isCanonical(k) {
			keys = append(keys, k)
		}
	}

	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		vb, err := json.Marshal(m.Get(k))
		if err != nil {
			return nil, err
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func isCanonical(field string) bool {
	for _, f := range CanonicalFields {
		if f == field {
			return true
		}
	}

	return false
}
