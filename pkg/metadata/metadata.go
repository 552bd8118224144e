// Package metadata stamps generated reports with an integrity block and verifies it.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart opens the metadata block.
	TagStart = "<!-- REPORT_METADATA"
	// TagEnd closes the metadata block.
	TagEnd = "REPORT_METADATA -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes when and from how many records a report was generated.
type Metadata struct {
	RunID       string
	GeneratedAt time.Time
	Members     int
	Sources     int
	Hash        string
}

var metadataRegex = regexp.MustCompile(`(?s)<!--\s*REPORT_METADATA\s*\n(.*?)\n\s*REPORT_METADATA\s*-->`)

// Extract splits content into its metadata block (nil when absent) and the
// report body the hash covers.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	body := strings.TrimRight(metadataRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, body
	}

	meta := &Metadata{}

	for line := range strings.SplitSeq(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "RUN_ID":
			meta.RunID = val
		case "GENERATED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.GeneratedAt = t
			}
		case "MEMBERS":
			meta.Members, _ = strconv.Atoi(val)
		case "SOURCES":
			meta.Sources, _ = strconv.Atoi(val)
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, body
}

// CalculateHash returns the SHA-256 of the report body, ignoring any metadata block.
func CalculateHash(content string) string {
	_, body := Extract(content)
	sum := sha256.Sum256([]byte(body))

	return hex.EncodeToString(sum[:])
}

// Sign replaces any existing block with a fresh one for meta.
// meta.Hash is ignored and recomputed.
func Sign(content string, meta Metadata) string {
	_, body := Extract(content)

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n%s\n", body, TagStart)

	if meta.RunID != "" {
		fmt.Fprintf(&b, "RUN_ID: %s\n", meta.RunID)
	}

	fmt.Fprintf(&b, "GENERATED_AT: %s\nMEMBERS: %d\nSOURCES: %d\nHASH: %s\n%s\n",
		meta.GeneratedAt.UTC().Format(time.RFC3339), meta.Members, meta.Sources, CalculateHash(body), TagEnd)

	return b.String()
}

// Verify checks the report body against the hash in its metadata block.
func Verify(content string) (*Metadata, error) {
	meta, body := Extract(content)
	if meta == nil {
		return nil, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return meta, ErrNoHashFound
	}

	if calculated := CalculateHash(body); calculated != meta.Hash {
		return meta, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return meta, nil
}
