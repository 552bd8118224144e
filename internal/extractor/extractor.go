package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"housemembers/internal/models"
	"housemembers/pkg/utils"
)

// DefaultNameSelectors are tried in order inside a fragment.
var DefaultNameSelectors = []string{"h1", "h2", "h3", ".name", ".member-name", "a"}

// maxNameLineLength bounds the plain-text name fallback.
const maxNameLineLength = 50

// Fields holds what could be extracted from one fragment.
type Fields struct {
	Name       string
	Party      models.Party
	State      string
	District   string
	ProfileURL string
}

// Extractor applies the name cascade and the text classifiers to a fragment.
type Extractor struct {
	name Cascade[string]
	http *utils.HTTPHelper
}

// New creates an extractor using DefaultNameSelectors.
func New() *Extractor {
	return NewWithNameSelectors(DefaultNameSelectors...)
}

// NewWithNameSelectors creates an extractor with a custom name selector order.
// The line-scan fallback is always appended last.
func NewWithNameSelectors(selectors ...string) *Extractor {
	strategies := make([]Strategy[string], 0, len(selectors)+1)
	for _, s := range selectors {
		strategies = append(strategies, SelectorName(s))
	}

	strategies = append(strategies, LineScanName())

	return &Extractor{
		name: NewCascade("name", strategies...),
		http: utils.NewHTTPHelper(),
	}
}

// Extract returns the fields of a fragment. pageURL is used to resolve relative links.
func (e *Extractor) Extract(sel *goquery.Selection, pageURL string) Fields {
	text := BlockText(sel)

	name, _ := e.name.Apply(sel)

	return Fields{
		Name:       CleanName(name),
		Party:      DetectParty(text),
		State:      DetectState(text),
		District:   DetectDistrict(text),
		ProfileURL: e.http.Resolve(pageURL, ProfileHref(sel)),
	}
}

// SelectorName matches descendants of the fragment and accepts the first
// whose text has at least two words.
func SelectorName(selector string) Strategy[string] {
	strs := utils.NewStringHelper()

	return Func[string]{
		Label: "selector:" + selector,
		Fn: func(sel *goquery.Selection) (string, bool) {
			var found string

			sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := strs.NormalizeWhitespace(s.Text())
				if strs.WordCount(text) >= 2 {
					found = text

					return false
				}

				return true
			})

			return found, found != ""
		},
	}
}

// LineScanName picks the first text line with two or more words that is
// shorter than 50 characters.
func LineScanName() Strategy[string] {
	strs := utils.NewStringHelper()

	return Func[string]{
		Label: "line-scan",
		Fn: func(sel *goquery.Selection) (string, bool) {
			for _, line := range Lines(sel) {
				if strs.WordCount(line) >= 2 && utf8.RuneCountInString(line) < maxNameLineLength {
					return line, true
				}
			}

			return "", false
		},
	}
}

// ProfileHref returns the href of the fragment itself if it is a link,
// otherwise of its first descendant link.
func ProfileHref(sel *goquery.Selection) string {
	if goquery.NodeName(sel) == "a" {
		if href, ok := sel.Attr("href"); ok {
			return strings.TrimSpace(href)
		}
	}

	href, _ := sel.Find("a[href]").First().Attr("href")

	return strings.TrimSpace(href)
}
