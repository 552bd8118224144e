package crawler

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"housemembers/internal/config"
	"housemembers/internal/extractor"
	"housemembers/internal/logger"
	"housemembers/internal/models"
	"housemembers/pkg/utils"
)

// FallbackStrategyName labels the lenient anchor scan run after every
// configured strategy came up empty.
const FallbackStrategyName = "fallback:links"

// WebSource scrapes one configured page.
type WebSource struct {
	page      config.WebPageConfig
	userAgent string
	label     string
	cascade   extractor.Cascade[[]models.WebFragment]
	scraper   *Scraper
	urls      *utils.HTTPHelper
	log       *logger.Logger
}

// NewWebSource builds the strategy cascade for page. Strategies come from
// the page itself or the web defaults, with the anchor fallback appended.
func NewWebSource(web config.WebConfig, page config.WebPageConfig, ext *extractor.Extractor, scraper *Scraper, log *logger.Logger) (*WebSource, error) {
	pattern, err := regexp.Compile(web.FallbackLinkPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidFallbackPattern, err)
	}

	var strategies []extractor.Strategy[[]models.WebFragment]

	for _, sc := range web.StrategiesFor(page) {
		strategy, err := PageStrategy(sc, ext)
		if err != nil {
			return nil, err
		}

		strategies = append(strategies, strategy)
	}

	strategies = append(strategies, FallbackLinks(pattern, web.FallbackLinkLimit))

	label := page.Name
	if label == "" {
		label = pageLabel(page.URL)
	}

	return &WebSource{
		page:      page,
		userAgent: web.UserAgent,
		label:     label,
		cascade:   extractor.NewCascade("page:"+label, strategies...),
		scraper:   scraper,
		urls:      utils.NewHTTPHelper(),
		log:       log.With("source", label, "page", page.URL),
	}, nil
}

// Name implements Source.
func (s *WebSource) Name() string { return s.label }

// Fetch implements Source.
func (s *WebSource) Fetch(ctx context.Context) []models.RawCandidate {
	return swallow(ctx, s, s.log)
}

// Collect downloads the page and runs the strategy cascade over it.
func (s *WebSource) Collect(ctx context.Context) ([]models.RawCandidate, error) {
	res, err := s.scraper.GetPage(ctx, Request{
		URL:       s.page.URL,
		UserAgent: s.userAgent,
		Accept:    AcceptHTML,
	})
	if err != nil {
		return nil, NewSourceError(s.Name(), "fetch", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, NewSourceError(s.Name(), "parse", fmt.Errorf("%w: %w", ErrParse, err))
	}

	fragments, strategy := s.Scan(doc)
	if strategy == "" {
		s.log.Info("no members found on page")

		return nil, nil
	}

	s.log.Info("source collected", "strategy", strategy, "records", len(fragments))

	candidates := make([]models.RawCandidate, 0, len(fragments))
	for _, f := range fragments {
		candidates = append(candidates, f)
	}

	return candidates, nil
}

// Scan runs the cascade over an already parsed document and stamps the page
// URL, overrides and label on every fragment. The strategy name is empty
// when nothing matched.
func (s *WebSource) Scan(doc *goquery.Document) ([]models.WebFragment, string) {
	fragments, strategy, ok := s.cascade.Run(doc.Selection)
	if !ok {
		return nil, ""
	}

	for i := range fragments {
		fragments[i].PageURL = s.page.URL
		fragments[i].Label = s.label

		if len(s.page.Overrides) > 0 {
			fragments[i].Overrides = maps.Clone(s.page.Overrides)
		}

		if fragments[i].ProfileURL != "" {
			fragments[i].ProfileURL = s.urls.Resolve(s.page.URL, fragments[i].ProfileURL)
		}
	}

	return fragments, strategy
}

// PageStrategy turns one configured strategy into a page-level extractor.
func PageStrategy(sc config.StrategyConfig, ext *extractor.Extractor) (extractor.Strategy[[]models.WebFragment], error) {
	switch sc.Kind {
	case config.StrategyElements:
		return ElementsStrategy(sc.Selector, ext), nil
	case config.StrategyTable:
		return TableStrategy(sc.Selector, sc.MaxRows), nil
	case config.StrategyLinks:
		return LinksStrategy(sc.Selector), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrInvalidStrategyKind, sc.Kind)
}

// ElementsStrategy hands every element matching selector to the field
// extractor. It succeeds when at least one element matches, even if no
// name could be extracted from it.
func ElementsStrategy(selector string, ext *extractor.Extractor) extractor.Strategy[[]models.WebFragment] {
	return extractor.Func[[]models.WebFragment]{
		Label: config.StrategyElements + ":" + selector,
		Fn: func(sel *goquery.Selection) ([]models.WebFragment, bool) {
			matches := sel.Find(selector)
			if matches.Length() == 0 {
				return nil, false
			}

			fragments := make([]models.WebFragment, 0, matches.Length())

			matches.Each(func(_ int, m *goquery.Selection) {
				fields := ext.Extract(m, "")
				fragments = append(fragments, models.WebFragment{
					Name:       fields.Name,
					Party:      string(fields.Party),
					State:      fields.State,
					District:   fields.District,
					ProfileURL: fields.ProfileURL,
				})
			})

			return fragments, true
		},
	}
}

// TableStrategy reads directory-style tables: the first row is a header,
// and each following row with two or more cells yields name, party and
// (when present) state from its first three cells.
func TableStrategy(selector string, maxRows int) extractor.Strategy[[]models.WebFragment] {
	strs := utils.NewStringHelper()

	return extractor.Func[[]models.WebFragment]{
		Label: config.StrategyTable + ":" + selector,
		Fn: func(sel *goquery.Selection) ([]models.WebFragment, bool) {
			var fragments []models.WebFragment

			sel.Find(selector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
				table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
					if i == 0 {
						return true
					}

					cells := row.Find("td")
					if cells.Length() < 2 {
						return true
					}

					nameCell := cells.Eq(0)
					href, _ := nameCell.Find("a[href]").First().Attr("href")

					f := models.WebFragment{
						Name:       extractor.CleanName(nameCell.Text()),
						Party:      strs.NormalizeWhitespace(cells.Eq(1).Text()),
						ProfileURL: href,
					}
					if cells.Length() > 2 {
						f.State = strs.NormalizeWhitespace(cells.Eq(2).Text())
					}

					fragments = append(fragments, f)

					return maxRows <= 0 || len(fragments) < maxRows
				})

				return maxRows <= 0 || len(fragments) < maxRows
			})

			return fragments, len(fragments) > 0
		},
	}
}

// LinksStrategy treats anchors matching selector as member names when
// their text has at least two words.
func LinksStrategy(selector string) extractor.Strategy[[]models.WebFragment] {
	return extractor.Func[[]models.WebFragment]{
		Label: config.StrategyLinks + ":" + selector,
		Fn: func(sel *goquery.Selection) ([]models.WebFragment, bool) {
			fragments := anchorFragments(sel.Find(selector), nil, 0)

			return fragments, len(fragments) > 0
		},
	}
}

// FallbackLinks scans every anchor whose href matches pattern and keeps up
// to limit of those with a two-word text.
func FallbackLinks(pattern *regexp.Regexp, limit int) extractor.Strategy[[]models.WebFragment] {
	return extractor.Func[[]models.WebFragment]{
		Label: FallbackStrategyName,
		Fn: func(sel *goquery.Selection) ([]models.WebFragment, bool) {
			fragments := anchorFragments(sel.Find("a[href]"), pattern, limit)

			return fragments, len(fragments) > 0
		},
	}
}

func anchorFragments(anchors *goquery.Selection, hrefPattern *regexp.Regexp, limit int) []models.WebFragment {
	strs := utils.NewStringHelper()

	var fragments []models.WebFragment

	anchors.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if hrefPattern != nil && !hrefPattern.MatchString(href) {
			return true
		}

		text := strs.NormalizeWhitespace(a.Text())
		if strs.WordCount(text) < 2 {
			return true
		}

		fragments = append(fragments, models.WebFragment{
			Name:       extractor.CleanName(text),
			Party:      string(models.PartyUnknown),
			ProfileURL: href,
		})

		return limit <= 0 || len(fragments) < limit
	})

	return fragments
}

func pageLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	return "Web: " + u.Host
}
