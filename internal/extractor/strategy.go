package extractor

import "github.com/PuerkitoBio/goquery"

// Strategy extracts a value of type T from an HTML selection.
// The bool result reports success; a failed strategy lets the next one run.
type Strategy[T any] interface {
	Name() string
	Apply(sel *goquery.Selection) (T, bool)
}

// Func adapts a plain function to a Strategy.
type Func[T any] struct {
	Label string
	Fn    func(sel *goquery.Selection) (T, bool)
}

// Name implements Strategy.
func (f Func[T]) Name() string { return f.Label }

// Apply implements Strategy.
func (f Func[T]) Apply(sel *goquery.Selection) (T, bool) { return f.Fn(sel) }

// Cascade tries its strategies in order and stops at the first success.
// Results of different strategies are never merged.
type Cascade[T any] struct {
	label      string
	strategies []Strategy[T]
}

// NewCascade builds a first-success combinator.
func NewCascade[T any](label string, strategies ...Strategy[T]) Cascade[T] {
	return Cascade[T]{label: label, strategies: strategies}
}

// Name implements Strategy.
func (c Cascade[T]) Name() string { return c.label }

// Apply implements Strategy.
func (c Cascade[T]) Apply(sel *goquery.Selection) (T, bool) {
	v, _, ok := c.Run(sel)

	return v, ok
}

// Run is Apply that also returns the name of the strategy that succeeded.
func (c Cascade[T]) Run(sel *goquery.Selection) (T, string, bool) {
	for _, s := range c.strategies {
		if v, ok := s.Apply(sel); ok {
			return v, s.Name(), true
		}
	}

	var zero T

	return zero, "", false
}
