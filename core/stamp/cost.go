package stamp

import "fmt"

// costTable holds the budget each page kind consumes. Richer layouts cost
// more, so the coverage/cost ratio discounts them unless they cover more.
var costTable = map[PageKind]float64{
	TextOnly:              1.0,
	Quoted:                2.5,
	Embedded:              5.0,
	MediaOnly:             7.5,
	MediaWithText:         10.0,
	MediaWithTextAndTitle: 20.0,
}

// Cost returns the rendering cost of a page kind.
// It panics on an unknown kind: every kind the package defines has a cost.
func Cost(kind PageKind) float64 {
	cost, ok := costTable[kind]
	if !ok {
		panic(fmt.Sprintf("stamp: no cost defined for %s", kind))
	}
	return cost
}
