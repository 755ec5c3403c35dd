// Package stamp implements stamp page selection and sequencing.
//
// Given a pool of candidate pages, each covering some subset of the summary
// sentences and carrying a rendering cost, it greedily picks an ordered
// subset that fits the page budget while balancing coverage per cost against
// variety between consecutive pages.
package stamp

import "fmt"

// PageKind is the layout of a candidate stamp page. It drives the cost.
type PageKind int

const (
	TextOnly PageKind = iota
	Quoted
	Embedded
	MediaOnly
	MediaWithText
	MediaWithTextAndTitle
)

var kindNames = map[PageKind]string{
	TextOnly:              "TEXT_ONLY",
	Quoted:                "QUOTED",
	Embedded:              "EMBEDDED",
	MediaOnly:             "MEDIA_ONLY",
	MediaWithText:         "MEDIA_WITH_TEXT",
	MediaWithTextAndTitle: "MEDIA_WITH_TEXT_AND_TITLE",
}

// Kinds lists every defined page kind in cost order.
func Kinds() []PageKind {
	return []PageKind{TextOnly, Quoted, Embedded, MediaOnly, MediaWithText, MediaWithTextAndTitle}
}

func (k PageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PageKind(%d)", int(k))
}

// Valid reports whether k is one of the defined kinds.
func (k PageKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// MarshalText encodes the kind by name so JSON output stays readable.
func (k PageKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown page kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *PageKind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown page kind %q", string(text))
}
