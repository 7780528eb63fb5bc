package entities

import "time"

// DeckResult is the outcome of a single generate() call.
type DeckResult struct {
	OK        bool          `json:"ok"`
	DeckID    string        `json:"deckId,omitempty"`
	URL       string        `json:"url,omitempty"`
	Slides    []SlideResult `json:"slides,omitempty"`
	Warnings  []string      `json:"warnings"`
	CreatedAt time.Time     `json:"createdAt"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// SlideResult describes one slide created during generate().
type SlideResult struct {
	SlideID  string          `json:"slideId"`
	Index    int             `json:"index"`
	Elements []ElementResult `json:"elements"`
}

// ElementResult describes one element placed on a slide. Error is populated (and ElementID
// empty) when the element's insert failed but the slide continued.
type ElementResult struct {
	ElementID   string      `json:"elementId,omitempty"`
	Kind        ContentKind `json:"kind"`
	ResolvedBox AbsoluteBox `json:"resolvedBox"`
	Error       string      `json:"error,omitempty"`
}
