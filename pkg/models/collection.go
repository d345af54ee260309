package models

import (
	"fmt"
	"strings"
)

// CollectionKind names the grouping a set of words belongs to.
type CollectionKind string

const (
	CollectionLevel  CollectionKind = "level"
	CollectionLesson CollectionKind = "lesson"
	CollectionDeck   CollectionKind = "deck"
)

// Collection identifies one group of words: a CEFR level, a lesson within a
// level, or a learner-made deck.
type Collection struct {
	Kind CollectionKind `json:"kind"`
	ID   string         `json:"id"`
}

func (c Collection) String() string {
	return fmt.Sprintf("%s/%s", c.Kind, c.ID)
}

// ParseCollection parses the "kind/id" form produced by String.
func ParseCollection(s string) (Collection, error) {
	kind, id, ok := strings.Cut(s, "/")
	if !ok || id == "" {
		return Collection{}, fmt.Errorf("malformed collection %q, want kind/id", s)
	}
	switch CollectionKind(kind) {
	case CollectionLevel, CollectionLesson, CollectionDeck:
		return Collection{Kind: CollectionKind(kind), ID: id}, nil
	default:
		return Collection{}, fmt.Errorf("unknown collection kind %q", kind)
	}
}
