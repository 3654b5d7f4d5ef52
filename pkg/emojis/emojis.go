package emojis

import (
	"errors"
	"strings"
)

// TokenPrefix is prepended to the emoji in every panel button's callback data.
const TokenPrefix = "react:"

// Default is the emoji set used when none is configured.
var Default = []string{"😂", "❤️", "🔥", "😢", "👍", "👎"}

var (
	ErrEmptySet         = errors.New("emoji set is empty")
	ErrDuplicateEmoji   = errors.New("duplicate emoji in set")
	ErrMalformedToken   = errors.New("malformed action token")
	ErrUnsupportedEmoji = errors.New("unsupported emoji")
)

// Emoji is a reaction emoji. The zero value means no reaction.
type Emoji struct {
	glyph string
}

// Decode wraps a glyph read back from storage. Input from users must go
// through Set.Parse instead.
func Decode(glyph string) Emoji {
	return Emoji{glyph: glyph}
}

func (e Emoji) String() string {
	return e.glyph
}

func (e Emoji) IsZero() bool {
	return e.glyph == ""
}

// Token returns the callback data carried by this emoji's panel button.
func (e Emoji) Token() string {
	return TokenPrefix + e.glyph
}

// Set is the fixed, ordered enumeration of supported emojis.
type Set struct {
	order []Emoji
	index map[string]int
}

func NewSet(glyphs []string) (*Set, error) {
	s := &Set{index: make(map[string]int, len(glyphs))}
	for _, g := range glyphs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := s.index[g]; ok {
			return nil, ErrDuplicateEmoji
		}
		s.index[g] = len(s.order)
		s.order = append(s.order, Emoji{glyph: g})
	}
	if len(s.order) == 0 {
		return nil, ErrEmptySet
	}
	return s, nil
}

// MustSet is NewSet for static sets, it panics on error.
func MustSet(glyphs []string) *Set {
	s, err := NewSet(glyphs)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns the supported emojis in display order.
func (s *Set) All() []Emoji {
	out := make([]Emoji, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Len() int {
	return len(s.order)
}

func (s *Set) Contains(e Emoji) bool {
	_, ok := s.index[e.glyph]
	return ok
}

// Parse validates a raw glyph against the set.
func (s *Set) Parse(glyph string) (Emoji, error) {
	i, ok := s.index[glyph]
	if !ok {
		return Emoji{}, ErrUnsupportedEmoji
	}
	return s.order[i], nil
}

// ParseToken decodes "react:<emoji>" callback data.
func (s *Set) ParseToken(token string) (Emoji, error) {
	glyph, ok := strings.CutPrefix(token, TokenPrefix)
	if !ok || glyph == "" {
		return Emoji{}, ErrMalformedToken
	}
	return s.Parse(glyph)
}
