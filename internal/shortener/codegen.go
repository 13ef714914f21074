package shortener

import (
	"math/rand/v2"

	"github.com/jaevor/go-nanoid"
)

// Category selects the prefix letter range for a generated code. The three
// ranges are disjoint, so codes from different subsystems rarely collide
// even though they share one lookup namespace.
type Category int

const (
	// CategoryShortLink codes start with A-I.
	CategoryShortLink Category = iota
	// CategoryUnauthQR codes start with J-Q.
	CategoryUnauthQR
	// CategoryAuthQR codes start with R-Z.
	CategoryAuthQR
)

const (
	codeBodyLength = 5
	codeAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var categoryPrefixes = map[Category]string{
	CategoryShortLink: "ABCDEFGHI",
	CategoryUnauthQR:  "JKLMNOPQ",
	CategoryAuthQR:    "RSTUVWXYZ",
}

// Generator produces category-prefixed short codes: one prefix letter with
// randomized case followed by a 5-character alphanumeric body. It does not
// check uniqueness; callers verify against their table and regenerate.
type Generator struct {
	body func() string
}

// NewGenerator creates a code generator.
func NewGenerator() (*Generator, error) {
	body, err := nanoid.CustomASCII(codeAlphabet, codeBodyLength)
	if err != nil {
		return nil, err
	}

	return &Generator{body: body}, nil
}

// Generate returns a fresh 6-character code for the category.
func (g *Generator) Generate(category Category) string {
	prefixes := categoryPrefixes[category]
	prefix := prefixes[rand.IntN(len(prefixes))]

	if rand.IntN(2) == 1 {
		prefix += 'a' - 'A'
	}

	return string(prefix) + g.body()
}
