package shortener

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Alphabet is the base-62 symbol set short codes are drawn from.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generator produces candidate short codes. A generator makes no uniqueness
// guarantee; the shortening service enforces uniqueness with its reservation
// loop against the primary key.
type Generator interface {
	Next() string
}

type randomGenerator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	length int
}

// NewRandomGenerator returns a Generator drawing codes of the given length from
// a non-cryptographic source seeded once. Codes are opaque identifiers, not
// capabilities, so crypto randomness is not needed.
func NewRandomGenerator(length int) Generator {
	return &randomGenerator{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		length: length,
	}
}

func (g *randomGenerator) Next() string {
	var sb strings.Builder
	sb.Grow(g.length)

	g.mu.Lock()
	for i := 0; i < g.length; i++ {
		sb.WriteByte(Alphabet[g.rng.Intn(len(Alphabet))])
	}
	g.mu.Unlock()

	return sb.String()
}
