package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"liars_dice/internal/domain"
)

// Roller produces a fresh hand of n dice.
type Roller interface {
	Roll(n int) domain.Hand
}

// RollerFunc adapts a function to Roller.
type RollerFunc func(n int) domain.Hand

func (f RollerFunc) Roll(n int) domain.Hand { return f(n) }

// RandRoller rolls fair dice from a math/rand source.
type RandRoller struct {
	rng *rand.Rand
}

func NewRandRoller(rng *rand.Rand) *RandRoller {
	return &RandRoller{rng: rng}
}

func (r *RandRoller) Roll(n int) domain.Hand {
	hand := make(domain.Hand, n)
	for i := range hand {
		hand[i] = r.rng.Intn(domain.DiceSides) + 1
	}
	return hand
}

// NewRand returns a *rand.Rand seeded from crypto/rand. If the system
// source is unavailable it falls back to the clock.
func NewRand() *rand.Rand {
	var b [8]byte
	seed := time.Now().UnixNano()
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return rand.New(rand.NewSource(seed))
}
