// Package facts supplies the trivia shown while a gallery is loading.
package facts

import (
	"math/rand"
	"sync"
	"time"
)

var defaultFacts = []string{
	"A day on Venus is longer than a year on Venus.",
	"The universe is about 13.8 billion years old!",
	"NASA's spacesuits would have cost $150 million if they were made today.",
	"The footprints on the Moon will last for millions of years because there is no wind!",
	"The Milky Way and the Andromeda Galaxy will collide in 3.75 billion years.",
}

// Provider returns random entries from a fixed list of facts.
type Provider struct {
	facts []string
	rnd   *rand.Rand
	mu    sync.Mutex
}

// New creates a Provider over facts using rnd; a nil rnd is seeded from the clock.
func New(facts []string, rnd *rand.Rand) *Provider {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	list := make([]string, len(facts))
	copy(list, facts)
	return &Provider{facts: list, rnd: rnd}
}

// Default creates a Provider over the built-in space facts.
func Default() *Provider {
	return New(defaultFacts, nil)
}

// Random returns one fact, or an empty string when the list is empty.
func (p *Provider) Random() string {
	if len(p.facts) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.facts[p.rnd.Intn(len(p.facts))]
}

// All returns a copy of the fact list.
func (p *Provider) All() []string {
	list := make([]string, len(p.facts))
	copy(list, p.facts)
	return list
}
