// Package id generates prefixed identifiers for brands and their children.
package id

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator produces unique identifiers of the form "prefix-<random>".
type Generator interface {
	New(prefix string) string
}

// Func adapts a plain function to Generator.
type Func func(prefix string) string

// New calls f.
func (f Func) New(prefix string) string { return f(prefix) }

// UUID generates "prefix-<uuid v4>".
type UUID struct{}

// New returns a prefixed random UUID.
func (UUID) New(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NanoID generates "prefix-<21 char nanoid>", URL-safe and shorter than a UUID.
type NanoID struct{}

// New returns a prefixed NanoID. It panics only when the system entropy
// source fails.
func (NanoID) New(prefix string) string {
	v, err := gonanoid.New()
	if err != nil {
		panic(fmt.Sprintf("generate nanoid: %v", err))
	}
	return prefix + "-" + v
}

// Strategy names accepted by ForStrategy.
const (
	StrategyUUID   = "uuid"
	StrategyNanoID = "nanoid"
)

// ForStrategy returns the generator for a configured strategy name.
func ForStrategy(name string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyUUID:
		return UUID{}, nil
	case StrategyNanoID:
		return NanoID{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", name)
	}
}

// Sequence yields "prefix-1", "prefix-2", ... sharing one counter across
// prefixes. Safe for concurrent use; intended for tests and fixtures.
type Sequence struct {
	mu sync.Mutex
	n  int
}

// New returns the next id in the sequence.
func (s *Sequence) New(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
