package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Format(t *testing.T) {
	v := UUID{}.New("brand")
	require.True(t, strings.HasPrefix(v, "brand-"))
	_, err := uuid.Parse(strings.TrimPrefix(v, "brand-"))
	assert.NoError(t, err)
}

func TestNanoID_Format(t *testing.T) {
	v := NanoID{}.New("deal")
	require.True(t, strings.HasPrefix(v, "deal-"))
	assert.Len(t, strings.TrimPrefix(v, "deal-"), 21)
}

func TestGenerators_Uniqueness(t *testing.T) {
	for _, g := range []Generator{UUID{}, NanoID{}} {
		seen := make(map[string]bool, 1000)
		for i := 0; i < 1000; i++ {
			v := g.New("x")
			assert.False(t, seen[v], "duplicate id %s", v)
			seen[v] = true
		}
	}
}

func TestForStrategy(t *testing.T) {
	g, err := ForStrategy("")
	require.NoError(t, err)
	assert.IsType(t, UUID{}, g)

	g, err = ForStrategy("NanoID")
	require.NoError(t, err)
	assert.IsType(t, NanoID{}, g)

	_, err = ForStrategy("snowflake")
	assert.Error(t, err)
}

func TestSequence_SharedCounter(t *testing.T) {
	var s Sequence
	assert.Equal(t, "brand-1", s.New("brand"))
	assert.Equal(t, "menu-2", s.New("menu"))
	assert.Equal(t, "brand-3", s.New("brand"))
}

func TestSequence_Concurrent(t *testing.T) {
	var s Sequence
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := s.New("b")
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}

func TestFunc_Adapter(t *testing.T) {
	g := Func(func(p string) string { return p + "-fixed" })
	assert.Equal(t, "hours-fixed", g.New("hours"))
}
