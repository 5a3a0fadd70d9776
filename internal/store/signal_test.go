package store

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_SetAndSubscribe(t *testing.T) {
	s := NewSignal(1)

	var seen []int
	unsubscribe := s.Subscribe(func(v int) { seen = append(seen, v) })

	s.Set(2)
	s.Update(func(v int) int { return v * 10 })
	assert.Equal(t, 20, s.Get())

	unsubscribe()
	s.Set(3)

	assert.Equal(t, []int{2, 20}, seen)
}

func TestComputed_RecomputesOnDependencyChange(t *testing.T) {
	words := NewSignal([]string{"Oro", "Classic", "Premium"})
	term := NewSignal("")

	filtered := Computed(func() []string {
		var out []string
		for _, w := range words.Get() {
			if strings.Contains(strings.ToLower(w), strings.ToLower(term.Get())) {
				out = append(out, w)
			}
		}
		return out
	}, words, term)
	count := Computed(func() int { return len(filtered.Get()) }, filtered)

	assert.Equal(t, 3, count.Get())

	term.Set("o")
	assert.Equal(t, []string{"Oro"}, filtered.Get())
	assert.Equal(t, 1, count.Get())

	words.Set(append(words.Get(), "Seguro"))
	assert.Equal(t, []string{"Oro", "Seguro"}, filtered.Get())
	assert.Equal(t, 2, count.Get())
}

func TestSignal_ConcurrentUpdates(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, s.Get())
}

func TestComputed_ConcurrentDependencyChanges(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	sum := Computed(func() int { return a.Get() + b.Get() }, a, b)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.Set(i)
		}()
		go func() {
			defer wg.Done()
			b.Set(i * 100)
		}()
	}
	wg.Wait()

	assert.Equal(t, a.Get()+b.Get(), sum.Get())
}
