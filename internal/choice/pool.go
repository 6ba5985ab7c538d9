// internal/choice/pool.go
//
// Pool is the set of known comic titles that distractors are drawn from.
// It only grows. Concurrency-safe via RWMutex (handlers add titles from every
// catalog page they observe).

package choice

import (
	"sort"
	"strings"
	"sync"
)

// Pool is a concurrency-safe set of titles.
type Pool struct {
	mu     sync.RWMutex
	titles map[string]struct{}
}

// NewPool returns a pool seeded with titles.
func NewPool(titles ...string) *Pool {
	p := &Pool{titles: make(map[string]struct{})}
	p.Add(titles...)
	return p
}

// Add inserts titles, ignoring blanks and repeats. Returns how many were new.
func (p *Pool) Add(titles ...string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	added := 0
	for _, t := range titles {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if _, ok := p.titles[t]; ok {
			continue
		}
		p.titles[t] = struct{}{}
		added++
	}
	return added
}

// Len is the number of titles in the pool.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.titles)
}

// Titles returns a sorted snapshot, so seeded option building is repeatable.
func (p *Pool) Titles() []string {
	p.mu.RLock()
	out := make([]string, 0, len(p.titles))
	for t := range p.titles {
		out = append(out, t)
	}
	p.mu.RUnlock()
	sort.Strings(out)
	return out
}
