package app

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the CPU time of named frame phases and per-frame counters.
type Profiler struct {
	scopes map[string]time.Duration
	starts map[string]time.Time
	counts map[string]int
	order  []string
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		scopes: make(map[string]time.Duration),
		starts: make(map[string]time.Time),
		counts: make(map[string]int),
		now:    time.Now,
	}
}

func (p *Profiler) Begin(name string) {
	p.starts[name] = p.now()
	if !slices.Contains(p.order, name) {
		p.order = append(p.order, name)
	}
}

func (p *Profiler) End(name string) {
	if start, ok := p.starts[name]; ok {
		p.scopes[name] = p.now().Sub(start)
		delete(p.starts, name)
	}
}

func (p *Profiler) Count(name string, n int) {
	p.counts[name] = n
}

func (p *Profiler) Duration(name string) time.Duration {
	return p.scopes[name]
}

// Report lists scopes in first-use order, then counters by name.
func (p *Profiler) Report() string {
	var sb strings.Builder
	for _, name := range p.order {
		fmt.Fprintf(&sb, "%s=%.2fms ", name, float64(p.scopes[name].Microseconds())/1000)
	}
	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%d ", k, p.counts[k])
	}
	return strings.TrimSpace(sb.String())
}
