package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfiler(t *testing.T) {
	p := NewProfiler()
	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }

	p.Begin("update")
	clock = clock.Add(1500 * time.Microsecond)
	p.End("update")
	p.Begin("render")
	clock = clock.Add(250 * time.Microsecond)
	p.End("render")
	p.End("never-started")
	p.Count("spots", 10)
	p.Count("draws", 2)

	assert.Equal(t, 1500*time.Microsecond, p.Duration("update"))
	assert.Equal(t, "update=1.50ms render=0.25ms draws=2 spots=10", p.Report())

	p.Begin("update")
	clock = clock.Add(time.Millisecond)
	p.End("update")
	assert.Equal(t, "update=1.00ms render=0.25ms draws=2 spots=10", p.Report())
}
