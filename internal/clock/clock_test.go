package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/la2go-combat/internal/model"
)

func TestSystem_Monotonic(t *testing.T) {
	c := NewSystem()

	first := c.Now()
	time.Sleep(5 * time.Millisecond)
	second := c.Now()

	assert.GreaterOrEqual(t, first, model.Timestamp(0))
	assert.GreaterOrEqual(t, second-first, model.Timestamp(5))
}

func TestManual(t *testing.T) {
	c := NewManual(1000)
	assert.Equal(t, model.Timestamp(1000), c.Now())

	assert.Equal(t, model.Timestamp(1500), c.Advance(500*time.Millisecond))
	assert.Equal(t, model.Timestamp(1500), c.Now())

	c.Set(42)
	assert.Equal(t, model.Timestamp(42), c.Now())
}

func TestManual_ImplementsClock(t *testing.T) {
	var _ Clock = NewManual(0)
	var _ Clock = NewSystem()
}
