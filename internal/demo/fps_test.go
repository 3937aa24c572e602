package demo

import (
	"math"
	"testing"
	"time"
)

func TestFPSCounterNeedsFullWindow(t *testing.T) {
	var c FPSCounter
	start := time.Unix(0, 0)

	for i := 0; i < fpsWindow-1; i++ {
		c.Update(start.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	if c.Rate() != 0 {
		t.Errorf("Expected no rate before the window is full, got %v", c.Rate())
	}
}

func TestFPSCounterSteadyRate(t *testing.T) {
	var c FPSCounter
	start := time.Unix(100, 0)
	frame := time.Second / 50

	for i := 0; i < 3*fpsWindow; i++ {
		c.Update(start.Add(time.Duration(i) * frame))
	}
	if math.Abs(c.Rate()-50) > 1e-9 {
		t.Errorf("Expected 50 fps, got %v", c.Rate())
	}
}
