package demo

import "time"

// fpsWindow is the number of frames the frame rate is averaged over.
const fpsWindow = 100

// FPSCounter averages the frame rate over the last fpsWindow frames.
type FPSCounter struct {
	frameTimes [fpsWindow]time.Time
	next       int
	filled     bool
	rate       float64
}

// Update records a frame at now.
func (c *FPSCounter) Update(now time.Time) {
	oldest := c.frameTimes[c.next]
	c.frameTimes[c.next] = now
	c.next = (c.next + 1) % fpsWindow

	if c.next == 0 {
		c.filled = true
	}

	if c.filled {
		perFrame := now.Sub(oldest) / fpsWindow
		if perFrame > 0 {
			c.rate = float64(time.Second) / float64(perFrame)
		}
	}
}

// Rate returns frames per second, or 0 until a full window was recorded.
func (c *FPSCounter) Rate() float64 {
	return c.rate
}
