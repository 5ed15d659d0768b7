package playback

import "sync"

// Carousel tracks the visible page of an image carousel nested inside a feed
// item. It is deliberately local: the outer feed's Tracker decides which item
// is active, the carousel only remembers which image that item shows.
type Carousel struct {
	mu    sync.Mutex
	index int
	count int
}

func NewCarousel(count int) *Carousel {
	if count < 0 {
		count = 0
	}
	return &Carousel{count: count}
}

// ViewableChanged ingests the visible page indices, first wins.
func (c *Carousel) ViewableChanged(indices []int) {
	if len(indices) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if indices[0] >= 0 && indices[0] < c.count {
		c.index = indices[0]
	}
}

// Next advances one page, clamped to the last image.
func (c *Carousel) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index < c.count-1 {
		c.index++
	}
	return c.index
}

// Prev goes back one page, clamped to the first image.
func (c *Carousel) Prev() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index > 0 {
		c.index--
	}
	return c.index
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
