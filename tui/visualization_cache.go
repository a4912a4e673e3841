package tui

import (
	"sync"
)

// VisualizationCache holds rendered bucket views keyed by pass index.
// Rendering a pass walks all 256 buckets, switching back and forth
// between passes should not repeat that.
type VisualizationCache struct {
	rendered map[int]string
	hits     int
	misses   int

	mu sync.RWMutex
}

// NewVisualizationCache creates a new visualization cache
func NewVisualizationCache() *VisualizationCache {
	return &VisualizationCache{
		rendered: make(map[int]string),
	}
}

// Get returns the rendered text of pass, rendering it with render on a miss
func (vc *VisualizationCache) Get(pass int, render func() string) string {
	vc.mu.RLock()
	text, ok := vc.rendered[pass]
	vc.mu.RUnlock()
	if ok {
		vc.mu.Lock()
		vc.hits++
		vc.mu.Unlock()
		return text
	}

	text = render()

	vc.mu.Lock()
	vc.rendered[pass] = text
	vc.misses++
	vc.mu.Unlock()
	return text
}

// Clear drops all rendered passes
func (vc *VisualizationCache) Clear() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.rendered = make(map[int]string)
}

// GetCacheSize returns the number of cached passes
func (vc *VisualizationCache) GetCacheSize() int {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return len(vc.rendered)
}

// Stats returns cache hits and misses
func (vc *VisualizationCache) Stats() (hits, misses int) {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.hits, vc.misses
}
