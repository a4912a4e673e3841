package tui

import (
	"strings"
	"sync"
	"testing"

	"github.com/ChristianF88/lsdsort/radix"
)

func TestVisualizationCacheBasic(t *testing.T) {
	cache := NewVisualizationCache()

	if cache.GetCacheSize() != 0 {
		t.Error("New cache should be empty")
	}

	renders := 0
	render := func() string {
		renders++
		return "pass zero"
	}

	if got := cache.Get(0, render); got != "pass zero" {
		t.Errorf("Get() = %q", got)
	}
	if got := cache.Get(0, render); got != "pass zero" {
		t.Errorf("Get() = %q", got)
	}
	if renders != 1 {
		t.Errorf("render called %d times, want 1", renders)
	}

	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses", hits, misses)
	}

	cache.Clear()
	if cache.GetCacheSize() != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestVisualizationCacheConcurrent(t *testing.T) {
	cache := NewVisualizationCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(pass int) {
			defer wg.Done()
			cache.Get(pass%4, func() string { return "x" })
		}(i)
	}
	wg.Wait()

	if cache.GetCacheSize() != 4 {
		t.Errorf("GetCacheSize() = %d, want 4", cache.GetCacheSize())
	}
}

func TestVisualizationViewPasses(t *testing.T) {
	a := &App{}
	v := a.NewVisualizationView()

	if v.TotalPasses() != 0 {
		t.Errorf("TotalPasses() = %d, want 0", v.TotalPasses())
	}
	if !strings.Contains(v.renderText(), "No histograms") {
		t.Error("empty view should say so")
	}

	v.SetHistograms(radix.Histograms([]int16{-1, 0, 1, 257}))
	if v.TotalPasses() != 2 {
		t.Fatalf("TotalPasses() = %d, want 2", v.TotalPasses())
	}

	text := v.renderText()
	if !strings.Contains(text, "Pass 0") || !strings.Contains(text, "occupied 3/256") {
		t.Errorf("unexpected render for pass 0:\n%s", text)
	}

	v.NextPass()
	if v.CurrentPass() != 1 {
		t.Errorf("CurrentPass() = %d, want 1", v.CurrentPass())
	}
	if !strings.Contains(v.renderText(), "Sign corrected") {
		t.Error("signed pass should mention sign correction")
	}

	v.NextPass()
	if v.CurrentPass() != 0 {
		t.Errorf("NextPass should wrap, got %d", v.CurrentPass())
	}
	v.PrevPass()
	if v.CurrentPass() != 1 {
		t.Errorf("PrevPass should wrap, got %d", v.CurrentPass())
	}
}

func TestGetBucketColorAndChar(t *testing.T) {
	if c, _ := getBucketColorAndChar(0); c != "black" {
		t.Errorf("empty bucket color = %s", c)
	}
	if c, _ := getBucketColorAndChar(1); c != "white" {
		t.Errorf("full bucket color = %s", c)
	}
	if c, _ := getBucketColorAndChar(0.01); c != "#202020" {
		t.Errorf("nearly empty bucket color = %s", c)
	}
}
