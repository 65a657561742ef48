package cache

import (
	"sync"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	s := New[string](time.Minute)

	s.Set("k", "v")
	got, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}

	if _, ok := s.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestEmptyValueIsAHit(t *testing.T) {
	// A cached empty slice must be distinguishable from a miss.
	s := New[[]int](time.Minute)
	s.Set("empty", []int{})

	got, ok := s.Get("empty")
	if !ok {
		t.Fatal("cached empty slice must be a hit")
	}
	if len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestTTLExpiry(t *testing.T) {
	s := New[string](time.Minute)
	s.SetTTL("k", "v", 10*time.Millisecond)

	if _, ok := s.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Fatal("expected miss after expiry")
	}
	// The read that discovered the expiry also evicted the entry.
	if s.Len() != 0 {
		t.Errorf("expected 0 entries after lazy eviction, got %d", s.Len())
	}
}

func TestClearAndFlush(t *testing.T) {
	s := New[int](time.Minute)
	s.Set("a", 1)
	s.Set("b", 2)

	s.Clear("a")
	if _, ok := s.Get("a"); ok {
		t.Error("cleared key should miss")
	}
	if _, ok := s.Get("b"); !ok {
		t.Error("other keys must survive Clear")
	}

	s.Flush()
	if s.Len() != 0 {
		t.Errorf("expected empty store after Flush, got %d", s.Len())
	}
}

func TestDefaultTTLFallback(t *testing.T) {
	s := New[int](0)
	if s.ttl != DefaultTTL {
		t.Errorf("expected DefaultTTL fallback, got %v", s.ttl)
	}
}

func TestConcurrentReaders(t *testing.T) {
	s := New[int](time.Minute)
	s.Set("k", 42)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, ok := s.Get("k"); !ok || v != 42 {
				t.Errorf("got (%d, %v)", v, ok)
			}
		}()
	}
	wg.Wait()
}
