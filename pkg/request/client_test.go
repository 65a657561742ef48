package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGet_Success(t *testing.T) {
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("expected a User-Agent header")
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`[{"id":"madrid"}]`)); err != nil {
			t.Logf("Write failed: %v", err)
		}
	}))
	defer svr.Close()

	c := New()
	body, err := c.Get(context.Background(), svr.URL+"/data/cities.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `[{"id":"madrid"}]` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestGet_NotFoundNoRetry(t *testing.T) {
	var calls int32
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer svr.Close()

	c := New(WithBackoff(time.Millisecond))
	_, err := c.Get(context.Background(), svr.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected StatusError 404, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("404 must not be retried, got %d calls", n)
	}
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls int32
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			t.Logf("Write failed: %v", err)
		}
	}))
	defer svr.Close()

	c := New(WithBackoff(time.Millisecond))
	body, err := c.Get(context.Background(), svr.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("unexpected body: %s", body)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestGet_ExhaustsRetries(t *testing.T) {
	var calls int32
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer svr.Close()

	c := New(WithRetries(2), WithBackoff(time.Millisecond))
	_, err := c.Get(context.Background(), svr.URL)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !IsStatus(err, http.StatusServiceUnavailable) {
		t.Errorf("expected wrapped StatusError 503, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestWithRetriesIgnoresNonPositive(t *testing.T) {
	if c := New(WithRetries(0)); c.retries != 3 {
		t.Errorf("WithRetries(0) should keep the default, got %d", c.retries)
	}
	if c := New(WithRetries(-1)); c.retries != 3 {
		t.Errorf("WithRetries(-1) should keep the default, got %d", c.retries)
	}
	if c := New(WithRetries(1)); c.retries != 1 {
		t.Errorf("WithRetries(1) should mean a single attempt, got %d", c.retries)
	}
}

func TestGet_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer svr.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := New()
	_, err := c.Get(ctx, svr.URL)
	if err == nil {
		t.Fatal("expected context error")
	}
}
