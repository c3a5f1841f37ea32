package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetch(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>settled</body></html>"))
	}))
	defer server.Close()

	client := NewClient(DefaultTimeout)
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if body != "<html><body>settled</body></html>" {
		t.Errorf("unexpected body: %q", body)
	}
	if gotUserAgent != UserAgent {
		t.Errorf("user agent = %q, expected %q", gotUserAgent, UserAgent)
	}
}

func TestClientFetchRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	client := NewClient(DefaultTimeout)
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed after retries: %v", err)
	}
	if body != "recovered" {
		t.Errorf("unexpected body: %q", body)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestClientFetchDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(DefaultTimeout)
	if _, err := client.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for a 404, got %d", attempts)
	}
}

func TestPacerJitterBounds(t *testing.T) {
	p := NewPacer(2*time.Second, 4*time.Second)

	var slept []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	for i := 0; i < 50; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}

	for _, d := range slept {
		if d < 2*time.Second || d > 4*time.Second {
			t.Errorf("delay %v outside [2s, 4s]", d)
		}
	}
}

func TestPacerZeroNeverSleeps(t *testing.T) {
	p := NewPacer(0, 0)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		t.Errorf("zero pacer slept for %v", d)
		return nil
	}

	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
}

func TestPacerHonorsCancellation(t *testing.T) {
	p := NewPacer(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Wait(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled Wait took %v", elapsed)
	}
}
