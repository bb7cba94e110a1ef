package culler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"gotest.tools/v3/assert"

	"github.com/nikbrunner/vidlib/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func thumbServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/gone.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/broken.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/gethonly.jpg", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Client().CloseIdleConnections()
		srv.Close()
	})
	return srv
}

func TestCheckThumbnails(t *testing.T) {
	srv := thumbServer(t)

	videos := []model.Video{
		{ID: "1", Title: "ok", ThumbnailURL: srv.URL + "/ok.jpg"},
		{ID: "2", Title: "missing", ThumbnailURL: srv.URL + "/missing.jpg"},
		{ID: "3", Title: "gone", ThumbnailURL: srv.URL + "/gone.jpg"},
		{ID: "4", Title: "broken", ThumbnailURL: srv.URL + "/broken.jpg"},
		{ID: "5", Title: "none", ThumbnailURL: ""},
		{ID: "6", Title: "head not allowed", ThumbnailURL: srv.URL + "/gethonly.jpg"},
	}

	var calls atomic.Int32
	results := CheckThumbnails(context.Background(), videos, Options{
		Concurrency: 3,
		Timeout:     5 * time.Second,
		Client:      srv.Client(),
		OnProgress:  func(completed, total int) { calls.Add(1) },
	})

	assert.Equal(t, len(results), len(videos))
	want := []Status{Healthy, Dead, Dead, Unreachable, Placeholder, Healthy}
	for i, r := range results {
		assert.Equal(t, r.Video.ID, videos[i].ID, "results must keep input order")
		assert.Equal(t, r.Status, want[i], "video %s", r.Video.ID)
	}
	assert.Equal(t, results[3].Error, "Internal Server Error")
	assert.Equal(t, results[4].StatusCode, 0)
	assert.Equal(t, int(calls.Load()), len(videos))
}

func TestCheckThumbnails_Empty(t *testing.T) {
	assert.Assert(t, CheckThumbnails(context.Background(), nil, Options{}) == nil)
}

func TestCheckThumbnails_ExcludedDomain(t *testing.T) {
	srv := thumbServer(t)

	videos := []model.Video{{ID: "1", ThumbnailURL: srv.URL + "/missing.jpg"}}
	results := CheckThumbnails(context.Background(), videos, Options{
		Concurrency:    1,
		Client:         srv.Client(),
		ExcludeDomains: []string{"127.0.0.1"},
	})

	assert.Equal(t, results[0].Status, Unreachable)
	assert.Equal(t, results[0].Error, "Possibly private (auth required)")
}

func TestCheckThumbnails_CanceledContext(t *testing.T) {
	srv := thumbServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	videos := []model.Video{{ID: "1", ThumbnailURL: srv.URL + "/ok.jpg"}}
	results := CheckThumbnails(ctx, videos, Options{Concurrency: 1, Client: srv.Client()})

	assert.Equal(t, results[0].Status, Unreachable)
	assert.Equal(t, results[0].Error, "Canceled")
}

func TestGroup(t *testing.T) {
	results := []Result{
		{Video: &model.Video{ID: "a"}, Status: Healthy},
		{Video: &model.Video{ID: "b"}, Status: Dead},
		{Video: &model.Video{ID: "c"}, Status: Healthy},
	}

	groups := Group(results)
	assert.Equal(t, len(groups[Healthy]), 2)
	assert.Equal(t, groups[Healthy][1].Video.ID, "c")
	assert.Equal(t, len(groups[Dead]), 1)
	assert.Equal(t, len(groups[Placeholder]), 0)
}

func TestIsExcludedDomain(t *testing.T) {
	exclude := map[string]bool{"cdn.example.com": true, "private.org": true}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/a.jpg", true},
		{"https://img.private.org/a.jpg", true},
		{"https://private.org:8443/a.jpg", true},
		{"https://example.com/a.jpg", false},
		{"https://notprivate.org/a.jpg", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, isExcludedDomain(tt.url, exclude), tt.want)
		})
	}
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dial tcp: lookup nope.invalid: no such host", "DNS failure"},
		{"Get \"x\": context deadline exceeded", "Timeout"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "Connection refused"},
		{"x509: certificate signed by unknown authority", "TLS error"},
		{"unsupported protocol scheme \"ftp\"", "Unsupported scheme"},
		{"something else", "something else"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, normalizeError(tt.in), tt.want)
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, Placeholder.String(), "placeholder")
	assert.Equal(t, Dead.String(), "dead")
}
