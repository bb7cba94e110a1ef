package culler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/vidlib/internal/model"
)

// Status represents the health of a video thumbnail.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
	Placeholder               // no thumbnail URL, the card renders a placeholder
)

// String returns the group label for s.
func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	case Unreachable:
		return "unreachable"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Result holds the check result for a single video.
type Result struct {
	Video      *model.Video
	Status     Status
	StatusCode int    // HTTP status code (0 if no request was made)
	Error      string // reason for unreachable thumbnails
}

// ProgressFunc is called after each thumbnail is checked.
type ProgressFunc func(completed, total int)

// Options configures a thumbnail check run.
type Options struct {
	Concurrency    int
	Timeout        time.Duration
	ExcludeDomains []string // 404s on these hosts count as unreachable, not dead
	OnProgress     ProgressFunc
	Client         *http.Client
}

// CheckThumbnails checks every video's thumbnail URL with a bounded pool.
// Results are returned in input order. Canceling ctx marks pending checks unreachable.
func CheckThumbnails(ctx context.Context, videos []model.Video, opts Options) []Result {
	if len(videos) == 0 {
		return nil
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	exclude := make(map[string]bool, len(opts.ExcludeDomains))
	for _, domain := range opts.ExcludeDomains {
		exclude[strings.ToLower(domain)] = true
	}

	results := make([]Result, len(videos))

	var progressMu sync.Mutex
	completed := 0

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i := range videos {
		g.Go(func() error {
			results[i] = checkThumbnail(ctx, client, &videos[i], exclude)

			if opts.OnProgress != nil {
				progressMu.Lock()
				completed++
				opts.OnProgress(completed, len(videos))
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Group splits results by status, preserving order within each group.
func Group(results []Result) map[Status][]Result {
	groups := make(map[Status][]Result)
	for _, r := range results {
		groups[r.Status] = append(groups[r.Status], r)
	}
	return groups
}

func checkThumbnail(ctx context.Context, client *http.Client, video *model.Video, exclude map[string]bool) Result {
	result := Result{Video: video}

	if strings.TrimSpace(video.ThumbnailURL) == "" {
		result.Status = Placeholder
		return result
	}

	// HEAD first; some image hosts reject it, so fall back to GET.
	resp, err := do(ctx, client, http.MethodHead, video.ThumbnailURL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = do(ctx, client, http.MethodGet, video.ThumbnailURL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(video.ThumbnailURL, exclude) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain reports whether the URL's host or a parent domain is excluded.
func isExcludedDomain(rawURL string, exclude map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if exclude[host] {
		return true
	}
	for domain := range exclude {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError folds transport errors into short readable reasons.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "context canceled"):
		return "Canceled"
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "unsupported protocol scheme"):
		return "Unsupported scheme"
	case strings.Contains(lower, "certificate"), strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
