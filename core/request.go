package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"sync/atomic"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
)

// ErrRequestFailed is matched (via errors.Is) by every *RequestError.
var ErrRequestFailed = errors.NewPlain("request failed")

// ErrReadTimeout is the underlying cause when a response body stalls for longer than
// the configured read timeout.
var ErrReadTimeout = errors.NewPlain("read timeout exceeded")

// RequestError describes an HTTP request that either could not be completed or
// completed with a status code of 400 or above.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to '%s' failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to '%s' returned HTTP %d", e.URL, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// NewHTTPClient returns a client honouring the connect and read timeouts in s.
// Redirects are followed using the standard client policy.
func NewHTTPClient(s Settings) *http.Client {
	dialer := &net.Dialer{
		Timeout:   s.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			TLSHandshakeTimeout:   s.ConnectTimeout,
			ResponseHeaderTimeout: s.ReadTimeout,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// Fetcher performs blocking GET requests and returns whole response bodies.
type Fetcher struct {
	// Client is exported so tests can swap the transport.
	Client *http.Client

	settings  Settings
	progress  ProgressReporter
	chunkSize int
}

type FetcherOption func(f *Fetcher)

// WithProgress reports body download progress to r.
func WithProgress(r ProgressReporter) FetcherOption {
	return func(f *Fetcher) {
		f.progress = r
	}
}

// WithChunkSize sets the size of each read from a response body.
func WithChunkSize(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.chunkSize = n
		}
	}
}

func NewFetcher(s Settings, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		Client:    NewHTTPClient(s),
		settings:  s,
		progress:  NoProgress{},
		chunkSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Settings returns the settings the fetcher was created with.
func (f *Fetcher) Settings() Settings {
	return f.settings
}

// Fetch downloads url and returns the full body. Values in header replace the
// defaults (User-Agent and Accept) of the same name.
func (f *Fetcher) Fetch(ctx context.Context, url string, header http.Header) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.settings.UserAgent)
	req.Header.Set("Accept", "*/*")
	for k, values := range header {
		req.Header.Del(k)
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	res, err := f.Client.Do(req)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, &RequestError{URL: url, StatusCode: res.StatusCode}
	}

	body := newIdleTimeoutReader(res.Body, f.settings.ReadTimeout, cancel)
	defer body.Stop()

	data, err := f.readAll(body, res.ContentLength, path.Base(req.URL.Path))
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}

	log.WithFields(log.Fields{"url": url, "bytes": len(data)}).Debug("download finished")
	return data, nil
}

// maxPreallocate bounds how much of an announced Content-Length is reserved up
// front. Larger bodies grow the buffer as they arrive.
const maxPreallocate = 64 << 20

func (f *Fetcher) readAll(r io.Reader, contentLength int64, name string) ([]byte, error) {
	var buf bytes.Buffer
	var tracker ProgressTracker = noTracker{}
	if contentLength > 0 {
		buf.Grow(int(min(contentLength, maxPreallocate)))
		tracker = f.progress.Track(name, contentLength)
	}

	chunk := make([]byte, f.chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			tracker.IncrBy(n)
		}
		if err == io.EOF {
			tracker.Finish(true)
			return buf.Bytes(), nil
		}
		if err != nil {
			tracker.Finish(false)
			return nil, err
		}
	}
}

// idleTimeoutReader cancels the request when no read completes within timeout.
type idleTimeoutReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
	expired atomic.Bool
}

func newIdleTimeoutReader(r io.Reader, timeout time.Duration, cancel context.CancelFunc) *idleTimeoutReader {
	t := &idleTimeoutReader{r: r, timeout: timeout}
	if timeout > 0 {
		t.timer = time.AfterFunc(timeout, func() {
			t.expired.Store(true)
			cancel()
		})
	}
	return t
}

func (t *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if t.timer != nil {
		t.timer.Reset(t.timeout)
	}
	if err != nil && err != io.EOF && t.expired.Load() {
		err = ErrReadTimeout
	}
	return n, err
}

func (t *idleTimeoutReader) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}
