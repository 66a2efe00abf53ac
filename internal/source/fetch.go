package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/http/httptrace"
	"os"
	"sync/atomic"
	"time"

	"github.com/codalotl/filediff/internal/diff"
)

// Options configure a Fetcher.
type Options struct {
	// ConnectTimeout bounds establishing a connection (including the TLS handshake) to a remote reference. Zero means no timeout.
	ConnectTimeout time.Duration

	// ReadTimeout bounds waiting for response headers, and every individual read of the response body. Zero means no timeout.
	ReadTimeout time.Duration

	// RemoveEmptyLines drops lines that are empty after trimming whitespace.
	RemoveEmptyLines bool
}

// Provider resolves a Ref into lines.
type Provider interface {
	Lines(ctx context.Context, ref Ref) (diff.Lines, error)
}

// Fetcher is the default Provider. It reads local files and fetches http(s) URIs. A Fetcher is safe for concurrent use.
type Fetcher struct {
	opts   Options
	client *http.Client
}

// New returns a Fetcher configured by opts.
func New(opts Options) *Fetcher {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
		MaxIdleConnsPerHost:   4,
	}
	return &Fetcher{opts: opts, client: &http.Client{Transport: transport}}
}

// Lines implements Provider.
func (f *Fetcher) Lines(ctx context.Context, ref Ref) (diff.Lines, error) {
	var (
		lines diff.Lines
		err   error
	)
	switch ref.Kind {
	case RefLocal, RefFile:
		lines, err = f.readLocal(ref)
	case RefHTTP:
		lines, err = f.readRemote(ctx, ref)
	default:
		return nil, &UnsupportedReferenceError{Raw: ref.Raw}
	}
	if err != nil {
		return nil, err
	}
	if f.opts.RemoveEmptyLines {
		lines = FilterBlank(lines)
	}
	return lines, nil
}

func (f *Fetcher) readLocal(ref Ref) (diff.Lines, error) {
	file, err := os.Open(ref.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Ref: ref.Path}
		}
		return nil, fmt.Errorf("open %s: %w", ref.Path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", ref.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", ref.Path)
	}

	lines, err := ReadLines(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref.Path, err)
	}
	return lines, nil
}

func (f *Fetcher) readRemote(ctx context.Context, ref Ref) (diff.Lines, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var connected atomic.Bool
	ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		GotConn: func(httptrace.GotConnInfo) { connected.Store(true) },
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, &UnsupportedReferenceError{Raw: ref.Raw, Reason: err.Error()}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ref, err, connected.Load())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, &NotFoundError{Ref: ref.URL}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &UnreachableError{Ref: ref.URL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body := newDeadlineReader(resp.Body, f.opts.ReadTimeout, cancel)
	defer body.stop()

	lines, err := ReadLines(body)
	if err != nil {
		if body.expired() {
			return nil, &TimeoutError{Ref: ref.URL, Phase: "read", Err: err}
		}
		return nil, classifyTransportError(ref, err, true)
	}
	return lines, nil
}

// classifyTransportError maps an error from the HTTP client to a TimeoutError or UnreachableError. A timeout before a connection was obtained (dialing or the TLS
// handshake) is a connect timeout; any later timeout is a read timeout.
func classifyTransportError(ref Ref, err error, connected bool) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		phase := "read"
		if !connected {
			phase = "connect"
		}
		return &TimeoutError{Ref: ref.URL, Phase: phase, Err: err}
	}
	return &UnreachableError{Ref: ref.URL, Err: err}
}

// deadlineReader cancels a request if any single Read takes longer than timeout.
type deadlineReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
	fired   atomic.Bool
}

func newDeadlineReader(r io.Reader, timeout time.Duration, cancel context.CancelFunc) *deadlineReader {
	dr := &deadlineReader{r: r, timeout: timeout}
	if timeout > 0 {
		dr.timer = time.AfterFunc(timeout, func() {
			dr.fired.Store(true)
			cancel()
		})
	}
	return dr
}

func (dr *deadlineReader) Read(p []byte) (int, error) {
	if dr.timer != nil {
		dr.timer.Reset(dr.timeout)
	}
	n, err := dr.r.Read(p)
	if dr.timer != nil && !dr.fired.Load() {
		dr.timer.Stop()
	}
	return n, err
}

func (dr *deadlineReader) expired() bool {
	return dr.fired.Load()
}

func (dr *deadlineReader) stop() {
	if dr.timer != nil {
		dr.timer.Stop()
	}
}
