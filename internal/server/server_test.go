package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

// fixedClock pins the time used for DTSTAMP and Last-Modified.
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T) (*FeedServer, *fixedClock) {
	t.Helper()
	clock := &fixedClock{t: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)}
	srv := NewFeedServer("0") // Port irrelevant for handler tests
	srv.Clock = clock
	return srv, clock
}

func serve(srv *FeedServer, method, path string, header http.Header) *http.Response {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w.Result()
}

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func TestHandler_ServingContent(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Publish(engine.NewEventSet(day(2024, time.March, 20))))

	for _, path := range []string{config.RouteRoot, config.RouteFeed} {
		resp := serve(srv, http.MethodGet, path, nil)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
		assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
		assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
		assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
		assert.Equal(t, "Fri, 01 Mar 2024 09:00:00 GMT", resp.Header.Get(config.HeaderLastModified))
		assert.Contains(t, string(body), "DTSTART;VALUE=DATE:20240320")
	}
	assert.Equal(t, 1, srv.Marked())
}

func TestHandler_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Publish(engine.NewEventSet()))

	resp := serve(srv, http.MethodGet, "/other.ics", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_Head(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Publish(engine.NewEventSet()))

	resp := serve(srv, http.MethodHead, config.RouteFeed, nil)
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fmt.Sprint(len(config.StubVCalendar)), resp.Header.Get(config.HeaderContentLength))
	assert.Empty(t, body)
}

// TestHandler_Caching verifies that the server respects ETag headers (If-None-Match)
// and returns 304 Not Modified to save bandwidth.
func TestHandler_Caching(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Publish(engine.NewEventSet(day(2024, time.March, 20))))

	resp1 := serve(srv, http.MethodGet, config.RouteRoot, nil)
	_ = resp1.Body.Close()
	etag := resp1.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	resp2 := serve(srv, http.MethodGet, config.RouteRoot, http.Header{config.HeaderIfNoneMatch: {etag}})
	defer func() { _ = resp2.Body.Close() }()
	body, _ := io.ReadAll(resp2.Body)

	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	resp3 := serve(srv, http.MethodGet, config.RouteRoot, http.Header{config.HeaderIfNoneMatch: {`"stale"`}})
	defer func() { _ = resp3.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestHandler_IfModifiedSince(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Publish(engine.NewEventSet()))

	later := "Sat, 02 Mar 2024 00:00:00 GMT"
	earlier := "Thu, 29 Feb 2024 00:00:00 GMT"

	resp := serve(srv, http.MethodGet, config.RouteRoot, http.Header{config.HeaderIfModifiedSince: {later}})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp = serve(srv, http.MethodGet, config.RouteRoot, http.Header{config.HeaderIfModifiedSince: {earlier}})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestPublish_StableETag republishes the same days later: the export differs
// only by DTSTAMP, so clients keep their cache.
func TestPublish_StableETag(t *testing.T) {
	srv, clock := newTestServer(t)
	events := engine.NewEventSet(day(2024, time.March, 20))
	require.NoError(t, srv.Publish(events))
	first := srv.feed.Load()

	clock.t = clock.t.Add(time.Hour)
	require.NoError(t, srv.Publish(events))
	assert.Same(t, first, srv.feed.Load())

	require.NoError(t, srv.Publish(events.With(day(2024, time.March, 21))))
	second := srv.feed.Load()
	assert.NotEqual(t, first.etag, second.etag)
	assert.Equal(t, "Fri, 01 Mar 2024 10:00:00 GMT", second.lastModified)
	assert.Equal(t, 2, srv.Marked())
}

func TestPublish_SameDaysNewCount(t *testing.T) {
	srv, clock := newTestServer(t)
	events := engine.NewEventSet(day(2024, time.March, 20))
	require.NoError(t, srv.Publish(events))
	first := srv.feed.Load()

	// A second instant on the same day exports the same VEVENT.
	clock.t = clock.t.Add(time.Hour)
	require.NoError(t, srv.Publish(events.With(time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC))))

	snap := srv.feed.Load()
	assert.Equal(t, first.etag, snap.etag)
	assert.Equal(t, first.lastModified, snap.lastModified)
	assert.Equal(t, 2, srv.Marked())
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := serve(srv, http.MethodPost, config.RouteRoot, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

// TestHandler_Initializing verifies the 503 behavior when nothing was published yet.
func TestHandler_Initializing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := serve(srv, http.MethodGet, config.RouteRoot, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
	assert.Equal(t, 0, srv.Marked())
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition runs publishers and readers concurrently.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewFeedServer("0")
	handler := srv.Handler()
	var wg sync.WaitGroup

	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				events := engine.NewEventSet(day(2024, time.March, 1).AddDate(0, 0, id*31+i%28))
				assert.NoError(t, srv.Publish(events))
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 10; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

func TestServer_PortRequired(t *testing.T) {
	srv := NewFeedServer("")
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}

// TestServer_Lifecycle spins up the actual TCP listener to verify network binding
// and graceful shutdown logic.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := NewFeedServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + port + config.RouteFeed

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, srv.Publish(engine.NewEventSet(day(2024, time.March, 20))))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}
