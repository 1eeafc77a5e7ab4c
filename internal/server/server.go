package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

// feedSnapshot stores the exported feed and its metadata for HTTP caching.
type feedSnapshot struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
	marked       int
}

// FeedServer publishes the marked days as a read-only iCalendar feed on the
// loopback interface.
type FeedServer struct {
	// feed uses atomic.Pointer for lock-free reads: the UI goroutine and
	// the reload worker publish while HTTP handlers read.
	feed  atomic.Pointer[feedSnapshot]
	Port  string
	Clock engine.Clock
}

// NewFeedServer creates a server for port. Nothing is served until the first
// Publish.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{
		Port:  port,
		Clock: engine.RealClock{},
	}
}

// Handler returns the HTTP handler serving the feed on RouteRoot and RouteFeed.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleFeedRequest)
	return mux
}

// Start listens on the loopback address and blocks until ctx is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish exports events and replaces the served feed. A set identical to the
// one already served keeps its ETag and Last-Modified.
func (s *FeedServer) Publish(events engine.EventSet) error {
	now := s.now()
	data, err := engine.ExportICS(events, now)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFeedExport, err)
	}
	s.store(data, events.Len(), now)
	return nil
}

// Marked returns the number of dates in the last published set.
func (s *FeedServer) Marked() int {
	if snap := s.feed.Load(); snap != nil {
		return snap.marked
	}
	return 0
}

func (s *FeedServer) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *FeedServer) store(data []byte, marked int, now time.Time) {
	hash := sha256.Sum256(withoutStamp(data))
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	if prev := s.feed.Load(); prev != nil && prev.etag == etag {
		// Instants on an already served day change the count, not the feed.
		if prev.marked != marked {
			next := *prev
			next.marked = marked
			s.feed.Store(&next)
		}
		return
	}

	// Any concurrent reader sees either the old or the new snapshot.
	s.feed.Store(&feedSnapshot{
		data:         data,
		etag:         etag,
		lastModified: now.UTC().Format(http.TimeFormat),
		marked:       marked,
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyMarked, marked,
		config.LogKeyETag, etag,
	)
}

// withoutStamp drops DTSTAMP lines, which change on every export, so the
// ETag only depends on the marked days.
func withoutStamp(data []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if bytes.HasPrefix(line, []byte(config.PropDTStamp)) {
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}

// handleFeedRequest serves the ICS content with HTTP caching support.
func (s *FeedServer) handleFeedRequest(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot && r.URL.Path != config.RouteFeed {
		http.Error(w, config.HTTPMsgNotFound, http.StatusNotFound)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	snap := s.feed.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, snap.etag)
	h.Set(config.HeaderLastModified, snap.lastModified)

	if notModified(r, snap) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.Set(config.HeaderContentLength, strconv.Itoa(len(snap.data)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, bytes.NewReader(snap.data)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// notModified evaluates If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, snap *feedSnapshot) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == snap.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, snap.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
