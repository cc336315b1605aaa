// Package feed pulls the published question spreadsheet and keeps the local
// question bank in step with it.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/importer"
)

// FallbackMessage is shown when the feed could not be used and the cached
// bank is served instead.
const FallbackMessage = "Could not fetch latest questions. Using cached version."

// maxBody caps the size of a feed download.
const maxBody = 10 << 20

var (
	// ErrStatus is returned when the feed answers with a non-2xx status.
	ErrStatus = errors.New("unexpected feed status")

	// ErrTooLarge is returned when the feed body exceeds maxBody. A cut
	// body could end in a partial row that still parses.
	ErrTooLarge = errors.New("feed exceeds size limit")

	// ErrEmptyFeed is returned when the feed parses to no questions.
	ErrEmptyFeed = errors.New("feed contains no questions")

	// ErrNoURL is returned when no feed URL is configured.
	ErrNoURL = errors.New("no feed URL configured")
)

// Source produces the raw CSV text of the question feed.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPSource fetches the feed over HTTP GET.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPSource creates a source for url with the given per-fetch timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: url, Client: http.DefaultClient, Timeout: timeout}
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	if s.URL == "" {
		return "", ErrNoURL
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read feed: %w", err)
	}
	if len(b) > maxBody {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBody)
	}
	return string(b), nil
}

// Result describes the outcome of a sync.
type Result struct {
	// FromCache is true when the feed failed and the cached bank is in use.
	FromCache bool

	// CacheFound is true when a cached bank existed to fall back to.
	CacheFound bool

	// FetchErr is the feed failure behind a fallback.
	FetchErr error

	// Imported and Skipped count feed rows on success.
	Imported int
	Skipped  int

	// Updated is the bank's timestamp after the sync.
	Updated time.Time
}

// Message returns the user-facing notice for the result, if any.
func (r *Result) Message() string {
	if r.FromCache {
		return FallbackMessage
	}
	return ""
}

// Syncer refreshes a bank from a feed source.
type Syncer struct {
	src  Source
	bank *bank.Bank
	log  logrus.FieldLogger
	now  func() time.Time
}

// NewSyncer creates a Syncer.
func NewSyncer(src Source, b *bank.Bank, log logrus.FieldLogger) *Syncer {
	return &Syncer{src: src, bank: b, log: log, now: time.Now}
}

// Sync fetches the feed and replaces the bank with its questions. If the
// fetch fails, or yields no questions, the last cached bank is loaded
// instead and the result is marked FromCache. An error is returned only
// when neither path works.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	text, err := s.src.Fetch(ctx)
	if err == nil {
		parsed := importer.ParseCSV(text, s.now())
		if parsed.Imported == 0 {
			err = ErrEmptyFeed
		} else {
			if rerr := s.bank.Replace(ctx, parsed.Questions, bank.SourceFeed); rerr != nil {
				return nil, fmt.Errorf("store feed questions: %w", rerr)
			}
			s.log.WithFields(logrus.Fields{
				"imported": parsed.Imported,
				"skipped":  parsed.Skipped,
			}).Info("question feed synced")
			return &Result{
				Imported: parsed.Imported,
				Skipped:  parsed.Skipped,
				Updated:  s.bank.LastUpdated(),
			}, nil
		}
	}

	s.log.WithError(err).Warn("question feed unavailable, using cache")
	found, lerr := s.bank.Load(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("feed failed (%v) and cache unavailable: %w", err, lerr)
	}
	return &Result{
		FromCache:  true,
		CacheFound: found,
		FetchErr:   err,
		Updated:    s.bank.LastUpdated(),
	}, nil
}
