package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/abhisek/addmath/internal/store"
)

const feedCSV = "topicId,question,optionA,optionB,optionC,optionD,correct,explanation\n" +
	"form4-functions,Q1,a,b,c,d,1,e\n" +
	"form5-vectors,Q2,a,b,c,d,2,e\n" +
	"short,row\n"

type stubSource struct {
	text string
	err  error
}

func (s stubSource) Fetch(ctx context.Context) (string, error) { return s.text, s.err }

func quiet() logrus.FieldLogger { return logging.Discard() }

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(feedCSV))
	}))
	defer srv.Close()

	text, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, feedCSV, text)
}

func TestHTTPSource_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrStatus)
}

func TestHTTPSource_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedCSV))
		w.Write([]byte(strings.Repeat("x", maxBody)))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 5*time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestHTTPSource_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource_NoURL(t *testing.T) {
	_, err := NewHTTPSource("", time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestSync_Success(t *testing.T) {
	s := openTestStore(t)
	b := bank.New(s.SnapshotRepo(), bank.WithLogger(quiet()))

	res, err := NewSyncer(stubSource{text: feedCSV}, b, quiet()).Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Empty(t, res.Message())
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, b.Count("form4-functions"))
	assert.False(t, res.Updated.IsZero())

	snap, err := s.SnapshotRepo().Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, bank.SourceFeed, snap.Source)
}

func TestSync_FallsBackToCache(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := bank.New(s.SnapshotRepo(), bank.WithLogger(quiet()))
	_, err := NewSyncer(stubSource{text: feedCSV}, seed, quiet()).Sync(ctx)
	require.NoError(t, err)

	fresh := bank.New(s.SnapshotRepo(), bank.WithLogger(quiet()))
	fetchErr := errors.New("offline")
	res, err := NewSyncer(stubSource{err: fetchErr}, fresh, quiet()).Sync(ctx)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.True(t, res.CacheFound)
	assert.ErrorIs(t, res.FetchErr, fetchErr)
	assert.Equal(t, FallbackMessage, res.Message())
	assert.Equal(t, 2, fresh.Total())
	assert.True(t, res.Updated.Equal(seed.LastUpdated()))
}

func TestSync_NoCacheLeavesEmpty(t *testing.T) {
	s := openTestStore(t)
	b := bank.New(s.SnapshotRepo(), bank.WithLogger(quiet()))

	res, err := NewSyncer(stubSource{err: errors.New("offline")}, b, quiet()).Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.False(t, res.CacheFound)
	assert.Zero(t, b.Total())
	assert.True(t, res.Updated.IsZero())
}

func TestSync_EmptyFeedKeepsCache(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b := bank.New(s.SnapshotRepo(), bank.WithLogger(quiet()))
	_, err := NewSyncer(stubSource{text: feedCSV}, b, quiet()).Sync(ctx)
	require.NoError(t, err)

	res, err := NewSyncer(stubSource{text: "<html>sign in</html>"}, b, quiet()).Sync(ctx)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.ErrorIs(t, res.FetchErr, ErrEmptyFeed)
	assert.Equal(t, 2, b.Total())
}
