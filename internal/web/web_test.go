package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/backup"
	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/abhisek/addmath/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *bank.Bank) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	b := bank.New(s.SnapshotRepo())
	require.NoError(t, b.Replace(context.Background(), bank.Set{
		"form4-functions": {{
			ID:          "q_f1",
			Text:        "If $f(x)=x^2$ and a<b, find $f(3)$.",
			Options:     [4]string{"6", "9", "$3^2+1$", "$\\sqrt{9}$"},
			Correct:     1,
			Explanation: "$3^2 = 9$",
			Diagram:     "javascript:alert(1)",
		}},
	}, bank.SourceImport))

	h := NewHandler(b, logging.Discard())
	h.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, b
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Form 4 Topics")
	assert.Contains(t, body, `href="/topics/form4-functions"`)
	assert.Contains(t, body, "1 questions")
}

func TestWorksheet(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/topics/form4-functions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<span class="latex-inline">f(x)=x²</span>`)
	assert.Contains(t, body, "a&lt;b")
	assert.Contains(t, body, "√(9)")
	assert.NotContains(t, body, "javascript:")
	assert.NotContains(t, body, "Answer: B")

	_, body = get(t, srv.URL+"/topics/form4-functions?answers=1")
	assert.Contains(t, body, "Answer: B")
	assert.Contains(t, body, `class="correct"`)

	resp, _ = get(t, srv.URL+"/topics/form9-nothing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = get(t, srv.URL+"/topics/form5-vectors")
	assert.Contains(t, body, "No questions available")
}

func TestQuestionJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/questions/q_f1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Topic    string        `json:"topic"`
		Question bank.Question `json:"question"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "form4-functions", out.Topic)
	assert.Equal(t, 1, out.Question.Correct)

	resp, _ = get(t, srv.URL+"/questions/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExports(t *testing.T) {
	srv, b := newTestServer(t)

	resp, body := get(t, srv.URL+"/export/template.csv")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "question_template.csv")
	assert.True(t, strings.HasPrefix(body, "topicId,question,"))

	resp, body = get(t, srv.URL+"/export/questions.csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "questions_20260301.csv")
	assert.Contains(t, body, "form4-functions")

	resp, body = get(t, srv.URL+"/export/backup.json")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "questions_backup_20260301.json")
	doc, err := backup.Read(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, b.All(), doc.Questions)
}

func TestHealthAndStylesheet(t *testing.T) {
	srv, _ := newTestServer(t)
	_, body := get(t, srv.URL+"/healthz")
	assert.Contains(t, body, `"questions":1`)

	resp, body := get(t, srv.URL+"/style.css")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.Contains(t, body, ".latex-display")
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, http.NotFoundHandler(), logging.Discard()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
