package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desinsight/SnapAGENT-filo-sub009/internal/metrics"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/engine"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/fileop"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/resolver"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "Downloads"), 0755))

	eng, err := engine.New(engine.Config{
		Home:          home,
		Username:      "hana",
		Platform:      "linux",
		WorkingDir:    t.TempDir(),
		DefaultLocale: "en",
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	s, err := NewServer(Config{
		Host:    "127.0.0.1",
		Port:    8080,
		Engine:  eng,
		Metrics: metrics.NewMetrics(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(Config{Port: 0})
	assert.Error(t, err)

	_, err = NewServer(Config{Port: 8080, Engine: nil})
	assert.Error(t, err)
}

func TestHandleResolve(t *testing.T) {
	_, ts := testServer(t)

	body := strings.NewReader(`{"input": "downloads", "locale": "en"}`)
	resp, err := http.Post(ts.URL+"/api/resolve", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result ResolveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.Candidates)
	assert.Equal(t, "alias", result.Stage)
}

func TestHandleResolve_BadBody(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/resolve", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleFiles(t *testing.T) {
	_, ts := testServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))

	resp, err := http.Get(ts.URL + "/api/files?path=" + dir)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result ListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Files, 1)
	assert.Equal(t, "a.txt", result.Files[0].Name)
}

func TestHandleFiles_MissingDirectoryIsNull(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/files?path=" + filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "null", string(raw["files"]))
}

func TestHandleFiles_RequiresPath(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/files")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleStatus(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Contains(t, status, "watcher")
	assert.Contains(t, status, "resolver")
}

func TestHandleFeedback(t *testing.T) {
	s, ts := testServer(t)

	body := strings.NewReader(`{"user_id": "u1", "input": "작업", "chosen_path": "/work"}`)
	resp, err := http.Post(ts.URL+"/api/feedback", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	result := s.engine.Resolve("작업", resolver.Context{Locale: "ko", UserID: "u1"})
	assert.Equal(t, resolver.StageLearned, result.Stage)
	assert.Equal(t, []string{"/work"}, result.Candidates)
}

func TestHandleFeedback_Validation(t *testing.T) {
	_, ts := testServer(t)

	body := strings.NewReader(`{"user_id": "u1"}`)
	resp, err := http.Post(ts.URL+"/api/feedback", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsReflectListingsAndWatches(t *testing.T) {
	_, ts := testServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))

	for _, path := range []string{dir, filepath.Join(dir, "nope")} {
		resp, err := http.Get(ts.URL + "/api/files?path=" + path)
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	scrape := string(body)
	assert.Contains(t, scrape, `filo_listings_total{outcome="ok"} 1`)
	assert.Contains(t, scrape, `filo_listings_total{outcome="failed"} 1`)
	// The successful listing registered a watch on demand.
	assert.Contains(t, scrape, "filo_watched_directories 1")
}

func TestWebSocketCacheUpdatedStream(t *testing.T) {
	s, ts := testServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens just after the handshake completes.
	require.Eventually(t, func() bool {
		return s.clients.Count() == 1
	}, time.Second, 10*time.Millisecond)

	s.NotifyCacheUpdated("/tmp/watched", []fileop.FileRecord{{Name: "a"}, {Name: "b"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg EventMessage
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, "cache.updated", msg.Event)
	data, err := json.Marshal(msg.Data)
	require.NoError(t, err)

	var payload CacheUpdatedEvent
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "/tmp/watched", payload.Path)
	assert.Equal(t, 2, payload.Entries)
}

// Debounce timers for different directories fire on independent goroutines,
// so cache-updated broadcasts must be safe to issue concurrently against
// one client connection.
func TestConcurrentBroadcastsOneClient(t *testing.T) {
	s, ts := testServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return s.clients.Count() == 1
	}, time.Second, 10*time.Millisecond)

	const broadcasts = 64
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.NotifyCacheUpdated("/tmp/watched", make([]fileop.FileRecord, n%3))
		}(i)
	}
	wg.Wait()

	// Every broadcast arrives intact and in one piece.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	seen := map[int64]bool{}
	for i := 0; i < broadcasts; i++ {
		var msg EventMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "cache.updated", msg.Event)
		assert.False(t, seen[msg.Seq], "duplicate seq %d", msg.Seq)
		seen[msg.Seq] = true
	}
}
