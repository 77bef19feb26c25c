package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/report"
	"github.com/fakeyudi/ailog/internal/session"
	"github.com/fakeyudi/ailog/internal/store"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, store.Layout) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	layout := store.NewLayout(t.TempDir())
	require.NoError(t, layout.Ensure())

	events := store.NewEventStore(layout)
	for _, tool := range []string{"Read", "Edit", "Edit"} {
		require.NoError(t, events.AppendRecord(fixedNow, activity.Record{
			Timestamp: fixedNow,
			Tool:      tool,
			SessionID: "s1",
		}))
	}

	gen := report.NewGenerator(events, session.NewSessionStore(layout)).
		WithClock(func() time.Time { return fixedNow })
	return NewServer(layout, gen), layout
}

func do(s *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func writeReport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestIndexPageListsReports(t *testing.T) {
	s, layout := newTestServer(t)
	writeReport(t, layout.DiaryDir(), "diary-2025-01-15.md", "# Diario 2025-01-15\n\nUn día tranquilo.\n")

	w := do(s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Diario 2025-01-15")
	require.Contains(t, w.Body.String(), "/api/reports/diary/diary-2025-01-15.md")
	require.Contains(t, w.Body.String(), "Sin documentos")
}

func TestAPIIndex(t *testing.T) {
	s, layout := newTestServer(t)
	writeReport(t, layout.ArticlesDir(), "2025-01-15-go.md", "---\ntitle: Go\n---\n\nCuerpo.\n")
	writeReport(t, layout.NotesDir(), "notes-2025-01-14.md", "# Notas\n\nAlgo.\n")

	w := do(s, "/api/index")
	require.Equal(t, http.StatusOK, w.Code)

	var idx report.Index
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idx))
	require.Len(t, idx.Articles, 1)
	require.Equal(t, "Go", idx.Articles[0].Title)
	require.Len(t, idx.Notes, 1)
	require.Empty(t, idx.Diaries)
}

func TestAPIReportServesMarkdown(t *testing.T) {
	s, layout := newTestServer(t)
	writeReport(t, layout.NotesDir(), "notes-2025-01-15.md", "# Notas\n")

	w := do(s, "/api/reports/notes/notes-2025-01-15.md")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "# Notas\n", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
}

func TestAPIReportErrors(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		target string
		status int
	}{
		{"/api/reports/logs/x.md", http.StatusBadRequest},
		{"/api/reports/diary/.hidden.md", http.StatusBadRequest},
		{"/api/reports/diary/config.json", http.StatusBadRequest},
		{"/api/reports/diary/missing.md", http.StatusNotFound},
	}
	for _, c := range cases {
		w := do(s, c.target)
		require.Equal(t, c.status, w.Code, c.target)
	}
}

func TestValidFileRejectsTraversal(t *testing.T) {
	require.True(t, validFile("diary-2025-01-15.md"))
	for _, name := range []string{"", "../secret.md", "..", "a/b.md", `a\b.md`, ".md", "x.txt"} {
		require.False(t, validFile(name), name)
	}
}

func TestAPIStats(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, "/api/stats?period=today")
	require.Equal(t, http.StatusOK, w.Code)

	var stats report.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, 3, stats.Total)
	require.Equal(t, "today", stats.Label)
	require.Equal(t, "Edit", stats.Tools[0].Tool)

	w = do(s, "/api/stats?period=year")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIStatsDefaultsToWeek(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats report.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, "week", stats.Label)
	require.Equal(t, 3, stats.Total)
}
