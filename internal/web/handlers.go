package web

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fakeyudi/ailog/internal/period"
	"github.com/fakeyudi/ailog/internal/report"
)

// Report kinds accepted by /api/reports.
const (
	kindDiary    = "diary"
	kindArticles = "articles"
	kindNotes    = "notes"
)

type indexGroup struct {
	Kind    string
	Label   string
	Entries []report.IndexEntry
}

func (s *Server) reportDir(kind string) (string, bool) {
	switch kind {
	case kindDiary:
		return s.layout.DiaryDir(), true
	case kindArticles:
		return s.layout.ArticlesDir(), true
	case kindNotes:
		return s.layout.NotesDir(), true
	}
	return "", false
}

// validFile accepts a bare Markdown file name with no path components.
func validFile(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return false
	}
	return strings.HasSuffix(name, ".md")
}

func (s *Server) handleIndex(c *gin.Context) {
	idx, err := report.BuildIndex(s.layout, time.Now())
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":   "ai-logger",
		"total":   idx.Total(),
		"updated": idx.LastUpdated.Format(time.RFC3339),
		"groups": []indexGroup{
			{Kind: kindDiary, Label: "Diarios", Entries: idx.Diaries},
			{Kind: kindArticles, Label: "Artículos", Entries: idx.Articles},
			{Kind: kindNotes, Label: "Notas", Entries: idx.Notes},
		},
	})
}

// API handlers

func (s *Server) handleAPIIndex(c *gin.Context) {
	idx, err := report.BuildIndex(s.layout, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, idx)
}

func (s *Server) handleAPIReport(c *gin.Context) {
	dir, ok := s.reportDir(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "kind must be diary, articles or notes",
		})
		return
	}
	name := c.Param("file")
	if !validFile(name) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid file name",
		})
		return
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		status := http.StatusInternalServerError
		msg := err.Error()
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
			msg = "report not found"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   msg,
		})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", data)
}

func (s *Server) handleAPIStats(c *gin.Context) {
	p, err := period.ParsePeriod(c.DefaultQuery("period", string(period.Week)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, s.generator.PeriodStats(p))
}
