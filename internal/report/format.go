// Package report renders interaction records as Markdown diaries, article
// drafts and stats summaries, and manages the generated files.
package report

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
)

// Bar geometry per report kind. A cap of 0 means uncapped.
const (
	DiaryBarScale = 20
	DiaryBarCap   = 0
	StatsBarScale = 20
	StatsBarCap   = 20
)

const barRune = "█"

// Bar draws a proportional bar of ceil(min(cap, value/total*scale)) blocks.
func Bar(value, total int, scale float64, cap int) string {
	if total <= 0 || value <= 0 {
		return ""
	}
	length := float64(value) / float64(total) * scale
	if cap > 0 {
		length = math.Min(float64(cap), length)
	}
	return strings.Repeat(barRune, int(math.Ceil(length)))
}

// Pct formats a percentage with one decimal place.
func Pct(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases s, collapses every run of non-alphanumeric characters to
// one hyphen and strips leading and trailing hyphens.
func Slug(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Footer is the generation line that ends every report.
func Footer(at time.Time) string {
	return fmt.Sprintf("*Generado automáticamente por ai-logger el %s*\n", at.UTC().Format(time.RFC3339))
}

// DiaryFileName names a daily diary, or a weekly one starting at first.
func DiaryFileName(first time.Time, weekly bool) string {
	if weekly {
		return "diary-week-" + day(first) + ".md"
	}
	return "diary-" + day(first) + ".md"
}

// ArticleFileName names an article draft written on d about topic.
func ArticleFileName(d time.Time, topic string) string {
	slug := Slug(topic)
	if slug == "" {
		slug = DefaultSlug
	}
	return "draft-" + day(d) + "-" + slug + ".md"
}

// truncate shortens s to max runes, appending "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func day(t time.Time) string {
	return t.UTC().Format(activity.DayLayout)
}

// writeTools is the set of tools that modify files.
var writeTools = []string{"Write", "Edit", "MultiEdit"}

func isWriteTool(name string) bool {
	for _, t := range writeTools {
		if t == name {
			return true
		}
	}
	return false
}

// modifiedFiles returns the unique file paths touched by write-class tools.
func modifiedFiles(records []activity.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		if !isWriteTool(rec.Tool) || rec.FilePath() == "" {
			continue
		}
		if _, ok := seen[rec.FilePath()]; ok {
			continue
		}
		seen[rec.FilePath()] = struct{}{}
		out = append(out, rec.FilePath())
	}
	return out
}
