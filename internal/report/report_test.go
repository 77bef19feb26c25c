package report_test

import (
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/report"
	"github.com/fakeyudi/ailog/internal/session"
)

var june1 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return june1.Add(time.Duration(h) * time.Hour) }

func scenarioRecords() []activity.Record {
	return []activity.Record{
		{Timestamp: at(9), Tool: "Read", Outcome: activity.OutcomeSuccess, WorkingDirectory: "/w/shop"},
		{Timestamp: at(10), Tool: "Edit", Outcome: activity.OutcomeSuccess, WorkingDirectory: "/w/shop"},
		{Timestamp: at(11), Tool: "Edit", Outcome: activity.OutcomeFailed, WorkingDirectory: "/w/shop"},
	}
}

func TestStatsScenario(t *testing.T) {
	s := report.ComputeStats("today", scenarioRecords(), at(12))
	if s.Total != 3 {
		t.Fatalf("Total = %d, want 3", s.Total)
	}
	if len(s.Tools) != 2 || s.Tools[0].Tool != "Edit" || s.Tools[0].Count != 2 || s.Tools[1].Tool != "Read" {
		t.Fatalf("Tools = %+v", s.Tools)
	}
	if s.Outcomes.Success != 2 || s.Outcomes.Failed != 1 || s.Outcomes.Partial != 0 {
		t.Fatalf("Outcomes = %+v", s.Outcomes)
	}

	out, err := (&report.MarkdownRenderer{}).Render(s)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)
	for _, want := range []string{"**Total interacciones:** 3", "| Edit | 2 |", "66.7%", "| Read | 1 |", "33.3%", "Éxitos: 2", "Fallidos: 1"} {
		if !strings.Contains(md, want) {
			t.Errorf("stats missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "| Edit |") > strings.Index(md, "| Read |") {
		t.Error("Edit should be ranked before Read")
	}
	if strings.Contains(md, "## Actividad por Día") {
		t.Error("single-day stats should omit the per-day section")
	}
}

func TestStatsJSONRenderer(t *testing.T) {
	r, err := report.NewStatsRenderer("json")
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Render(report.ComputeStats("week", scenarioRecords(), at(12)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"total": 3`) {
		t.Errorf("json stats missing total:\n%s", out)
	}
	if _, err := report.NewStatsRenderer("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStatsEmptyGuardsDivision(t *testing.T) {
	s := report.ComputeStats("today", nil, at(12))
	if s.AvgPerSession != 0 || s.AvgPerDay != 0 || s.ReadWriteRatio != 0 {
		t.Fatalf("empty stats should be zero: %+v", s)
	}
}

func TestBar(t *testing.T) {
	cases := []struct {
		value, total int
		scale        float64
		cap          int
		want         int
	}{
		{2, 3, 20, 20, 14},
		{1, 3, 20, 20, 7},
		{3, 3, 20, 20, 20},
		{3, 3, 40, 20, 20},
		{3, 3, 40, 0, 40},
		{0, 3, 20, 20, 0},
		{1, 0, 20, 20, 0},
	}
	for _, c := range cases {
		got := report.Bar(c.value, c.total, c.scale, c.cap)
		if n := len([]rune(got)); n != c.want {
			t.Errorf("Bar(%d, %d, %v, %d) has %d blocks, want %d", c.value, c.total, c.scale, c.cap, n, c.want)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Mi Experiencia con Claude Code": "mi-experiencia-con-claude-code",
		"  --Hello,  World!--  ":         "hello-world",
		"Go 1.25 & generics":             "go-1-25-generics",
		"":                               "",
	}
	for in, want := range cases {
		if got := report.Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

// Feature: ailog, Property 7: Slug is idempotent
func TestSlugIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "topic")
		once := report.Slug(s)
		if twice := report.Slug(once); twice != once {
			t.Fatalf("Slug(%q) = %q, re-slugged to %q", s, once, twice)
		}
	})
}

func TestFileNames(t *testing.T) {
	if got := report.DiaryFileName(june1, false); got != "diary-2025-06-01.md" {
		t.Errorf("daily = %q", got)
	}
	if got := report.DiaryFileName(june1, true); got != "diary-week-2025-06-01.md" {
		t.Errorf("weekly = %q", got)
	}
	if got := report.ArticleFileName(june1, "Rust FFI!"); got != "draft-2025-06-01-rust-ffi.md" {
		t.Errorf("article = %q", got)
	}
	if got := report.ArticleFileName(june1, "!!!"); got != "draft-2025-06-01-mi-experiencia.md" {
		t.Errorf("article fallback = %q", got)
	}
}

func stripFooter(s string) string {
	var keep []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "*Generado automáticamente") {
			continue
		}
		keep = append(keep, line)
	}
	return strings.Join(keep, "\n")
}

func genRecords(t *rapid.T) []activity.Record {
	n := rapid.IntRange(0, 25).Draw(t, "n")
	recs := make([]activity.Record, n)
	for i := range recs {
		recs[i] = activity.Record{
			Timestamp:        june1.Add(time.Duration(rapid.IntRange(0, 86399).Draw(t, "sec")) * time.Second),
			Tool:             rapid.SampledFrom([]string{"Read", "Edit", "Write", "Bash", "Grep"}).Draw(t, "tool"),
			Context:          rapid.StringN(0, 30, -1).Draw(t, "ctx"),
			Outcome:          rapid.SampledFrom(activity.Outcomes).Draw(t, "outcome"),
			SessionID:        rapid.SampledFrom([]string{"s1", "s2"}).Draw(t, "sid"),
			WorkingDirectory: rapid.SampledFrom([]string{"/w/a", "/w/b"}).Draw(t, "wd"),
			Input:            &activity.Input{FilePath: rapid.SampledFrom([]string{"", "/w/a/x.go"}).Draw(t, "fp"), Command: rapid.SampledFrom([]string{"", "go test ./..."}).Draw(t, "cmd")},
		}
	}
	return recs
}

// Feature: ailog, Property 8: Rendering depends only on inputs apart from the footer
func TestRenderingIsPureExceptFooter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		recs := genRecords(t)
		sessions := []session.Summary{{SessionID: "s1-long-identifier", Project: "a", EndTime: at(20), InteractionsCount: 3}}
		t1, t2 := at(21), at(22).Add(37*time.Minute)

		d1 := report.RenderDiary(recs, sessions, report.DiaryOptions{Days: []time.Time{june1}, GeneratedAt: t1})
		d2 := report.RenderDiary(recs, sessions, report.DiaryOptions{Days: []time.Time{june1}, GeneratedAt: t2})
		if stripFooter(d1) != stripFooter(d2) {
			t.Fatal("diary differs beyond the footer")
		}

		a1, err := report.RenderArticle(recs, report.ArticleOptions{Topic: "x", Date: june1, GeneratedAt: t1})
		if err != nil {
			t.Fatal(err)
		}
		a2, err := report.RenderArticle(recs, report.ArticleOptions{Topic: "x", Date: june1, GeneratedAt: t2})
		if err != nil {
			t.Fatal(err)
		}
		if stripFooter(a1) != stripFooter(a2) {
			t.Fatal("article differs beyond the footer")
		}

		s1, _ := (&report.MarkdownRenderer{}).Render(report.ComputeStats("today", recs, t1))
		s2, _ := (&report.MarkdownRenderer{}).Render(report.ComputeStats("today", recs, t2))
		if stripFooter(string(s1)) != stripFooter(string(s2)) {
			t.Fatal("stats differ beyond the footer")
		}
	})
}

func TestDiaryOmitsEmptySections(t *testing.T) {
	recs := []activity.Record{{Timestamp: at(9), Tool: "Read", Context: "look around", WorkingDirectory: "/w/shop"}}
	out := report.RenderDiary(recs, nil, report.DiaryOptions{Days: []time.Time{june1}, GeneratedAt: at(12)})
	for _, absent := range []string{"## Sesiones", "## Archivos Modificados", "## Comandos Ejecutados"} {
		if strings.Contains(out, absent) {
			t.Errorf("diary should omit %q", absent)
		}
	}
	for _, present := range []string{"# Diario de IA - 2025-06-01", "## Actividad por Herramienta", "**Herramienta más usada:** Read (1)", "## Reflexión del Día"} {
		if !strings.Contains(out, present) {
			t.Errorf("diary missing %q", present)
		}
	}
}

func TestDiaryCommandsAndFiles(t *testing.T) {
	long := strings.Repeat("x", 150)
	recs := []activity.Record{
		{Tool: "Edit", Input: &activity.Input{FilePath: "/w/a.go"}},
		{Tool: "Edit", Input: &activity.Input{FilePath: "/w/a.go"}},
		{Tool: "Read", Input: &activity.Input{FilePath: "/w/ignored.go"}},
		{Tool: "Bash", Input: &activity.Input{Command: long}},
	}
	for i := 0; i < 25; i++ {
		recs = append(recs, activity.Record{Tool: "Bash", Input: &activity.Input{Command: "echo " + string(rune('a'+i))}})
	}
	out := report.RenderDiary(recs, nil, report.DiaryOptions{Days: []time.Time{june1}, GeneratedAt: at(12)})

	if strings.Count(out, "`/w/a.go`") != 1 {
		t.Error("modified files should be unique")
	}
	if strings.Contains(out, "ignored.go") {
		t.Error("read-only files are not modifications")
	}
	if !strings.Contains(out, strings.Repeat("x", 100)+"...") || strings.Contains(out, strings.Repeat("x", 101)) {
		t.Error("long command should be truncated to 100 characters")
	}
	block := out[strings.Index(out, "```bash\n")+len("```bash\n"):]
	block = block[:strings.Index(block, "```")]
	if n := strings.Count(block, "\n"); n != 20 {
		t.Errorf("command block has %d lines, want 20", n)
	}
}

func TestWeeklyDiaryTitle(t *testing.T) {
	days := []time.Time{june1, june1.AddDate(0, 0, 6)}
	out := report.RenderDiary(nil, nil, report.DiaryOptions{Days: days, Weekly: true, GeneratedAt: at(1)})
	if !strings.HasPrefix(out, "# Diario de IA - 2025-06-01 al 2025-06-07\n") {
		t.Errorf("unexpected title: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if strings.Contains(out, "## Actividad por Herramienta") {
		t.Error("empty diary should omit the tool table")
	}
}

func TestArticleAnalysis(t *testing.T) {
	recs := []activity.Record{
		{Tool: "Edit", Context: "fix the login bug", WorkingDirectory: "/w/shop", Input: &activity.Input{FilePath: "/w/shop/a.go"}},
		{Tool: "Bash", Context: "tool:Bash"},
		{Tool: "Edit", Context: "fix the login bug"},
		{Tool: "Read", Context: "read main"},
		{Tool: "Grep", Context: "search"},
	}
	a := report.Analyze(recs)
	if a.Project != "shop" {
		t.Errorf("Project = %q", a.Project)
	}
	if a.MainCategory != "debugging" && a.MainCategory != "exploration" {
		t.Errorf("MainCategory = %q", a.MainCategory)
	}
	want := []string{a.MainCategory, "edit", "bash", "read", "claude-code", "ia"}
	if strings.Join(a.Tags, ",") != strings.Join(want, ",") {
		t.Errorf("Tags = %v, want %v", a.Tags, want)
	}
	if len(a.Examples) != 3 {
		t.Errorf("Examples = %v", a.Examples)
	}

	out, err := report.RenderArticle(recs, report.ArticleOptions{Date: june1, GeneratedAt: at(3)})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"---\ntitle: Mi Experiencia con Claude Code\n", "draft: true", "tags: [", "| Edit | 2 | Modificar código existente |", "| Grep | 1 | Buscar en código |", "*Basado en 5 interacciones*"} {
		if !strings.Contains(out, want) {
			t.Errorf("article missing %q:\n%s", want, out)
		}
	}
}

func TestArticleDefaultsWithoutRecords(t *testing.T) {
	a := report.Analyze(nil)
	if a.Project != "mi-proyecto" || a.MainCategory != "general" {
		t.Errorf("defaults = %q / %q", a.Project, a.MainCategory)
	}
	if strings.Join(a.Tags, ",") != "general,claude-code,ia" {
		t.Errorf("Tags = %v", a.Tags)
	}
}

func TestArticleAuthorInFrontmatter(t *testing.T) {
	out, err := report.RenderArticle(nil, report.ArticleOptions{Topic: "Go", Author: "ana", Date: june1, GeneratedAt: at(3)})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "---\ntitle: Go\nauthor: ana\n") {
		t.Errorf("unexpected frontmatter:\n%s", out)
	}
}
