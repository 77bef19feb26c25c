package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

const sampleReport = `---
title: Prueba
tags: [a, b]
---

# Diario 2025-01-15

Texto previo.

## Resumen

- **Total interacciones:** 3

## Sesiones

### demo (abcd1234)

` + "```bash\nls -la\n```\n"

func TestSplitDropsFrontmatterAndKeepsOrder(t *testing.T) {
	title, sections := Split(sampleReport)
	if title != "Diario 2025-01-15" {
		t.Errorf("title = %q", title)
	}
	var names []string
	for _, s := range sections {
		names = append(names, s.Title)
	}
	want := []string{overviewTab, "Resumen", "Sesiones"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("sections = %v, want %v", names, want)
	}
	if sections[0].Body != "Texto previo." {
		t.Errorf("overview body = %q", sections[0].Body)
	}
	if strings.Contains(sections[1].Body, "title:") {
		t.Error("frontmatter leaked into a section")
	}
}

func TestSplitOmitsBlankOverview(t *testing.T) {
	_, sections := Split("# T\n\n## Uno\nx\n")
	if len(sections) != 1 || sections[0].Title != "Uno" {
		t.Fatalf("sections = %+v", sections)
	}
}

func TestUpdateNavigatesTabs(t *testing.T) {
	var m tea.Model = New(sampleReport, "/tmp/diary-2025-01-15.md")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.(Model).ActiveTab(); got != 1 {
		t.Errorf("after right: tab = %d, want 1", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.(Model).ActiveTab(); got != 2 {
		t.Errorf("left wraps: tab = %d, want 2", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if got := m.(Model).ActiveTab(); got != 1 {
		t.Errorf("jump: tab = %d, want 1", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}})
	if got := m.(Model).ActiveTab(); got != 1 {
		t.Errorf("out of range jump moved tab to %d", got)
	}
}

func TestViewShowsTabsAndFilename(t *testing.T) {
	var m tea.Model = New(sampleReport, "/tmp/diary-2025-01-15.md")
	if m.View() != "Cargando…" {
		t.Errorf("view before size = %q", m.View())
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	out := m.View()
	for _, want := range []string{"diary-2025-01-15.md", "Resumen", "Sesiones"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := New("## A\nx\n", "r.md")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestEmptyReportHasOneTab(t *testing.T) {
	m := New("", "empty.md")
	if len(m.Sections()) != 1 {
		t.Fatalf("sections = %d", len(m.Sections()))
	}
	if !strings.Contains(renderSection(m.Sections()[0]), "(vacío)") {
		t.Error("empty section not marked")
	}
}
