package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/ailog/internal/store"
)

const maxPreviewLen = 200

// IndexEntry describes one generated Markdown file.
type IndexEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	File    string `json:"file"`
	Preview string `json:"preview"`
}

// Index lists every diary, article and note file, newest first.
type Index struct {
	Diaries     []IndexEntry `json:"diaries"`
	Articles    []IndexEntry `json:"articles"`
	Notes       []IndexEntry `json:"notes"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// Total returns the number of indexed files.
func (i *Index) Total() int {
	return len(i.Diaries) + len(i.Articles) + len(i.Notes)
}

// BuildIndex scans the report directories of layout.
func BuildIndex(layout store.Layout, now time.Time) (*Index, error) {
	idx := &Index{LastUpdated: now.UTC()}
	var err error
	if idx.Diaries, err = indexDir(layout.DiaryDir(), now); err != nil {
		return nil, err
	}
	if idx.Articles, err = indexDir(layout.ArticlesDir(), now); err != nil {
		return nil, err
	}
	if idx.Notes, err = indexDir(layout.NotesDir(), now); err != nil {
		return nil, err
	}
	return idx, nil
}

// WriteIndex stores idx as the layout's index.json.
func WriteIndex(layout store.Layout, idx *Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := os.MkdirAll(layout.Root, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(layout.IndexPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func indexDir(dir string, now time.Time) ([]IndexEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var out []IndexEntry
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		out = append(out, describe(name, string(content), now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

var fileDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

func describe(name, content string, now time.Time) IndexEntry {
	meta, body := splitFrontmatter(content)

	title := meta.Title
	if title == "" {
		title = firstHeading(body)
	}
	date := fileDate.FindString(name)
	if date == "" {
		date = day(now)
	}
	return IndexEntry{
		ID:      strings.TrimSuffix(name, ".md"),
		Title:   title,
		Date:    date,
		File:    name,
		Preview: preview(body),
	}
}

// splitFrontmatter separates a leading YAML block from the Markdown body.
// Content without a well-formed block is returned unchanged.
func splitFrontmatter(content string) (Frontmatter, string) {
	var fm Frontmatter
	if !strings.HasPrefix(content, "---\n") {
		return fm, content
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return fm, content
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return Frontmatter{}, content
	}
	return fm, rest[end+len("\n---\n"):]
}

func firstHeading(body string) string {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		if title, ok := strings.CutPrefix(scanner.Text(), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return "Sin título"
}

func preview(body string) string {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			continue
		}
		r := []rune(line)
		if len(r) > maxPreviewLen {
			r = r[:maxPreviewLen]
		}
		return string(r)
	}
	return ""
}
