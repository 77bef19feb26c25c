package aggregate

import (
	"strings"

	"github.com/fakeyudi/ailog/internal/activity"
)

// CategoryGeneral is assigned when no rule matches.
const CategoryGeneral = "general"

// Category is a named keyword list. Keywords are matched as lower-case
// substrings of a record's context.
type Category struct {
	Name     string
	Keywords []string
}

// Categories are evaluated in order; the first match wins.
var Categories = []Category{
	{"debugging", []string{"fix", "bug", "error", "issue", "broken", "not working", "debug"}},
	{"feature", []string{"add", "implement", "create", "new feature", "build", "develop"}},
	{"refactoring", []string{"refactor", "improve", "clean up", "restructure", "optimize", "simplify"}},
	{"testing", []string{"test", "spec", "coverage", "mock", "assert", "unit test"}},
	{"documentation", []string{"document", "readme", "comment", "explain", "docs", "jsdoc"}},
	{"exploration", []string{"search", "find", "look", "where", "what", "how", "understand"}},
	{"devops", []string{"deploy", "ci", "cd", "docker", "build", "pipeline"}},
	{"security", []string{"security", "auth", "permission", "encrypt", "password", "token"}},
}

// toolCategories short-circuit the keyword scan.
var toolCategories = map[string]string{
	"Grep": "exploration",
	"Glob": "exploration",
	"Read": "exploration",
}

// CategoryNames lists every label Categorize can return.
func CategoryNames() []string {
	names := make([]string, 0, len(Categories)+1)
	for _, c := range Categories {
		names = append(names, c.Name)
	}
	return append(names, CategoryGeneral)
}

// Categorize assigns exactly one category label to rec.
func Categorize(rec activity.Record) string {
	if c, ok := toolCategories[rec.Tool]; ok {
		return c
	}
	text := strings.ToLower(rec.Context)
	for _, c := range Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				return c.Name
			}
		}
	}
	return CategoryGeneral
}
