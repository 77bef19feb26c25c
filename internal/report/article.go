package report

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/ailog/internal/activity"
	"github.com/fakeyudi/ailog/internal/aggregate"
)

// Article defaults.
const (
	DefaultTopic   = "Mi Experiencia con Claude Code"
	DefaultSlug    = "mi-experiencia"
	defaultProject = "mi-proyecto"

	maxArticleExamples = 5
	maxArticleFiles    = 10
)

var toolPurposes = map[string]string{
	"Read":      "Leer y entender código",
	"Write":     "Crear nuevos archivos",
	"Edit":      "Modificar código existente",
	"MultiEdit": "Múltiples ediciones",
	"Bash":      "Ejecutar comandos",
	"Grep":      "Buscar en código",
	"Glob":      "Encontrar archivos",
	"Task":      "Tareas complejas",
	"WebFetch":  "Consultar documentación",
	"WebSearch": "Buscar información",
}

// ToolPurpose describes what a tool is typically used for.
func ToolPurpose(tool string) string {
	if p, ok := toolPurposes[tool]; ok {
		return p
	}
	return "Operaciones varias"
}

// ArticleOptions control article rendering.
type ArticleOptions struct {
	Topic       string
	Author      string
	Date        time.Time
	GeneratedAt time.Time
}

// Frontmatter is the YAML header of an article draft.
type Frontmatter struct {
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author,omitempty"`
	Date     string   `yaml:"date"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags,flow"`
	Draft    bool     `yaml:"draft"`
}

// Analysis is what an article draft says about a set of records.
type Analysis struct {
	Tools        *aggregate.Groups
	Examples     []string
	Files        []string
	MainCategory string
	Project      string
	Tags         []string
}

// Analyze extracts the article's talking points from records.
func Analyze(records []activity.Record) Analysis {
	a := Analysis{
		Tools:        aggregate.GroupBy(records, aggregate.ByTool),
		Files:        modifiedFiles(records),
		MainCategory: aggregate.CategoryGeneral,
		Project:      defaultProject,
	}

	a.Examples = aggregate.Unique(records, func(r activity.Record) string {
		if strings.HasPrefix(r.Context, "tool:") {
			return ""
		}
		return r.Context
	})

	if ranked := aggregate.Rank(aggregate.GroupBy(records, aggregate.ByCategory)); len(ranked) > 0 {
		a.MainCategory = ranked[0].Key
	}
	if len(records) > 0 && records[0].WorkingDirectory != "" {
		a.Project = records[0].Project()
	}

	tags := []string{a.MainCategory}
	for i, t := range a.Tools.Keys() {
		if i == 3 {
			break
		}
		tags = append(tags, strings.ToLower(t))
	}
	tags = append(tags, "claude-code", "ia")
	a.Tags = dedupe(tags)
	return a
}

// RenderArticle renders a draft article from records.
func RenderArticle(records []activity.Record, opts ArticleOptions) (string, error) {
	topic := opts.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	a := Analyze(records)

	fm, err := yaml.Marshal(Frontmatter{
		Title:    topic,
		Author:   opts.Author,
		Date:     day(opts.Date),
		Category: a.MainCategory,
		Tags:     a.Tags,
		Draft:    true,
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "# %s\n\n", topic)

	sb.WriteString("## Introducción\n\n")
	fmt.Fprintf(&sb, "Este artículo documenta mi experiencia trabajando con Claude Code en %s.\n", a.Project)
	fmt.Fprintf(&sb, "Durante esta sesión, realicé %d interacciones con la IA, enfocándome principalmente en %s.\n\n",
		len(records), a.MainCategory)

	sb.WriteString("## El Contexto\n\n")
	fmt.Fprintf(&sb, "**Proyecto:** %s\n", a.Project)
	sb.WriteString("**Objetivo:** _[Describe aquí el objetivo de la sesión]_\n\n")

	sb.WriteString("## Mi Flujo de Trabajo\n\n")
	if a.Tools.Len() > 0 {
		sb.WriteString("### Herramientas Utilizadas\n\n")
		sb.WriteString("| Herramienta | Veces | Para qué |\n")
		sb.WriteString("|-------------|-------|----------|\n")
		for _, t := range a.Tools.Keys() {
			fmt.Fprintf(&sb, "| %s | %d | %s |\n", t, a.Tools.Count(t), ToolPurpose(t))
		}
		sb.WriteString("\n")
	}

	if len(a.Examples) > 0 {
		sb.WriteString("### Ejemplos de lo que Pedí\n\n")
		for _, ex := range limit(a.Examples, maxArticleExamples) {
			fmt.Fprintf(&sb, "- %s\n", ex)
		}
		sb.WriteString("\n")
	}

	if len(a.Files) > 0 {
		sb.WriteString("### Archivos Trabajados\n\n```\n")
		sb.WriteString(strings.Join(limit(a.Files, maxArticleFiles), "\n"))
		sb.WriteString("\n```\n\n")
	}

	sb.WriteString("## Lo Que Aprendí\n\n")
	sb.WriteString("### ¿Qué Funcionó Bien?\n\n_[Escribe aquí lo que funcionó]_\n\n-\n\n")
	sb.WriteString("### ¿Qué No Funcionó?\n\n_[Escribe aquí los desafíos]_\n\n-\n\n")
	sb.WriteString("### Tips para Otros\n\n_[Consejos basados en tu experiencia]_\n\n1.\n2.\n3.\n\n")

	sb.WriteString("## Código Destacado\n\n_[Agrega aquí snippets de código relevantes]_\n\n")
	sb.WriteString("```go\n// Ejemplo de código\n```\n\n")

	sb.WriteString("## Conclusión\n\n_[Escribe tus conclusiones finales]_\n\n")

	sb.WriteString("## Recursos Relacionados\n\n")
	sb.WriteString("- [Claude Code Documentation](https://docs.anthropic.com/claude-code)\n")
	sb.WriteString("- _[Agregar más recursos relevantes]_\n\n")

	sb.WriteString("---\n\n")
	sb.WriteString(Footer(opts.GeneratedAt))
	fmt.Fprintf(&sb, "*Basado en %d interacciones*\n", len(records))
	return sb.String(), nil
}

// ArticlePreview is the one-line digest printed after writing a draft.
func ArticlePreview(topic string, records []activity.Record) string {
	if topic == "" {
		topic = DefaultTopic
	}
	return fmt.Sprintf("📝 Artículo: %q | %d interacciones | Categoría: %s", topic, len(records), Analyze(records).MainCategory)
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
