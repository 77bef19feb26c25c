// Package web serves the generated reports over HTTP.
package web

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/fakeyudi/ailog/internal/report"
	"github.com/fakeyudi/ailog/internal/store"
)

// Server is the ai-logger dashboard.
type Server struct {
	layout    store.Layout
	generator *report.Generator
	router    *gin.Engine
}

// NewServer creates a dashboard over the reports in layout.
func NewServer(layout store.Layout, generator *report.Generator) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		layout:    layout,
		generator: generator,
		router:    router,
	}

	router.SetHTMLTemplate(template.Must(template.New("index.html").Parse(indexTemplate)))

	router.GET("/", s.handleIndex)

	api := router.Group("/api")
	{
		api.GET("/index", s.handleAPIIndex)
		api.GET("/reports/:kind/:file", s.handleAPIReport)
		api.GET("/stats", s.handleAPIStats)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run starts the dashboard on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

const indexTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.title}}</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
li { margin: .4rem 0; }
.preview { color: #666; font-size: .9em; }
pre { white-space: pre-wrap; background: #f6f6f6; padding: 1rem; }
</style>
</head>
<body>
<h1>{{.title}}</h1>
<p>{{.total}} documentos · actualizado {{.updated}}</p>
{{range .groups}}
<h2>{{.Label}} ({{len .Entries}})</h2>
{{if .Entries}}<ul>
{{$kind := .Kind}}{{range .Entries}}<li><a href="#" data-src="/api/reports/{{$kind}}/{{.File}}">{{.Title}}</a> <small>{{.Date}}</small><div class="preview">{{.Preview}}</div></li>
{{end}}</ul>{{else}}<p class="preview">Sin documentos</p>{{end}}
{{end}}
<pre id="content"></pre>
<script>
document.querySelectorAll("a[data-src]").forEach(function (a) {
  a.addEventListener("click", function (e) {
    e.preventDefault();
    fetch(a.dataset.src).then(function (r) { return r.text(); }).then(function (t) {
      document.getElementById("content").textContent = t;
    });
  });
});
</script>
</body>
</html>
`
