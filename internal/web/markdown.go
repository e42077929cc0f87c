package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"accounts-cli/internal/docs"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in markdown is not passed through (no html.WithUnsafe).
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

var docsPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<nav>{{range .Topics}}<a href="/docs/{{.}}">{{.}}</a> {{end}}</nav>
<main>{{.Body}}</main>
</body></html>
`))

type docsPageData struct {
	Title  string
	Topics []string
	Body   template.HTML
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	topic := r.PathValue("topic")
	if topic == "" {
		topic = "overview"
	}
	md, ok := docs.Get(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := docsPage.Execute(w, docsPageData{
		Title:  "accounts: " + topic,
		Topics: docs.Topics(),
		Body:   renderMarkdownHTML(md),
	}); err != nil {
		s.cfg.Logger.Warn().Err(err).Str("topic", topic).Msg("render docs failed")
	}
}
