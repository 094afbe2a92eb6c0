package report

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tabprep/domain/profile"
)

const pageStyle = `<style>
body{font-family:sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#222}
table{border-collapse:collapse;margin:1rem 0}
th,td{border:1px solid #ccc;padding:0.3rem 0.6rem;text-align:left}
th{background:#f4f4f4}
</style>`

// HTML renders the markdown report as a standalone page
func HTML(name string, res *profile.AnalysisResult) []byte {
	src := []byte(Markdown(name, res))

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(src)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Data Profile: " + name,
		Head:  []byte(pageStyle),
	})
	return markdown.Render(doc, renderer)
}
