package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

type indexData struct {
	Project      string
	Dir          string
	Entries      []snapshot.Entry
	CatalogError string
}

type emptyData struct {
	Project string
	Code    string
	Message string
	Missing bool
}

const pageStyle = `
body { font-family: system-ui, sans-serif; background: #1b1b1b; color: #e6e6e6; margin: 2rem auto; max-width: 52rem; padding: 0 1rem; }
a { color: #6cb6ff; }
h1 { font-size: 1.4rem; }
form { margin: 1.5rem 0; display: flex; gap: .5rem; }
input[type=text] { flex: 1; padding: .5rem; background: #2a2a2a; color: inherit; border: 1px solid #444; border-radius: 4px; }
button { padding: .5rem 1rem; background: #2f7a6b; color: white; border: 0; border-radius: 4px; cursor: pointer; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: .35rem .5rem; border-bottom: 1px solid #333; }
th { color: #999; font-weight: normal; }
.dim { color: #888; }
.notice { padding: 1rem; border-left: 4px solid #d9a400; background: #2a2618; }
`

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>gcpmap</title>
<style>` + pageStyle + `</style>
</head>
<body>
<h1>Cloud project topology</h1>
<form action="/view" method="get">
  <input type="text" name="project" placeholder="project id" value="{{.Project}}" autofocus>
  <button type="submit">View</button>
</form>
<h2>Cached snapshots</h2>
{{if .CatalogError}}<p class="notice">{{.CatalogError}}</p>
{{else if .Entries}}<table>
  <tr><th>Project</th><th>Modified</th><th>Size</th></tr>
  {{range .Entries}}<tr><td><a href="/view/{{.ProjectID}}">{{.ProjectID}}</a></td><td>{{.Modified}}</td><td>{{printf "%.2f" .SizeKB}} KB</td></tr>
  {{end}}
</table>
{{else}}<p class="dim">No snapshots in {{.Dir}}.</p>
{{end}}
</body>
</html>
`))

var emptyPage = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Project}} · gcpmap</title>
<style>` + pageStyle + `</style>
</head>
<body>
<h1>{{.Project}}</h1>
<p class="notice">{{.Message}}</p>
{{if .Missing}}<p class="dim">Import a snapshot with <code>gcpmap import graph.json --project {{.Project}}</code>.</p>
{{else if .Code}}<p class="dim">{{.Code}}</p>
{{end}}
<p><a href="/">Back to the catalog</a></p>
</body>
</html>
`))

// writePage renders t into a buffer first so a template failure still
// produces a well-formed response.
func writePage(w http.ResponseWriter, status int, t *template.Template, data any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
