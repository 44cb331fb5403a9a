package web

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Meeting Summarizer</title>
<style>
body { font-family: sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; }
pre { background: #f4f4f4; padding: .75rem; white-space: pre-wrap; }
.error { background: #fde8e8; color: #8a1c1c; padding: .75rem; white-space: pre-wrap; }
.done { color: #1b7f3b; } .failed { color: #8a1c1c; } .running { color: #555; }
</style>
</head>
<body>
<h1>🎙️ Local Meeting Summarizer</h1>
<p>Upload a meeting audio file. This app will transcribe and summarize it entirely <strong>offline</strong> for privacy.</p>
<form action="/process" method="post" enctype="multipart/form-data">
<label>Upload audio file (.wav or .mp3)
<input type="file" name="audio" accept=".wav,.mp3,audio/wav,audio/mpeg" required></label>
<button type="submit">🧠 Process Meeting</button>
</form>
{{with .View}}
<h2>Run {{.RunID}}</h2>
<ul>
{{range .Stages}}<li class="{{.Status}}">{{.Name}}: {{.Status}}{{with .Detail}} ({{.}}){{end}}</li>
{{end}}</ul>
{{range .Messages}}<p>{{.}}</p>
{{end}}
{{range .Diagnostics}}<h3>{{.Label}}</h3><pre>{{.Text}}</pre>
{{end}}
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{if .Summary}}<h2>📝 Summary</h2><pre>{{.Summary}}</pre>{{end}}
{{end}}
{{with .Notice}}<div class="error">{{.}}</div>{{end}}
</body>
</html>
`))
