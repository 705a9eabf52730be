// ABOUTME: Built-in baseline template: the three canonical files and their starter contents.
// ABOUTME: Serves as the initial workspace when no snapshot exists and as the reset target.
package workspace

// Canonical filenames. The preview compositor looks for references to the
// stylesheet and script names inside the entry file.
const (
	EntryName      = "index.html"
	StylesheetName = "style.css"
	ScriptName     = "app.js"
)

const baselineHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>sketch</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <h1>hello, sketchpad</h1>
  <p>Edit the files on the left, then hit Run.</p>
  <script src="app.js"></script>
</body>
</html>
`

const baselineCSS = `body {
  font-family: system-ui, sans-serif;
  margin: 2rem;
  color: #222;
}

h1 {
  color: #4338ca;
}
`

const baselineJS = `console.log("app.js loaded");
`

// File is a single named file: a (name, content) pair.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Baseline returns a fresh copy of the baseline template in canonical order.
func Baseline() []File {
	return []File{
		{Name: EntryName, Content: baselineHTML},
		{Name: StylesheetName, Content: baselineCSS},
		{Name: ScriptName, Content: baselineJS},
	}
}
