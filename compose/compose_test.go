// ABOUTME: Tests for the preview compositor: splice rules, first-match-only, degradation, totality.
// ABOUTME: Covers the canonical reference syntaxes plus quote and case variations.
package compose

import (
	"strings"
	"testing"
)

func TestComposeSplicesStyleAndScript(t *testing.T) {
	c := New(DefaultNames())

	files := map[string]string{
		"index.html": "<link href='style.css'>...<script src='app.js'></script>",
		"style.css":  "body{color:red}",
		"app.js":     "console.log(1)",
	}

	out := c.Compose(files)

	if !strings.Contains(out, "<style>body{color:red}</style>") {
		t.Errorf("expected inline style tag, got %q", out)
	}
	if !strings.Contains(out, "<script>\nconsole.log(1)\n</script>") {
		t.Errorf("expected inline script tag, got %q", out)
	}
	if strings.Contains(out, "style.css") {
		t.Errorf("stylesheet reference survived composition: %q", out)
	}
	if strings.Contains(out, "app.js") {
		t.Errorf("script reference survived composition: %q", out)
	}
}

func TestComposeMissingScriptLeavesEmptyBody(t *testing.T) {
	c := New(DefaultNames())

	files := map[string]string{
		"index.html": "<link href='style.css'>...<script src='app.js'></script>",
		"style.css":  "body{color:red}",
	}

	out := c.Compose(files)

	if !strings.Contains(out, "<script>\n\n</script>") {
		t.Errorf("expected empty inline script body, got %q", out)
	}
}

func TestComposeMissingStylesheetLeavesEmptyStyle(t *testing.T) {
	c := New(DefaultNames())

	files := map[string]string{
		"index.html": `<link rel="stylesheet" href="style.css">`,
	}

	out := c.Compose(files)

	if out != "<style></style>" {
		t.Errorf("expected empty inline style, got %q", out)
	}
}

func TestComposeMissingEntryYieldsEmptyDocument(t *testing.T) {
	c := New(DefaultNames())

	if out := c.Compose(map[string]string{"style.css": "p{}"}); out != "" {
		t.Errorf("expected empty document without entry file, got %q", out)
	}
	if out := c.Compose(nil); out != "" {
		t.Errorf("expected empty document for nil snapshot, got %q", out)
	}
}

func TestComposeWithoutReferencesLeavesEntryUntouched(t *testing.T) {
	c := New(DefaultNames())

	entry := "<h1>plain page</h1>"
	files := map[string]string{
		"index.html": entry,
		"style.css":  "h1{color:blue}",
		"app.js":     "alert('never inlined')",
	}

	if out := c.Compose(files); out != entry {
		t.Errorf("expected untouched entry, got %q", out)
	}
}

func TestComposeReplacesOnlyFirstMatch(t *testing.T) {
	c := New(DefaultNames())

	files := map[string]string{
		"index.html": `<link href="style.css"><link href="style.css">` +
			`<script src="app.js"></script><script src="app.js"></script>`,
		"style.css": "b{}",
		"app.js":    "go()",
	}

	out := c.Compose(files)

	if strings.Count(out, "<style>b{}</style>") != 1 {
		t.Errorf("expected exactly one inline style, got %q", out)
	}
	if !strings.Contains(out, `<link href="style.css">`) {
		t.Errorf("expected second link reference left byte-identical, got %q", out)
	}
	if strings.Count(out, "<script>\ngo()\n</script>") != 1 {
		t.Errorf("expected exactly one inline script, got %q", out)
	}
	if !strings.Contains(out, `<script src="app.js"></script>`) {
		t.Errorf("expected second script reference left byte-identical, got %q", out)
	}
}

func TestComposeMatchesCaseInsensitively(t *testing.T) {
	c := New(DefaultNames())

	files := map[string]string{
		"index.html": `<LINK REL="STYLESHEET" HREF="STYLE.CSS"><SCRIPT SRC="APP.JS"></SCRIPT>`,
		"style.css":  "i{}",
		"app.js":     "run()",
	}

	out := c.Compose(files)

	if !strings.Contains(out, "<style>i{}</style>") {
		t.Errorf("expected case-insensitive link match, got %q", out)
	}
	if !strings.Contains(out, "<script>\nrun()\n</script>") {
		t.Errorf("expected case-insensitive script match, got %q", out)
	}
}

func TestComposeHandlesAttributeVariations(t *testing.T) {
	c := New(DefaultNames())

	variants := []string{
		`<link rel="stylesheet" href="style.css">`,
		`<link href='style.css' rel='stylesheet'>`,
		`<link rel="stylesheet" href=style.css />`,
		`<link href = "style.css">`,
	}
	for _, entry := range variants {
		out := c.Compose(map[string]string{"index.html": entry, "style.css": "x{}"})
		if out != "<style>x{}</style>" {
			t.Errorf("entry %q: expected splice, got %q", entry, out)
		}
	}
}

func TestComposeDoesNotExpandDollarSigns(t *testing.T) {
	c := New(DefaultNames())

	files := map[string]string{
		"index.html": `<script src="app.js"></script>`,
		"app.js":     `const price = "$1.00"; const re = /$0/;`,
	}

	out := c.Compose(files)

	if !strings.Contains(out, `const price = "$1.00"; const re = /$0/;`) {
		t.Errorf("dollar signs in file content were mangled: %q", out)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := New(DefaultNames())

	files := map[string]string{
		"index.html": `<link href="style.css"><script src="app.js"></script>`,
		"style.css":  "p{margin:0}",
		"app.js":     "tick()",
	}

	first := c.Compose(files)
	for i := 0; i < 10; i++ {
		if got := c.Compose(files); got != first {
			t.Fatalf("compose run %d differed:\n%q\n%q", i, first, got)
		}
	}
}

func TestComposeCustomNames(t *testing.T) {
	c := New(Names{Entry: "main.html", Stylesheet: "theme.css", Script: "run.js"})

	files := map[string]string{
		"main.html": `<link href="theme.css"><script src="run.js"></script>`,
		"theme.css": "q{}",
		"run.js":    "boot()",
	}

	out := c.Compose(files)

	if out != "<style>q{}</style><script>\nboot()\n</script>" {
		t.Errorf("unexpected composition: %q", out)
	}
}

func TestComposeIgnoresUnrelatedReferences(t *testing.T) {
	c := New(DefaultNames())

	entry := `<link href="other.css"><script src="vendor.js"></script>`
	files := map[string]string{
		"index.html": entry,
		"style.css":  "never{}",
		"app.js":     "never()",
	}

	if out := c.Compose(files); out != entry {
		t.Errorf("expected unrelated references untouched, got %q", out)
	}
}
