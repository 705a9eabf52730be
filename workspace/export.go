// ABOUTME: YAML export of the workspace file set for sharing and backup.
// ABOUTME: Serializes the ordered name/content pairs with gopkg.in/yaml.v3.
package workspace

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlWorkspace is the wire format for a workspace export.
type yamlWorkspace struct {
	Version string     `yaml:"version"`
	Files   []yamlFile `yaml:"files"`
}

type yamlFile struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

// ExportYAML serializes files as a YAML document. Store order is
// preserved so exports of the same workspace are byte-identical.
func ExportYAML(files []File) (string, error) {
	doc := yamlWorkspace{
		Version: "1",
		Files:   make([]yamlFile, 0, len(files)),
	}
	for _, f := range files {
		doc.Files = append(doc.Files, yamlFile{Name: f.Name, Content: f.Content})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("marshal workspace: %w", err)
	}
	return string(data), nil
}

// ImportYAML parses a workspace export back into ordered files. Entries
// with empty names are rejected rather than silently dropped so a bad
// document is caught at the boundary.
func ImportYAML(data []byte) ([]File, error) {
	var doc yamlWorkspace
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal workspace: %w", err)
	}

	files := make([]File, 0, len(doc.Files))
	for i, f := range doc.Files {
		if f.Name == "" {
			return nil, fmt.Errorf("file %d: %w", i, ErrEmptyName)
		}
		files = append(files, File{Name: f.Name, Content: f.Content})
	}
	return files, nil
}
