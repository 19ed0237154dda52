package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

// FileExporter writes {topic}_gaps.json and {topic}_methodology.json into
// a directory.
type FileExporter struct {
	dir string
}

func NewFileExporter(dir string) *FileExporter {
	return &FileExporter{dir: dir}
}

func (e *FileExporter) Export(topic string, gaps, methodology json.RawMessage) error {
	stem := utils.SafeFileStem(topic)
	if stem == "" {
		stem = "blog"
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		suffix string
		data   json.RawMessage
	}{
		{"_gaps.json", gaps},
		{"_methodology.json", methodology},
	}
	for _, file := range files {
		path := filepath.Join(e.dir, stem+file.suffix)
		if err := os.WriteFile(path, indentBytes(file.data), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func indentBytes(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("{}\n")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return raw
	}
	out.WriteByte('\n')
	return out.Bytes()
}
