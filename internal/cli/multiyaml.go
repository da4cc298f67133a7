package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// readRequestDocuments loads the YAML request documents of a file, or of
// stdin when name is "-". Environment placeholders are expanded first.
func readRequestDocuments(name string) ([]map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", name, err)
	}
	data, err = PreprocessYAML(expandIndentTabs(data))
	if err != nil {
		return nil, err
	}
	return splitDocuments(data)
}

// splitDocuments decodes every document of a YAML stream. Documents without
// keys, such as the one after a trailing separator, are dropped.
func splitDocuments(data []byte) ([]map[string]any, error) {
	docs := []map[string]any{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for n := 1; ; n++ {
		var doc map[string]any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		if len(doc) > 0 {
			docs = append(docs, doc)
		}
	}
}

// expandIndentTabs turns tabs in the leading indentation of each line into
// four spaces. Tabs after the first other character are content and stay.
func expandIndentTabs(data []byte) []byte {
	if !bytes.ContainsRune(data, '\t') {
		return data
	}
	var out bytes.Buffer
	out.Grow(len(data))
	r := bufio.NewReader(bytes.NewReader(data))
	for {
		line, err := r.ReadBytes('\n')
		i := 0
		for ; i < len(line) && (line[i] == ' ' || line[i] == '\t'); i++ {
			if line[i] == '\t' {
				out.WriteString("    ")
			} else {
				out.WriteByte(' ')
			}
		}
		out.Write(line[i:])
		if err != nil {
			return out.Bytes()
		}
	}
}
