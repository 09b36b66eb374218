package io

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphpad/pkg/graph"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Extensions lists the file extensions recognized by [FormatFor].
var Extensions = []string{".graph", ".json", ".toml"}

// FormatFor returns the encoding for path based on its extension.
// Unknown extensions default to JSON, the native ".graph" encoding.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// ParseFormat accepts "json", "graph" or "toml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json", "graph":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown snapshot format %q", s)
}

// Marshal encodes g in format f.
func Marshal(g *graph.Graph, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if f == FormatTOML {
		err = WriteTOML(g, &buf)
	} else {
		err = WriteJSON(g, &buf)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a graph encoded in format f.
func Unmarshal(data []byte, f Format) (*graph.Graph, error) {
	r := bytes.NewReader(data)
	if f == FormatTOML {
		return ReadTOML(r)
	}
	return ReadJSON(r)
}
