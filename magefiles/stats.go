//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// layer groups source directories for Stats. The first matching prefix wins.
type layer struct {
	name     string
	prefixes []string
}

// layers splits the tree into the grid engine and its collaborators.
var layers = []layer{
	{name: "engine", prefixes: []string{"pkg/grid/"}},
	{name: "types", prefixes: []string{"pkg/types/"}},
	{name: "storage", prefixes: []string{"internal/sqlite/", "pkg/sqlite/", "internal/paths/"}},
	{name: "editor", prefixes: []string{"internal/editor/"}},
	{name: "tui", prefixes: []string{"internal/tui/"}},
	{name: "cli", prefixes: []string{"cmd/"}},
	{name: "integration", prefixes: []string{"tests/"}},
}

// layerCount is one layer's line totals.
type layerCount struct {
	Prod int `json:"prod"`
	Test int `json:"test"`
}

// Stats prints Go lines per layer as one JSON object. The engine line is
// pkg/grid alone; collaborators sums every other layer.
func Stats() error {
	counts := make(map[string]*layerCount, len(layers)+1)
	for _, l := range layers {
		counts[l.name] = &layerCount{}
	}
	counts["other"] = &layerCount{}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			switch path {
			case ".git", "vendor", "_examples", "magefiles", binaryDir:
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := lineCount(path)
		if err != nil {
			return nil
		}
		c := counts[layerOf(filepath.ToSlash(path))]
		if strings.HasSuffix(path, "_test.go") {
			c.Test += n
		} else {
			c.Prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	var collab layerCount
	for name, c := range counts {
		if name == "engine" {
			continue
		}
		collab.Prod += c.Prod
		collab.Test += c.Test
	}

	record := map[string]any{
		"layers":        counts,
		"engine":        counts["engine"],
		"collaborators": collab,
	}
	out, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func layerOf(path string) string {
	for _, l := range layers {
		for _, p := range l.prefixes {
			if strings.HasPrefix(path, p) {
				return l.name
			}
		}
	}
	return "other"
}

func lineCount(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}
