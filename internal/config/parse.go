// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mattn/go-shellwords"
	"gopkg.in/yaml.v3"
)

// Namespace is the flat key/value content of a configuration unit.
type Namespace map[string]string

// Lookup returns the value of the key and if the key is present at all.
func (n Namespace) Lookup(key string) (string, bool) {
	value, exists := n[key]
	return value, exists
}

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse reads the configuration unit from the given reader. The format is
// chosen by the file extension of path.
func Parse(r io.Reader, path string) (Namespace, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(r, path)
	default:
		return parseAssignments(r, path)
	}
}

func parseYAML(r io.Reader, path string) (Namespace, error) {
	ns := Namespace{}

	err := yaml.NewDecoder(r).Decode(&ns)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Err: err}
	}

	for key := range ns {
		if !keyPattern.MatchString(key) {
			return nil, &ParseError{
				Path: path,
				Err:  fmt.Errorf("invalid key %q", key),
			}
		}
	}

	return ns, nil
}

func parseAssignments(r io.Reader, path string) (Namespace, error) {
	ns := Namespace{}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimPrefix(line, "export ")

		key, rawValue, found := strings.Cut(line, "=")
		if !found || !keyPattern.MatchString(key) {
			return nil, &ParseError{Path: path, Line: lineNum, Err: ErrMalformedLine}
		}

		value, err := unquote(rawValue)
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNum, Err: err}
		}

		ns[key] = value
	}

	err := scanner.Err()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return ns, nil
}

// unquote resolves shell quoting of an assignment value. Variables and
// command substitutions are not expanded. A trailing comment is dropped.
func unquote(raw string) (string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false

	words, err := parser.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("unquote value: %w", err)
	}

	if parser.Position >= 0 {
		return "", fmt.Errorf("unquote value: unexpected shell operator at %d",
			parser.Position)
	}

	for idx, word := range words {
		if strings.HasPrefix(word, "#") {
			words = words[:idx]
			break
		}
	}

	return strings.Join(words, " "), nil
}
