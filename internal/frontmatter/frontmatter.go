// SPDX-License-Identifier: AGPL-3.0-or-later

// Package frontmatter parses the leading metadata block of a markdown
// document.
//
// A block is the run of lines between an opening "---" line (the first line
// of the document) and the next "---" line. Inside it, each line of the form
// "key: value" contributes one pair. Parsing is tolerant: anything that does
// not fit is ignored rather than reported.
package frontmatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Delimiter opens and closes a metadata block.
const Delimiter = "---"

// Block is the parsed leading metadata block of a document.
type Block struct {
	Present bool
	Pairs   map[string]string
}

// Get returns the value stored under key.
func (b Block) Get(key string) (string, bool) {
	v, ok := b.Pairs[key]
	return v, ok
}

// Int converts the value under key, substituting def when the key is
// missing or not an integer.
func (b Block) Int(key string, def int) int {
	v, ok := b.Pairs[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Parse returns the metadata block at the start of text.
func Parse(text string) Block {
	b, _ := Split(text)
	return b
}

// Split separates the metadata block from the document body.
// When no well-formed block exists the body is the whole text.
func Split(text string) (Block, string) {
	absent := Block{Pairs: map[string]string{}}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != Delimiter {
		return absent, text
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return absent, text
	}

	return Block{
		Present: true,
		Pairs:   parsePairs(lines[1:closing]),
	}, strings.Join(lines[closing+1:], "\n")
}

func parsePairs(lines []string) map[string]string {
	pairs := make(map[string]string)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		pairs[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	return pairs
}

// unquote strips one layer of matching single or double quotes.
func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	first, last := v[0], v[len(v)-1]
	if first == last && (first == '"' || first == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}

// Pair is one ordered key/value entry for Render.
type Pair struct {
	Key   string
	Value any
}

// Render produces a complete metadata block, delimiters included, with pairs
// in the given order. Every value reads back through Parse unchanged: the
// YAML encoding is used when Parse would recover the value from it, and the
// raw text otherwise, wrapped in quotes only when Parse would trim or
// unquote it.
func Render(pairs []Pair) (string, error) {
	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	for _, p := range pairs {
		v, err := encode(p.Value)
		if err != nil {
			return "", fmt.Errorf("encoding %s: %w", p.Key, err)
		}
		b.WriteString(p.Key + ": " + v + "\n")
	}
	b.WriteString(Delimiter + "\n")
	return b.String(), nil
}

func encode(value any) (string, error) {
	want := fmt.Sprint(value)
	if strings.ContainsAny(want, "\r\n") {
		return "", fmt.Errorf("value %q spans lines", want)
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	enc := strings.TrimSuffix(string(out), "\n")
	if !strings.Contains(enc, "\n") && unquote(strings.TrimSpace(enc)) == want {
		return enc, nil
	}

	// Parse does not unescape, so YAML escapes would leak into the value.
	if strings.TrimSpace(want) == want && unquote(want) == want {
		return want, nil
	}
	return `"` + want + `"`, nil
}
