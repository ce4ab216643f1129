// Package prompt loads the instruction template used to ask a generation
// backend for post text. A prompt file is a text/template body with optional
// YAML frontmatter between two "---" lines.
package prompt

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Options are the frontmatter keys a prompt file may set.
type Options struct {
	Temperature *float32 `yaml:"temperature"`
	Model       string   `yaml:"model"`
	System      string   `yaml:"system"`
}

// Data is what the template body sees.
type Data struct {
	Title     string
	Summary   string
	Link      string
	MaxLength int
}

// Template is a parsed prompt file.
type Template struct {
	Options Options
	body    *template.Template
}

//go:embed default.tmpl
var defaultPrompt []byte

// Default returns the built-in prompt.
func Default() *Template {
	t, err := Parse("default", defaultPrompt)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a prompt file from disk. An empty path yields the built-in prompt.
func Load(path string) (*Template, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt %s: %w", path, err)
	}
	return Parse(path, b)
}

// Parse splits frontmatter from body and compiles the body.
func Parse(name string, src []byte) (*Template, error) {
	fm, body, err := split(src)
	if err != nil {
		return nil, err
	}
	var opts Options
	if len(bytes.TrimSpace(fm)) > 0 {
		if err := yaml.Unmarshal(fm, &opts); err != nil {
			return nil, fmt.Errorf("prompt %s: frontmatter: %w", name, err)
		}
	}
	tpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}
	return &Template{Options: opts, body: tpl}, nil
}

// Render executes the body against d.
func (t *Template) Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, d); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Temperature returns the frontmatter temperature, or def when unset.
func (t *Template) Temperature(def float32) float32 {
	if t.Options.Temperature != nil {
		return *t.Options.Temperature
	}
	return def
}

func split(src []byte) (frontmatter []byte, body string, err error) {
	br := bufio.NewReader(bytes.NewReader(src))
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	if string(peek) != "---" {
		return nil, string(src), nil
	}
	// Consume the opening '---' line
	if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	var fm bytes.Buffer
	closed := false
	for {
		l, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, "", err
		}
		if strings.TrimSpace(l) == "---" {
			closed = true
			break
		}
		fm.WriteString(l)
		if errors.Is(err, io.EOF) {
			break
		}
	}
	if !closed {
		return nil, "", errors.New("unterminated frontmatter")
	}
	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, "", err
	}
	return fm.Bytes(), string(rest), nil
}
