// Package render turns inventory records into terminal text, tables, JSON
// and YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format selects an output representation.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text, table, json or yaml)", s)
	}
}

// Separator sits between records in text listings.
var Separator = strings.Repeat("-", 50)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// JSON writes v indented.
func JSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// YAML writes v as a YAML document. Records only carry json tags, so v is
// routed through JSON first to keep the same field names in both formats.
func YAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(generic); err != nil {
		return err
	}
	return encoder.Close()
}

// Structured writes v in a machine-readable format. ok is false for text
// and table, which callers render themselves.
func Structured(w io.Writer, f Format, v interface{}) (ok bool, err error) {
	switch f {
	case FormatJSON:
		return true, JSON(w, v)
	case FormatYAML:
		return true, YAML(w, v)
	default:
		return false, nil
	}
}

// Error renders a lookup failure the way the CLI prints it.
func Error(msg string) string {
	return errorStyle.Render(fmt.Sprintf(`{"error": %q}`, msg))
}

// builder accumulates label/value lines.
type builder struct {
	lines []string
}

func (b *builder) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.lines = append(b.lines, labelStyle.Render(label)+": "+valueStyle.Render(value))
}

func (b *builder) nested(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.lines = append(b.lines, "  "+labelStyle.Render(label)+": "+valueStyle.Render(value))
}

func (b *builder) heading(label string) {
	b.lines = append(b.lines, labelStyle.Render(label)+":")
}

func (b *builder) line(s string) {
	b.lines = append(b.lines, s)
}

func (b *builder) blank() {
	b.lines = append(b.lines, "")
}

func (b *builder) String() string {
	return strings.Join(b.lines, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
