package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is styled text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatYAML is YAML output.
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a --format flag value. Empty selects FormatText.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unknown output format %q (want text, json or yaml)", s))
	}
}

// Formatter formats command output.
type Formatter interface {
	Format(data any) ([]byte, error)
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output with fmt's %v verb.
type TextFormatter struct{}

// Format converts data to text format.
func (f *TextFormatter) Format(data any) ([]byte, error) {
	return []byte(fmt.Sprintf("%v\n", data)), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data any) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// Format converts data to YAML format.
func (f *YAMLFormatter) Format(data any) ([]byte, error) {
	return yaml.Marshal(data)
}

// FormatTo writes data to writer in YAML format.
func (f *YAMLFormatter) FormatTo(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// WriteAssessment prints an analysis as styled text:
//
//	Status      DANGER
//	Risk score  70/100
//	Rule        retinoid_acid
//	Actives     retinol, glycolic acid
//
//	We detected a potential conflict: ...
func WriteAssessment(w io.Writer, ingredients []string, a conflict.Assessment, s Styles) error {
	rows := [][2]string{
		{"Status", s.StatusStyle(a.Status).Render(strings.ToUpper(string(a.Status)))},
		{"Risk score", s.ScoreStyle(a.RiskScore).Render(fmt.Sprintf("%d/%d", a.RiskScore, conflict.MaxRiskScore))},
	}
	if a.MatchedRule != "" {
		rows = append(rows, [2]string{"Rule", s.Value.Render(string(a.MatchedRule))})
	}
	actives := s.Muted.Render("none")
	if len(a.KeywordHits) > 0 {
		actives = s.Value.Render(strings.Join(a.KeywordHits, ", "))
	}
	rows = append(rows,
		[2]string{"Actives", actives},
		[2]string{"Checked", s.Muted.Render(fmt.Sprintf("%d ingredient(s), catalog %s", len(ingredients), versionOrBuiltin(a.CatalogVersion)))},
	)

	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s %s\n", s.Label.Render(r[0]), r[1]); err != nil {
			return err
		}
	}

	summary := lipgloss.NewStyle().Width(76).Render(a.Summary)
	_, err := fmt.Fprintf(w, "\n%s\n", summary)
	return err
}

// WriteHistoryTable prints records as a bordered table followed by a count
// line.
func WriteHistoryTable(w io.Writer, records []*history.Record, total int64, s Styles) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, s.Muted.Render("No analyses recorded."))
		return err
	}

	const maxIngredients = 36
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		ingredients := strings.Join(r.Ingredients, ", ")
		if len(ingredients) > maxIngredients {
			ingredients = ingredients[:maxIngredients-3] + "..."
		}
		rows = append(rows, []string{
			r.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			string(r.Status),
			fmt.Sprintf("%d", r.RiskScore),
			string(r.MatchedRule),
			ingredients,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 1 && row >= 0 && row < len(rows) {
				return s.StatusStyle(conflict.Status(rows[row][1])).PaddingRight(1)
			}
			return s.TableCell
		}).
		Headers("RECORDED", "STATUS", "SCORE", "RULE", "INGREDIENTS").
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, s.Muted.Render(fmt.Sprintf("%d of %d record(s)", len(records), total)))
	return err
}

func versionOrBuiltin(v string) string {
	if v == "" {
		return "built-in"
	}
	return v
}
