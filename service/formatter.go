package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ludo-technologies/tsgate/domain"
	"gopkg.in/yaml.v3"
)

// GateFormatter renders a classified metrics set. It applies the display
// predicate and never mutates its input; the run's exit status is derived
// elsewhere, over the unfiltered set.
type GateFormatter struct {
	styles Styles
}

// NewGateFormatter creates a new formatter with the default theme
func NewGateFormatter() *GateFormatter {
	return &GateFormatter{styles: DefaultStyles()}
}

// metricsDocument is the structured output shape.
type metricsDocument struct {
	Metrics []domain.FileMetrics `json:"metrics" yaml:"metrics"`
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Write renders the metrics that pass the predicate in the given format.
func (f *GateFormatter) Write(metrics []domain.FileMetrics, pred domain.Predicate, format domain.OutputFormat, writer io.Writer) error {
	filtered := make([]domain.FileMetrics, 0, len(metrics))
	for _, m := range metrics {
		if pred(m) {
			filtered = append(filtered, m)
		}
	}

	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(filtered, writer)
	case domain.OutputFormatYAML:
		return f.writeYAML(filtered, writer)
	case domain.OutputFormatText:
		return f.writeTable(filtered, writer)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
}

func (f *GateFormatter) writeJSON(metrics []domain.FileMetrics, writer io.Writer) error {
	if err := WriteJSON(writer, metricsDocument{Metrics: metrics}); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

func (f *GateFormatter) writeYAML(metrics []domain.FileMetrics, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(metricsDocument{Metrics: metrics}); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

func (f *GateFormatter) writeTable(metrics []domain.FileMetrics, writer io.Writer) error {
	if len(metrics) == 0 {
		fmt.Fprintln(writer, f.styles.Muted.Render("No metrics found."))
		return nil
	}

	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{
			m.Zone.String(),
			m.FilePath,
			strconv.FormatFloat(m.MaintainabilityIndex, 'f', 2, 64),
			strconv.Itoa(m.CyclomaticComplexity),
			strconv.Itoa(m.CognitiveComplexity),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.styles.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return f.styles.TableHeader
			}
			if col == 0 && row >= 0 && row < len(metrics) {
				return f.styles.ZoneStyle(metrics[row].Zone)
			}
			return f.styles.TableCell
		}).
		Headers("ZONE", "FILE", "MI", "CC", "COG").
		Rows(rows...)

	fmt.Fprintln(writer, t)
	return nil
}
