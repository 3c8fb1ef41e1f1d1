package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robertof/go-switchbot-exporter/device/switchbot"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

type row struct {
	label, value string
}

// attributeRows flattens the JSON encoding of v into sorted rows.
func attributeRows(v any) ([]row, error) {
	encoded, err := json.Marshal(v)

	if err != nil {
		return nil, err
	}

	var decoded any

	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	flattenValues(values, "", decoded)

	keys := maps.Keys(values)
	slices.Sort(keys)

	rows := make([]row, 0, len(keys))

	for _, k := range keys {
		rows = append(rows, row{k, values[k]})
	}

	return rows, nil
}

func flattenValues(out map[string]string, prefix string, v any) {
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			if prefix != "" {
				k = prefix + "." + k
			}

			flattenValues(out, k, child)
		}
	case nil:
		out[prefix] = "-"
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func renderRows(rows []row) string {
	width := 0

	for _, r := range rows {
		width = max(width, len(r.label))
	}

	var b strings.Builder

	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width, r.label)))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(r.value))
	}

	return b.String()
}

func writeTable(w io.Writer, adv *switchbot.Advertisement) error {
	data := adv.Data

	title := data.ModelFriendlyName

	if title == "" {
		title = "Unknown model " + data.Model.String()
	}

	header := []row{
		{"model", data.Model.String()},
		{"modelName", string(data.ModelName)},
		{"encrypted", fmt.Sprint(data.IsEncrypted)},
		{"active", fmt.Sprint(adv.Active)},
		{"rawAdvData", data.RawAdvData.String()},
	}

	if adv.Address != "" {
		header = append(header, row{"address", adv.Address})
	}

	attrs, err := attributeRows(data.Data)

	if err != nil {
		return fmt.Errorf("failed to render attributes: %w", err)
	}

	body := renderRows(header)

	if len(attrs) > 0 {
		body += "\n\n" + renderRows(attrs)
	} else {
		body += "\n\n" + labelStyle.Render("no decodable attributes")
	}

	_, err = fmt.Fprintln(w, titleStyle.Render(title)+"\n"+boxStyle.Render(body))

	return err
}
