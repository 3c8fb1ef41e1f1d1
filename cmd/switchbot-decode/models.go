package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/robertof/go-switchbot-exporter/device/switchbot"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models the decoder knows about",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

type modelInfo struct {
	Discriminator          string `json:"discriminator,omitempty"`
	Model                  string `json:"model"`
	FriendlyName           string `json:"friendlyName"`
	ManufacturerID         int    `json:"manufacturerId"`
	ManufacturerDataLength int    `json:"manufacturerDataLength,omitempty"`
	// Only decodable when the model is passed explicitly.
	HintOnly bool `json:"hintOnly,omitempty"`
}

func listModels() []modelInfo {
	var out []modelInfo

	for _, d := range switchbot.Discriminators() {
		e, _ := switchbot.Lookup(d)

		out = append(out, modelInfo{
			Discriminator:          d.String(),
			Model:                  string(e.Model),
			FriendlyName:           e.FriendlyName,
			ManufacturerID:         e.ManufacturerID,
			ManufacturerDataLength: e.ManufacturerDataLength,
		})
	}

	for _, m := range switchbot.Models() {
		e, ok := switchbot.HintOnlyParser(m)

		if !ok {
			continue
		}

		out = append(out, modelInfo{
			Model:          string(e.Model),
			FriendlyName:   e.FriendlyName,
			ManufacturerID: e.ManufacturerID,
			HintOnly:       true,
		})
	}

	return out
}

func runModels(cmd *cobra.Command, args []string) error {
	models := listModels()
	w := cmd.OutOrStdout()

	if format() == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(models)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	line := "%-14s %-24s %-26s %-6s %s"

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(line, "DISCRIMINATOR", "MODEL", "NAME", "MFR", "LENGTH")))

	for _, m := range models {
		disc, length := m.Discriminator, "-"

		if m.ManufacturerDataLength != 0 {
			length = strconv.Itoa(m.ManufacturerDataLength)
		}

		text := fmt.Sprintf(line, disc, m.Model, m.FriendlyName, strconv.Itoa(m.ManufacturerID), length)

		if m.HintOnly {
			text = hintStyle.Render(fmt.Sprintf(line, "(model only)", m.Model, m.FriendlyName,
				strconv.Itoa(m.ManufacturerID), length))
		}

		fmt.Fprintln(w, text)
	}

	return nil
}
