package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/robertof/go-switchbot-exporter/device/switchbot"
)

var (
	serviceData      string
	serviceUUID      string
	manufacturerData []string
	modelHint        string
	address          string
	rssi             int
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a single advertisement",
	Example: `  switchbot-decode decode --service-data 63c058001104
  switchbot-decode decode --manufacturer 2409:e7ab46ac8f927c0f001104 --model WoCurtain
  switchbot-decode decode --service-data 5400e4069835 -o json`,
	Args: cobra.NoArgs,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&serviceData, "service-data", "s", "", "Service data (hex)")
	decodeCmd.Flags().StringVar(&serviceUUID, "service-uuid", switchbot.ServiceUUID, "UUID the service data was advertised under")
	decodeCmd.Flags().StringArrayVarP(&manufacturerData, "manufacturer", "m", nil,
		"Manufacturer data as <company id>:<hex>, repeatable")
	decodeCmd.Flags().StringVar(&modelHint, "model", "", "Decode as this model (see the models command)")
	decodeCmd.Flags().StringVar(&address, "address", "", "Address reported in the output")
	decodeCmd.Flags().IntVar(&rssi, "rssi", 0, "RSSI reported in the output")

	rootCmd.AddCommand(decodeCmd)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(s)

	return hex.DecodeString(s)
}

func parseManufacturerData(values []string) (map[int][]byte, error) {
	out := make(map[int][]byte)

	for _, v := range values {
		id, data, ok := strings.Cut(v, ":")

		if !ok {
			return nil, fmt.Errorf("invalid manufacturer data %q: expected <company id>:<hex>", v)
		}

		companyID, err := strconv.ParseUint(id, 0, 16)

		if err != nil {
			return nil, fmt.Errorf("invalid company id %q: %w", id, err)
		}

		payload, err := decodeHex(data)

		if err != nil {
			return nil, fmt.Errorf("invalid manufacturer data %q: %w", data, err)
		}

		out[int(companyID)] = payload
	}

	return out, nil
}

func buildAdvertisement() (switchbot.RawAdvertisement, error) {
	raw := switchbot.RawAdvertisement{
		Address:          address,
		RSSI:             rssi,
		ServiceData:      make(map[string][]byte),
		ManufacturerData: make(map[int][]byte),
	}

	if serviceData != "" {
		sd, err := decodeHex(serviceData)

		if err != nil {
			return raw, fmt.Errorf("invalid service data: %w", err)
		}

		raw.ServiceData[strings.ToLower(serviceUUID)] = sd
	}

	mfr, err := parseManufacturerData(manufacturerData)

	if err != nil {
		return raw, err
	}

	raw.ManufacturerData = mfr

	return raw, nil
}

// decode resolves raw the way the exporter does, falling back to the
// explicit decoder for models which can only be decoded by name.
func decode(raw switchbot.RawAdvertisement, model switchbot.Model) (*switchbot.Advertisement, error) {
	if _, ok := switchbot.HintOnlyParser(model); !ok {
		return switchbot.ParseAdvertisementData(raw, model), nil
	}

	sd, mfr, _ := switchbot.SelectPayloads(raw)

	data, err := switchbot.DefaultResolver().DecodeAs(model, sd, mfr)

	if err != nil {
		return nil, err
	}

	return &switchbot.Advertisement{
		Address: raw.Address,
		Data:    data,
		RSSI:    raw.RSSI,
		Active:  sd != nil,
	}, nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	if serviceData == "" && len(manufacturerData) == 0 {
		return fmt.Errorf("at least one of --service-data or --manufacturer is required")
	}

	raw, err := buildAdvertisement()

	if err != nil {
		return err
	}

	adv, err := decode(raw, switchbot.Model(modelHint))

	if err != nil {
		return err
	}

	if adv == nil {
		return fmt.Errorf("not a SwitchBot advertisement")
	}

	return writeAdvertisement(cmd.OutOrStdout(), adv, format())
}

func writeAdvertisement(w io.Writer, adv *switchbot.Advertisement, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(adv)
	case "cbor":
		data, err := cbor.Marshal(adv)

		if err != nil {
			return fmt.Errorf("failed to encode CBOR: %w", err)
		}

		// binary output would garble the terminal.
		if w == os.Stdout && isTerminal() {
			_, err = fmt.Fprintln(w, hex.EncodeToString(data))
			return err
		}

		_, err = w.Write(data)
		return err
	case "table":
		return writeTable(w, adv)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
