package main

import (
	"testing"

	"github.com/cloudcmds/ilview/method"
	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestFormatOutputText(t *testing.T) {
	body := method.Body{Code: []byte{0x00, 0x2A}, MaxStack: 1}
	output, err := formatOutput(body, "text")
	require.NoError(t, err)
	require.Contains(t, output, "IL_0000:  nop\n")
	require.Contains(t, output, "IL_0001:  ret\n")

	// Empty format defaults to text.
	fallback, err := formatOutput(body, "")
	require.NoError(t, err)
	require.Equal(t, output, fallback)
}

func TestFormatOutputTable(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	body := method.Body{Code: []byte{0x00, 0x2A}, MaxStack: 1}
	output, err := formatOutput(body, "table")
	require.NoError(t, err)
	require.Contains(t, output, "| OFFSET")
	require.Contains(t, output, "| IL_0000 | nop")
}

func TestFormatOutputJSON(t *testing.T) {
	viper.Set("no-color", true)
	defer viper.Set("no-color", false)

	body := method.Body{Code: []byte{0x2B, 0xFE, 0x2A}, MaxStack: 1}
	output, err := formatOutput(body, "json")
	require.NoError(t, err)
	require.Contains(t, output, `"offset": "IL_0000"`)
	require.Contains(t, output, `"opcode": "br.s"`)
	require.Contains(t, output, `"targets": [`)
}

func TestFormatOutputUnknownFormat(t *testing.T) {
	_, err := formatOutput(method.Body{}, "yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown output format: yaml")
}

func TestFormatOutputValidate(t *testing.T) {
	viper.Set("validate", true)
	defer viper.Set("validate", false)

	body := method.Body{
		Code: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 4},
			{Kind: method.Try, Start: 2, End: 6},
		},
	}
	_, err := formatOutput(body, "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "overlap without nesting")
}
