package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cloudcmds/ilview/dis"
	"github.com/cloudcmds/ilview/method"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", color.New(color.FgRed).Sprint(s))
	os.Exit(1)
}

func isTerminalOutput() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

func disOptions() []dis.Option {
	var opts []dis.Option
	if viper.GetBool("validate") {
		opts = append(opts, dis.WithValidation())
	}
	return opts
}

func formatOutput(body method.Body, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return dis.Disassemble(body, disOptions()...)
	case "table":
		instructions, err := dis.Decode(body, disOptions()...)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		dis.Print(instructions, &buf)
		return buf.String(), nil
	case "json":
		instructions, err := dis.Decode(body, disOptions()...)
		if err != nil {
			return "", err
		}
		output, err := getOutputJSON(instructionRows(instructions))
		if err != nil {
			return "", err
		}
		return string(output) + "\n", nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

type instructionRow struct {
	Offset  string   `json:"offset"`
	Opcode  string   `json:"opcode"`
	Operand string   `json:"operand,omitempty"`
	Targets []string `json:"targets,omitempty"`
	Unknown bool     `json:"unknown,omitempty"`
}

func instructionRows(instructions []dis.Instruction) []instructionRow {
	rows := make([]instructionRow, 0, len(instructions))
	for _, in := range instructions {
		row := instructionRow{
			Offset:  dis.Label(in.Offset),
			Opcode:  in.Name,
			Operand: in.Operand,
			Unknown: in.Unknown,
		}
		for _, target := range in.Targets {
			row.Targets = append(row.Targets, dis.Label(target))
		}
		rows = append(rows, row)
	}
	return rows
}

func getOutputJSON(result interface{}) ([]byte, error) {
	if viper.GetBool("no-color") || !isTerminalOutput() {
		return json.MarshalIndent(result, "", "  ")
	}
	return prettyjson.Marshal(result)
}
