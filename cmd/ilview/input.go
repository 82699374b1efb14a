package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cloudcmds/ilview/method"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// getInput resolves the method description bytes. There are three
// possibilities:
//  1. --code <json>
//  2. --stdin (read from stdin)
//  3. path as args[0]
func getInput(cmd *cobra.Command, args []string) ([]byte, error) {
	codeSet := cmd.Flags().Lookup("code").Changed
	stdinSet := viper.GetBool("stdin")
	fileProvided := len(args) > 0

	count := 0
	if codeSet {
		count++
	}
	if stdinSet {
		count++
	}
	if fileProvided {
		count++
	}
	if count > 1 {
		return nil, errors.New("multiple input sources specified")
	}
	if count == 0 {
		return nil, errors.New("no input provided")
	}

	if stdinSet {
		return io.ReadAll(os.Stdin)
	}
	if fileProvided {
		return os.ReadFile(args[0])
	}
	return []byte(viper.GetString("code")), nil
}

type methodDoc struct {
	Code     string            `json:"code"`
	MaxStack int               `json:"max_stack"`
	ZeroInit bool              `json:"zero_init"`
	Locals   []localDoc        `json:"locals"`
	Regions  []regionDoc       `json:"regions"`
	Markers  map[string]string `json:"markers"`
}

type localDoc struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Pinned bool   `json:"pinned"`
	ByRef  bool   `json:"by_ref"`
}

type regionDoc struct {
	Kind               string `json:"kind"`
	CatchType          uint32 `json:"catch_type"`
	Start              int    `json:"start"`
	End                int    `json:"end"`
	FilterHandlerStart int    `json:"filter_handler_start"`
}

// parseMethod decodes a JSON method description into a method.Body.
// The instruction bytes are a hex string (whitespace allowed), marker
// keys are decimal byte offsets, and regions may appear in any order.
func parseMethod(data []byte) (method.Body, error) {
	var doc methodDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return method.Body{}, err
	}

	code, err := decodeHex(doc.Code)
	if err != nil {
		return method.Body{}, fmt.Errorf("code: %w", err)
	}
	body := method.Body{
		Code:     code,
		MaxStack: doc.MaxStack,
		ZeroInit: doc.ZeroInit,
	}
	for _, l := range doc.Locals {
		body.Locals = append(body.Locals, method.Local{
			Name:   l.Name,
			Type:   l.Type,
			Pinned: l.Pinned,
			ByRef:  l.ByRef,
		})
	}
	for i, r := range doc.Regions {
		kind, err := parseKind(r.Kind)
		if err != nil {
			return method.Body{}, fmt.Errorf("region %d: %w", i, err)
		}
		body.Regions = append(body.Regions, method.Region{
			Kind:               kind,
			CatchType:          r.CatchType,
			Start:              r.Start,
			End:                r.End,
			FilterHandlerStart: r.FilterHandlerStart,
		})
	}
	if len(doc.Markers) > 0 {
		body.Markers = make(map[int]string, len(doc.Markers))
		for key, marker := range doc.Markers {
			offset, err := strconv.Atoi(key)
			if err != nil {
				return method.Body{}, fmt.Errorf("marker offset %q: %w", key, err)
			}
			body.Markers[offset] = marker
		}
	}
	method.SortRegions(body.Regions)
	return body, nil
}

func decodeHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	if clean == "" {
		return nil, nil
	}
	return hex.DecodeString(clean)
}

func parseKind(s string) (method.Kind, error) {
	switch strings.ToLower(s) {
	case "try", ".try":
		return method.Try, nil
	case "catch":
		return method.Catch, nil
	case "filter":
		return method.Filter, nil
	case "finally":
		return method.Finally, nil
	case "fault":
		return method.Fault, nil
	default:
		return 0, fmt.Errorf("unknown region kind %q", s)
	}
}
