package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the progress view of lower and watch.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = map[string]uiMode{
	"":     uiModeAuto,
	"auto": uiModeAuto,
	"on":   uiModeOn,
	"off":  uiModeOff,
}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI picks the bubbletea view. Auto wants a capable terminal on
// stdout and at least two units.
func shouldUseTUI(mode uiMode, units int, quiet bool) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	if quiet || units < 2 || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stdout)
}
