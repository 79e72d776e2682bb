package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type checkLevel int

const (
	levelInfo checkLevel = iota
	levelOK
	levelWarn
	levelError
)

var checkLevelStyles = map[checkLevel]struct {
	label  string
	colors text.Colors
}{
	levelInfo:  {"INFO", text.Colors{text.FgBlue}},
	levelOK:    {"OK", text.Colors{text.FgGreen}},
	levelWarn:  {"WARN", text.Colors{text.FgYellow}},
	levelError: {"ERROR", text.Colors{text.FgRed}},
}

const checkLabelWidth = 20

// styler formats doctor lines and section headings, colouring them only
// when the destination is a terminal.
type styler struct {
	color bool
}

func newStyler(w io.Writer) styler {
	file, ok := w.(*os.File)
	if !ok {
		return styler{}
	}
	fd := file.Fd()
	return styler{color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (s styler) paint(colors text.Colors, value string) string {
	if !s.color {
		return value
	}
	return colors.Sprint(value)
}

// check renders "  Label:   [LEVEL] detail".
func (s styler) check(label string, level checkLevel, detail string) string {
	style := checkLevelStyles[level]
	status := "[" + style.label + "]"
	if detail != "" {
		status += " " + detail
	}
	return s.paint(style.colors, fmt.Sprintf("  %-*s %s", checkLabelWidth, label+":", status))
}

// heading returns a title line and a rule of the same width.
func (s styler) heading(title string) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len([]rune(line)))
	return []string{s.paint(text.Colors{text.FgBlue}, line), s.paint(text.Colors{text.FgBlue}, rule)}
}
