package ui

import (
	"fmt"
	"strings"

	"gemini_chat/pkg/commands"
	"gemini_chat/pkg/ui/styles"

	"github.com/mattn/go-runewidth"
)

const welcomeBoxWidth = 53

// WelcomeMessage returns the banner printed before the first prompt.
func WelcomeMessage(model, versionText string, handlers []commands.Handler) string {
	border := styles.WelcomeBorderStyle

	makeLine := func(content string, visualWidth int) string {
		pad := welcomeBoxWidth - visualWidth
		if pad < 0 {
			pad = 0
		}
		return border.Render("│") + content + strings.Repeat(" ", pad) + border.Render("│")
	}
	centered := func(text string, render func(...string) string) string {
		width := runewidth.StringWidth(text)
		if width > welcomeBoxWidth-2 {
			text = runewidth.Truncate(text, welcomeBoxWidth-2, "…")
			width = runewidth.StringWidth(text)
		}
		left := (welcomeBoxWidth - width) / 2
		return makeLine(strings.Repeat(" ", left)+render(text), left+width)
	}

	top := border.Render("╭" + strings.Repeat("─", welcomeBoxWidth) + "╮")
	bottom := border.Render("╰" + strings.Repeat("─", welcomeBoxWidth) + "╯")
	empty := makeLine("", 0)

	lines := []string{"", top}
	lines = append(lines, centered("Welcome to Enhanced Gemini Chatbot!", styles.TitleStyle.Render))
	lines = append(lines, centered("Using model: "+model, styles.InfoStyle.Render))
	lines = append(lines, empty)

	header := "  Available commands:"
	lines = append(lines, makeLine(styles.InfoStyle.Render(header), runewidth.StringWidth(header)))
	for _, h := range groupHandlers(handlers) {
		key := fmt.Sprintf("    %-14s", h.names)
		line := styles.WelcomeKeyStyle.Render(key) + styles.InfoStyle.Render(h.desc)
		lines = append(lines, makeLine(line, runewidth.StringWidth(key)+runewidth.StringWidth(h.desc)))
	}

	lines = append(lines, empty)
	if versionText != "" {
		lines = append(lines, centered(versionText, styles.WelcomeVersionStyle.Render))
	}
	lines = append(lines, bottom)

	return strings.Join(lines, "\n") + "\n"
}

type handlerGroup struct {
	names string
	desc  string
}

// groupHandlers folds aliases with the same description into one line.
func groupHandlers(handlers []commands.Handler) []handlerGroup {
	var groups []handlerGroup
	index := make(map[string]int)
	for _, h := range handlers {
		if i, ok := index[h.Description()]; ok {
			groups[i].names += ", " + h.Name()
			continue
		}
		index[h.Description()] = len(groups)
		groups = append(groups, handlerGroup{names: h.Name(), desc: h.Description()})
	}
	return groups
}
