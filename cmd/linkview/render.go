package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vmunix/linkview/internal/render"
	"github.com/vmunix/linkview/internal/store"
)

func statusColor(s store.Status) text.Colors {
	switch s {
	case store.StatusLinked:
		return text.Colors{text.FgGreen}
	case store.StatusFailed:
		return text.Colors{text.FgRed}
	case store.StatusManual:
		return text.Colors{text.FgYellow}
	case store.StatusPending:
		return text.Colors{text.FgCyan}
	case store.StatusMatched:
		return text.Colors{text.FgBlue}
	case store.StatusIgnored:
		return text.Colors{text.FgHiBlack}
	}
	return nil
}

func statusBadge(s store.Status) string {
	return statusColor(s).Sprint(string(s))
}

func statusOf(s string) store.Status {
	return store.Status(s)
}

// actionHints shows which actions a file's status exposes.
func actionHints(a store.Actions) string {
	var hints []string
	if a.Correct {
		hints = append(hints, "match")
	}
	if a.Reprocess {
		hints = append(hints, "reprocess")
	}
	if a.Ignore {
		hints = append(hints, "ignore")
	}
	if len(hints) == 0 {
		return ""
	}
	return "  [" + strings.Join(hints, "|") + "]"
}

// renderNodes turns the display tree into indented terminal text.
func renderNodes(nodes []render.Node) string {
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedLight)

	depth := 0
	indentTo := func(want int) {
		for depth < want {
			lw.Indent()
			depth++
		}
		for depth > want {
			lw.UnIndent()
			depth--
		}
	}

	for _, node := range nodes {
		switch n := node.(type) {
		case render.GroupHeader:
			indentTo(0)
			lw.AppendItem(groupLine(n))
		case render.SeasonHeader:
			indentTo(1)
			lw.AppendItem(fmt.Sprintf("%s  %s  (%d files)", n.Label, statusBadge(n.Status), n.ItemCount))
		case render.ItemRow:
			if n.Season != nil {
				indentTo(2)
			} else {
				indentTo(1)
			}
			lw.AppendItem(itemLine(n))
		}
	}

	return lw.Render()
}

func groupLine(n render.GroupHeader) string {
	title := n.Title
	if n.Year > 0 {
		title = fmt.Sprintf("%s (%d)", title, n.Year)
	}
	marker := "+"
	if n.Expanded {
		marker = "-"
	}
	return fmt.Sprintf("%s %s  [%s]  %s  %s",
		marker, text.Bold.Sprint(title), n.MediaType, statusBadge(n.Status), badgeCounts(n.Counts))
}

func badgeCounts(c render.Counts) string {
	parts := []string{fmt.Sprintf("%d files", c.Total)}
	if c.Linked > 0 {
		parts = append(parts, text.FgGreen.Sprintf("%d linked", c.Linked))
	}
	if c.Pending > 0 {
		parts = append(parts, text.FgCyan.Sprintf("%d pending", c.Pending))
	}
	if c.Manual > 0 {
		parts = append(parts, text.FgYellow.Sprintf("%d manual", c.Manual))
	}
	if c.Failed > 0 {
		parts = append(parts, text.FgRed.Sprintf("%d failed", c.Failed))
	}
	return strings.Join(parts, ", ")
}

func itemLine(n render.ItemRow) string {
	line := fmt.Sprintf("#%d %s  %s", n.ID, n.Filename, statusBadge(n.Status))
	if n.Episode != nil {
		line = fmt.Sprintf("#%d E%02d %s  %s", n.ID, *n.Episode, n.Filename, statusBadge(n.Status))
	}
	if n.Error != "" {
		line += "  " + text.FgRed.Sprint(n.Error)
	}
	return line + actionHints(n.Actions)
}

func statsLine(total, pending, matched, linked, failed, manual, ignored int) string {
	return fmt.Sprintf("%d files: %s  %s  %s  %s  %s  %s",
		total,
		text.FgCyan.Sprintf("%d pending", pending),
		text.FgBlue.Sprintf("%d matched", matched),
		text.FgGreen.Sprintf("%d linked", linked),
		text.FgRed.Sprintf("%d failed", failed),
		text.FgYellow.Sprintf("%d manual", manual),
		text.FgHiBlack.Sprintf("%d ignored", ignored),
	)
}
