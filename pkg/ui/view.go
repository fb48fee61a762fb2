package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/store"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	if msg := m.session.RecalculationError(); msg != "" {
		b.WriteString(errorBannerStyle.Render(fmt.Sprintf("recalculation failed: %s  (e to dismiss)", msg)))
		b.WriteString("\n")
	}

	body := m.graphView()
	if m.session.Parameters().ShowAlternativePaths {
		alt := m.alternativesView()
		if m.width >= 100 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, alt)
		} else {
			body = body + "\n" + alt
		}
	}
	m.viewport.SetContent(body)
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.searchView())
		b.WriteString("\n")
	}
	if m.noteEditing {
		b.WriteString("note: " + m.noteInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) headerView() string {
	parts := []string{
		titleStyle.Render(m.title),
		headerStyle.Render(fmt.Sprintf("depth %d/%d", m.displayDepth(), m.session.MaxDepth())),
	}
	if m.session.AutoRecalculationEnabled() {
		parts = append(parts, mutedStyle.Render("auto"))
	} else {
		parts = append(parts, mutedStyle.Render("manual"))
	}
	if m.session.PendingChanges() {
		parts = append(parts, pendingStyle.Render("pending"))
	}
	if m.session.State() == store.StateRecalculating {
		parts = append(parts, pendingStyle.Render("recalculating"))
	}
	if profile := m.session.Profile(); profile != "" {
		parts = append(parts, mutedStyle.Render(profile))
	}
	return strings.Join(parts, "  ")
}

// graphView lists the current graph ring by ring.
func (m Model) graphView() string {
	g := m.session.CurrentGraph()
	if len(g.Nodes) == 0 {
		return mutedStyle.Render("no nodes to show")
	}

	width := m.width
	if m.session.Parameters().ShowAlternativePaths && m.width >= 100 {
		width = m.width * 3 / 5
	}

	byID := make(map[string]model.FlowNode, len(g.Nodes))
	for i := range g.Nodes {
		byID[g.Nodes[i].ID] = g.Nodes[i]
	}

	var b strings.Builder
	lastDepth := -1
	for i, id := range m.nodeOrder {
		n, ok := byID[id]
		if !ok {
			continue
		}
		if n.Depth != lastDepth {
			if lastDepth != -1 {
				b.WriteString("\n")
			}
			b.WriteString(ringHeaderStyle.Render(fmt.Sprintf("ring %d", n.Depth)))
			b.WriteString("\n")
			lastDepth = n.Depth
		}

		marker := kindStyle(string(n.Kind)).Render("●")
		label := truncate.StringWithTail(n.Label, uint(max(20, width-24)), "…")
		line := fmt.Sprintf("%s %s", marker, label)
		if len(n.Actions) > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" (%d actions)", len(n.Actions)))
		}
		if i == m.selected {
			pad := width - 4 - runewidth.StringWidth(stripForWidth(line))
			if pad < 0 {
				pad = 0
			}
			line = selectedStyle.Render("> "+stripForWidth(line)) + strings.Repeat(" ", pad)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// stripForWidth drops styling so width math and highlight rendering work on
// the plain text.
func stripForWidth(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m Model) alternativesView() string {
	alts := m.session.AlternativePaths()
	if len(alts) == 0 {
		return panelStyle.Render(mutedStyle.Render("no alternative paths at this depth"))
	}

	var b strings.Builder
	b.WriteString(pathTitleStyle.Render("alternative paths"))
	b.WriteString("\n\n")
	for i, p := range alts {
		b.WriteString(fmt.Sprintf("%d. %s  %s\n", i+1,
			pathTitleStyle.Render(p.Name),
			headerStyle.Render(fmt.Sprintf("score %.0f", p.Score))))
		b.WriteString(mutedStyle.Render("   "+p.EstimatedTime) + "\n")
		if len(p.TopSkills) > 0 {
			b.WriteString(mutedStyle.Render("   skills: "+strings.Join(p.TopSkills, ", ")) + "\n")
		}
		if len(p.CareerOutcomes) > 0 {
			b.WriteString(mutedStyle.Render("   outcomes: "+strings.Join(p.CareerOutcomes, ", ")) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("press 1-5 to apply a path"))
	return panelStyle.Render(b.String())
}

func (m Model) searchView() string {
	var b strings.Builder
	b.WriteString("/" + m.searchInput.View())
	for _, match := range m.matches {
		b.WriteString("\n  " + kindStyle(string(match.Node.Kind)).Render("●") + " " + match.Node.Label)
	}
	return b.String()
}

func (m Model) statusView() string {
	if m.status != "" {
		return statusBarStyle.Render(m.status)
	}
	metrics := m.session.Metrics()
	left := fmt.Sprintf("recalcs %d  last %.1fms  avg %.1fms",
		metrics.TotalRecalculations, metrics.LastRecalculationMs, metrics.AverageRecalculationMs)
	if metrics.ErrorCount > 0 {
		left += fmt.Sprintf("  errors %d", metrics.ErrorCount)
	}
	return statusBarStyle.Render(left + "  " + mutedStyle.Render("? help  q quit"))
}

func (m Model) helpView() string {
	rows := []struct{ key, desc string }{
		{"↑/↓ j/k", "select node"},
		{"+/- ←/→", "change depth (debounced)"},
		{"a", "toggle alternative paths explorer"},
		{"1-5", "apply an alternative path"},
		{"r", "reset to original tree"},
		{"t", "force recalculation"},
		{"m", "toggle auto-recalculation"},
		{"e", "dismiss error banner"},
		{"/", "fuzzy jump to node"},
		{"n", "edit note for selected node"},
		{"c", "copy selected node id"},
		{"s", "export SVG + JSON snapshot"},
		{"S", "save current tree to database"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("pathview keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", r.key, r.desc))
	}
	b.WriteString("\n" + mutedStyle.Render("any key to close"))
	return panelStyle.Render(b.String())
}
