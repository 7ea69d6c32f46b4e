package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwantia/assetdesk/data"
)

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeLogin:
		return m.renderLogin()
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

// renderMain renders the main asset browser view
func (m *Model) renderMain() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderContent())
	sections = append(sections, m.renderStatus())

	// Input area (if in input/command mode)
	if m.mode == ModeCommand || m.mode == ModeInput {
		sections = append(sections, m.renderInput())
	}

	if m.commandOut != "" {
		sections = append(sections, m.renderCommandOutput())
	}

	sections = append(sections, m.renderHelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTitle renders the title bar with grouping and filter
func (m *Model) renderTitle() string {
	title := fmt.Sprintf("Asset Desk - by %s", m.groupBy)
	if m.filter != "" {
		title += fmt.Sprintf(" - filter '%s'", m.filter)
	}
	if m.login != nil {
		if user, ok := m.login.Current(); ok {
			title += " - " + user.Email
		}
	}
	return m.theme.TitleStyle.Render(title)
}

// renderContent renders the asset list and preview pane
func (m *Model) renderContent() string {
	list := m.renderList()

	if m.showPreview {
		leftWidth := m.width / 2
		rightWidth := m.width - leftWidth - 4 // Account for borders

		listBox := m.theme.BorderStyle.
			Width(leftWidth).
			Height(m.getVisibleLines() + 2).
			Render(list)

		previewBox := m.theme.PreviewBorderStyle.
			Width(rightWidth).
			Height(m.getVisibleLines() + 2).
			Render(m.renderPreview(rightWidth - 2))

		return lipgloss.JoinHorizontal(lipgloss.Top, listBox, previewBox)
	}

	return m.theme.BorderStyle.
		Width(m.width - 4).
		Height(m.getVisibleLines() + 2).
		Render(list)
}

// renderList renders the visible group headers and assets
func (m *Model) renderList() string {
	if len(m.entries) == 0 {
		return m.theme.NormalItemStyle.Render("(no assets)")
	}

	var lines []string

	start := m.offset
	end := min(m.offset+m.getVisibleLines(), len(m.entries))
	for i := start; i < end; i++ {
		lines = append(lines, m.renderEntry(m.entries[i], i == m.cursor))
	}

	return strings.Join(lines, "\n")
}

// renderEntry renders a single group header or asset row
func (m *Model) renderEntry(entry *Entry, cursor bool) string {
	nameWidth := 40
	if m.showPreview {
		nameWidth = 28
	}

	var line string
	var style lipgloss.Style

	if entry.IsGroup() {
		count := entry.DisplayCount(m.selectedIn(entry))
		line = fmt.Sprintf("%s %s %s", entry.Icon(false), fit(entry.DisplayName(), nameWidth), count)
		style = m.theme.GroupStyle
	} else {
		selected := m.api.IsSelected(m.ctx, entry.Asset.ID)
		line = fmt.Sprintf("%s %s", entry.Icon(selected), fit(entry.DisplayName(), nameWidth))
		if len(entry.Asset.Tags) > 0 {
			line += " " + data.JoinTags(entry.Asset.Tags)
		}

		style = m.theme.AssetStyle
		if selected {
			style = m.theme.MarkedStyle
		}
	}

	if cursor {
		style = m.theme.CursorStyle.PaddingLeft(style.GetPaddingLeft())
	}

	return style.Render(line)
}

// renderPreview renders the details of the asset under the cursor
func (m *Model) renderPreview(width int) string {
	entry := m.currentEntry()
	if entry == nil {
		return m.theme.PreviewStyle.Render("No asset selected")
	}

	if entry.IsGroup() {
		info := fmt.Sprintf("Group: %s\n\n", entry.Label)
		info += fmt.Sprintf("Assets:   %d\n", len(entry.IDs))
		info += fmt.Sprintf("Selected: %d\n", m.selectedIn(entry))
		return m.theme.PreviewStyle.Render(info)
	}

	if m.previewErr != nil {
		return m.theme.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.previewErr))
	}

	asset := entry.Asset
	rows := [][2]string{
		{"Title", asset.DisplayTitle()},
		{"ID", asset.ID},
		{"Folder", asset.Folder},
		{"Category", asset.Category},
		{"Tags", data.JoinTags(asset.Tags)},
		{"Image", string(asset.ImageRef)},
		{"Modified", entry.DisplayModTime()},
	}

	var lines []string
	for _, row := range rows {
		lines = append(lines, m.theme.LabelStyle.Render(row[0])+" "+row[1])
	}

	lines = append(lines, "", "--- Display URL ---")
	if m.previewURL == "" {
		lines = append(lines, "(unavailable)")
	} else {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(m.previewURL))
	}

	return m.theme.PreviewStyle.Render(strings.Join(lines, "\n"))
}

// renderStatus renders the status bar
func (m *Model) renderStatus() string {
	assets := 0
	for _, entry := range m.entries {
		if !entry.IsGroup() {
			assets++
		}
	}

	left := fmt.Sprintf("%d assets", assets)
	if selected, err := m.api.Selected(m.ctx); err == nil && len(selected) > 0 {
		left += fmt.Sprintf(", %d selected", len(selected))
	}

	right := ""
	if m.errorMsg != "" {
		right = m.theme.ErrorStyle.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		right = m.statusMsg
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 0)

	statusLine := left + strings.Repeat(" ", spacing) + right
	return m.theme.StatusBarStyle.Width(m.width).Render(statusLine)
}

// renderInput renders the input field for commands or user input
func (m *Model) renderInput() string {
	prompt := "> "
	if m.mode == ModeCommand {
		prompt = ": "
	}

	return m.theme.CommandStyle.Render(prompt + m.textInput.View())
}

// renderCommandOutput renders the captured output of the last command
func (m *Model) renderCommandOutput() string {
	maxLines := 6
	lines := strings.Split(m.commandOut, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}

	return m.theme.PreviewBorderStyle.
		Width(m.width - 4).
		Render(strings.Join(lines, "\n"))
}

// renderHelpBar renders the bottom help bar
func (m *Model) renderHelpBar() string {
	return m.theme.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderHelp renders the full help screen
func (m *Model) renderHelp() string {
	var sections []string

	sections = append(sections, m.theme.TitleStyle.Render("Asset Desk - Help"))
	sections = append(sections, "")

	m.help.ShowAll = true
	sections = append(sections, m.help.View(m.keys))
	m.help.ShowAll = false
	sections = append(sections, "")

	sections = append(sections, m.theme.TitleStyle.Render("Commands:"))
	for _, command := range m.cmd.List() {
		sections = append(sections, fmt.Sprintf("  %-40s %s", command.Usage(), command.Description()))
	}
	sections = append(sections, "")

	sections = append(sections, m.theme.HelpStyle.Render("Press ? or q to return"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// fit pads or truncates name to exactly width cells
func fit(name string, width int) string {
	if lipgloss.Width(name) > width {
		runes := []rune(name)
		for lipgloss.Width(string(runes)) > width-3 && len(runes) > 0 {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "..."
	}
	return name + strings.Repeat(" ", width-lipgloss.Width(name))
}
