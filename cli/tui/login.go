package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleLoginMode drives the sign-in form
func (m *Model) handleLoginMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEscape:
		return m, tea.Quit

	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		return m, m.focusLogin(1 - m.loginFocus)

	case tea.KeyEnter:
		if m.loginFocus == 0 {
			return m, m.focusLogin(1)
		}
		return m, m.submitLogin()
	}

	return m, m.updateLoginInputs(msg)
}

func (m *Model) focusLogin(index int) tea.Cmd {
	m.loginFocus = index
	if index == 0 {
		m.password.Blur()
		return m.email.Focus()
	}

	m.email.Blur()
	return m.password.Focus()
}

func (m *Model) updateLoginInputs(msg tea.Msg) tea.Cmd {
	var cmds [2]tea.Cmd
	m.email, cmds[0] = m.email.Update(msg)
	m.password, cmds[1] = m.password.Update(msg)
	return tea.Batch(cmds[0], cmds[1])
}

func (m *Model) submitLogin() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	m.password.SetValue("")

	return func() tea.Msg {
		user, err := m.login.Login(email, password)
		if err != nil {
			DebugLog("Sign-in failed for %s: %v", email, err)
			return errorMsg("Invalid email or password")
		}
		return loggedInMsg{user: user}
	}
}

// renderLogin renders the sign-in form
func (m *Model) renderLogin() string {
	var sections []string

	sections = append(sections, m.theme.TitleStyle.Render("Asset Desk - Sign in"))
	sections = append(sections, "")
	sections = append(sections, fmt.Sprintf("%s %s", m.theme.LabelStyle.Render("Email"), m.email.View()))
	sections = append(sections, fmt.Sprintf("%s %s", m.theme.LabelStyle.Render("Password"), m.password.View()))
	sections = append(sections, "")

	if m.errorMsg != "" {
		sections = append(sections, m.theme.ErrorStyle.Render(m.errorMsg))
	} else if m.statusMsg != "" {
		sections = append(sections, m.statusMsg)
	}

	sections = append(sections, m.theme.HelpStyle.Render("tab switch field • enter sign in • esc quit"))

	form := m.theme.PreviewBorderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
