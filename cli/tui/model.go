package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/assetdesk/cmd"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/session"
)

// Mode represents the current interaction mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeLogin
	ModeCommand
	ModeInput
	ModeHelp
)

// InputType represents what kind of input we're collecting
type InputType int

const (
	InputCommand InputType = iota
	InputFilter
	InputDelete
)

// Login signs operators in and out. Nil when the desk runs without credentials.
type Login interface {
	Login(email, password string) (*session.User, error)
	Current() (session.User, bool)
	Logout()
}

// Model represents the state of the TUI application
type Model struct {
	// Core components
	ctx   context.Context
	api   cmd.API
	cmd   *cmd.CommandManager
	login Login
	theme *Theme
	keys  KeyMap
	help  help.Model

	// Browse state
	groupBy data.GroupField
	filter  string
	entries []*Entry
	cursor  int
	offset  int

	// View state
	width       int
	height      int
	showPreview bool
	previewURL  string
	previewErr  error
	previewGen  int // Generation counter to prevent race conditions

	// Mode state
	mode      Mode
	inputType InputType
	textInput textinput.Model

	// Login form
	email      textinput.Model
	password   textinput.Model
	loginFocus int

	// Status
	statusMsg  string
	errorMsg   string
	commandOut string
}

// NewModel creates a new TUI model. With a non-nil login the browser starts at the sign-in form.
func NewModel(ctx context.Context, api cmd.API, manager *cmd.CommandManager, login Login) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command..."
	ti.CharLimit = 512

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 256

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 256
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m := &Model{
		ctx:         ctx,
		api:         api,
		cmd:         manager,
		login:       login,
		theme:       DefaultTheme(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		groupBy:     data.GroupByFolder,
		showPreview: true,
		textInput:   ti,
		email:       email,
		password:    password,
	}

	if login != nil {
		if _, ok := login.Current(); !ok {
			m.mode = ModeLogin
			m.email.Focus()
		}
	}

	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	if m.mode == ModeLogin {
		return textinput.Blink
	}

	return tea.Batch(
		m.reloadCatalog(),
		textinput.Blink,
	)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case catalogLoadedMsg:
		m.entries = msg.entries
		m.errorMsg = ""
		if msg.status != "" {
			m.statusMsg = msg.status
		}
		m.clampCursor()
		return m, m.updatePreview()

	case previewLoadedMsg:
		// Only update if this preview is for the current generation
		if msg.generation == m.previewGen {
			m.previewURL = msg.url
			m.previewErr = msg.err
		} else {
			DebugLog("Ignoring stale preview (gen %d, current %d)", msg.generation, m.previewGen)
		}
		return m, nil

	case commandExecutedMsg:
		m.commandOut = msg.output
		m.errorMsg = msg.error
		m.statusMsg = msg.status
		return m, m.loadCatalog("")

	case loggedInMsg:
		m.mode = ModeNormal
		m.email.Blur()
		m.password.Blur()
		m.password.SetValue("")
		m.errorMsg = ""
		m.statusMsg = fmt.Sprintf("Signed in as %s", msg.user.Email)
		return m, m.reloadCatalog()

	case errorMsg:
		m.errorMsg = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	// Handle text input updates when in input mode
	switch m.mode {
	case ModeCommand, ModeInput:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	case ModeLogin:
		return m, m.updateLoginInputs(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeLogin:
		return m.handleLoginMode(msg)
	case ModeCommand, ModeInput:
		return m.handleInputMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}

	return m, nil
}

// handleNormalMode processes keys in normal browsing mode
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-10)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(10)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Bottom):
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
			m.moveCursor(0)
		}
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleCurrent()

	case key.Matches(msg, m.keys.SelectGroup):
		return m, m.selectCurrentGroup()

	case key.Matches(msg, m.keys.Clear):
		return m, m.runLine("clear")

	case key.Matches(msg, m.keys.GroupBy):
		if m.groupBy == data.GroupByFolder {
			m.groupBy = data.GroupByCategory
		} else {
			m.groupBy = data.GroupByFolder
		}
		m.cursor = 0
		m.offset = 0
		return m, m.loadCatalog(fmt.Sprintf("Grouped by %s", m.groupBy))

	case key.Matches(msg, m.keys.Filter):
		m.startInput(InputFilter, "Filter by title, tag or category")
		m.textInput.SetValue(m.filter)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.startInput(InputDelete, "Delete the selected assets? (y/n)")
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.runLine("export")

	case key.Matches(msg, m.keys.Download):
		return m, m.runLine("download")

	case key.Matches(msg, m.keys.Share):
		return m, m.runLine("share")

	case key.Matches(msg, m.keys.Edit):
		if entry := m.currentEntry(); entry != nil && !entry.IsGroup() {
			m.startInput(InputCommand, ":")
			m.textInput.SetValue(editLine(entry.Asset))
			m.textInput.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Upload):
		folder := m.api.Folders().Default()
		if entry := m.currentEntry(); entry != nil && m.groupBy == data.GroupByFolder && m.api.Folders().Contains(entry.Group) {
			folder = entry.Group
		}
		m.startInput(InputCommand, ":")
		m.textInput.SetValue(fmt.Sprintf("upload --folder %s ", quoteArg(folder)))
		m.textInput.CursorEnd()
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.showPreview = !m.showPreview
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCatalog()

	case key.Matches(msg, m.keys.Logout):
		if m.login == nil {
			return m, nil
		}
		m.login.Logout()
		m.entries = nil
		m.commandOut = ""
		m.mode = ModeLogin
		m.loginFocus = 0
		m.statusMsg = "Signed out"
		return m, m.email.Focus()

	case key.Matches(msg, m.keys.Command):
		m.startInput(InputCommand, ":")
		return m, nil
	}

	return m, nil
}

// handleInputMode processes keys when collecting user input
func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.cancelInput()
		return m, nil

	case tea.KeyEnter:
		return m, m.submitInput()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleHelpMode processes keys in help mode
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit), msg.Type == tea.KeyEscape:
		m.mode = ModeNormal
		return m, nil
	}
	return m, nil
}

// startInput enters input mode with the specified type and prompt
func (m *Model) startInput(inputType InputType, prompt string) {
	m.mode = ModeInput
	m.inputType = inputType
	m.textInput.Placeholder = prompt
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.errorMsg = ""
	m.statusMsg = ""

	if inputType == InputCommand {
		m.mode = ModeCommand
	}
}

// cancelInput exits input mode without taking action
func (m *Model) cancelInput() {
	m.mode = ModeNormal
	m.textInput.Blur()
	m.textInput.SetValue("")
}

// submitInput processes the collected input
func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.textInput.Value())
	inputType := m.inputType
	m.cancelInput()

	switch inputType {
	case InputFilter:
		m.filter = value
		m.cursor = 0
		m.offset = 0
		return m.loadCatalog("")
	case InputDelete:
		if strings.EqualFold(value, "y") || strings.EqualFold(value, "yes") {
			return m.runLine("delete")
		}
		return nil
	case InputCommand:
		if value == "" {
			return nil
		}
		return m.runLine(value)
	}

	return nil
}

// moveCursor moves the cursor by delta, handling bounds and scrolling
func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}

	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	visibleLines := m.getVisibleLines()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleLines {
		m.offset = m.cursor - visibleLines + 1
	}
}

// getVisibleLines returns how many rows can be displayed
func (m *Model) getVisibleLines() int {
	// Reserve space for title, status bar, help, and padding
	reserved := 8
	available := m.height - reserved
	if available < 5 {
		return 5
	}
	return available
}

// currentEntry returns the row under the cursor
func (m *Model) currentEntry() *Entry {
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		return m.entries[m.cursor]
	}
	return nil
}

// selectedIn counts the selected assets of a group header
func (m *Model) selectedIn(entry *Entry) int {
	count := 0
	for _, id := range entry.IDs {
		if m.api.IsSelected(m.ctx, id) {
			count++
		}
	}
	return count
}

// Messages for async operations
type catalogLoadedMsg struct {
	entries []*Entry
	status  string
}

type previewLoadedMsg struct {
	url        string
	err        error
	generation int // Which preview request this is for
}

type commandExecutedMsg struct {
	output string
	status string
	error  string
}

type loggedInMsg struct {
	user *session.User
}

type errorMsg string

// loadCatalog regroups the local catalog without contacting the store
func (m *Model) loadCatalog(status string) tea.Cmd {
	ctx, by, filter := m.ctx, m.groupBy, m.filter

	return func() tea.Msg {
		groups, err := m.api.Groups(ctx, by, filter)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load catalog: %v", err))
		}
		return catalogLoadedMsg{entries: flatten(groups), status: status}
	}
}

// reloadCatalog fetches every record from the store, then regroups
func (m *Model) reloadCatalog() tea.Cmd {
	ctx, by, filter := m.ctx, m.groupBy, m.filter

	return func() tea.Msg {
		if err := m.api.Reload(ctx); err != nil {
			return errorMsg(fmt.Sprintf("Failed to reload catalog: %v", err))
		}

		groups, err := m.api.Groups(ctx, by, filter)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load catalog: %v", err))
		}
		return catalogLoadedMsg{entries: flatten(groups), status: "Catalog reloaded"}
	}
}

func (m *Model) updatePreview() tea.Cmd {
	if !m.showPreview {
		return nil
	}

	entry := m.currentEntry()

	// Increment generation counter for new preview
	m.previewGen++
	currentGen := m.previewGen

	if entry == nil || entry.IsGroup() {
		return func() tea.Msg {
			return previewLoadedMsg{generation: currentGen}
		}
	}

	ctx, id := m.ctx, entry.Asset.ID
	return func() tea.Msg {
		DebugLog("Loading preview gen=%d for: %s", currentGen, id)

		url, err := m.api.DisplayURL(ctx, id)
		return previewLoadedMsg{url: url, err: err, generation: currentGen}
	}
}

func (m *Model) toggleCurrent() tea.Cmd {
	entry := m.currentEntry()
	if entry == nil {
		return nil
	}
	if entry.IsGroup() {
		return m.selectCurrentGroup()
	}

	if _, err := m.api.Toggle(m.ctx, entry.Asset.ID); err != nil {
		m.errorMsg = err.Error()
		return nil
	}

	m.moveCursor(1)
	return m.updatePreview()
}

func (m *Model) selectCurrentGroup() tea.Cmd {
	entry := m.currentEntry()
	if entry == nil {
		return nil
	}

	selected, err := m.api.SelectGroup(m.ctx, m.groupBy, entry.Group)
	if err != nil {
		m.errorMsg = err.Error()
		return nil
	}

	if selected {
		m.statusMsg = fmt.Sprintf("Selected '%s'", entry.Label)
	} else {
		m.statusMsg = fmt.Sprintf("Deselected '%s'", entry.Label)
	}
	return nil
}

// runLine executes a command line through the command manager and captures its output
func (m *Model) runLine(line string) tea.Cmd {
	ctx := m.ctx

	return func() tea.Msg {
		DebugLog("Executing: %s", line)

		var buf bytes.Buffer
		exitCode, err := m.cmd.ExecuteLine(ctx, &buf, line)

		msg := commandExecutedMsg{output: strings.TrimRight(buf.String(), "\n")}
		switch {
		case err != nil:
			msg.error = err.Error()
		case exitCode != 0:
			msg.error = fmt.Sprintf("Command exited with code %d", exitCode)
		default:
			msg.status = "Command executed"
		}
		return msg
	}
}

func editLine(asset *data.Asset) string {
	return fmt.Sprintf("edit %s --title %s --tags %s --category %s",
		asset.ID, quoteArg(asset.Title), quoteArg(data.JoinTags(asset.Tags)), quoteArg(asset.Category))
}

// quoteArg wraps value in quotes the command line splitter understands
func quoteArg(value string) string {
	if strings.Contains(value, `"`) {
		return "'" + value + "'"
	}
	return `"` + value + `"`
}
