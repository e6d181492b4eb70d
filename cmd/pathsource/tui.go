package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pathsource/internal/appupdate"
	"pathsource/internal/core"
	"pathsource/internal/filesystem"
	"pathsource/internal/history"
	"pathsource/pkg/pathsource"
)

var (
	listStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	previewStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	folderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// completionMsg carries the items for request seq. Stale sequences are
// dropped on arrival.
type completionMsg struct {
	seq   int
	items []pathsource.Item
}

type previewMsg struct {
	seq      int
	markdown string
}

type updateAvailableMsg struct {
	version string
}

// itemSource adapts the filter words to the fuzzy matcher.
type itemSource []pathsource.Item

func (s itemSource) String(i int) string { return s[i].FilterText }
func (s itemSource) Len() int            { return len(s) }

// browserModel is the interactive completion browser: a line editor on top,
// the candidates for the resolved directory on the left, and a preview of
// the selected file on the right.
type browserModel struct {
	source  *pathsource.Source
	history *history.Manager

	input      textinput.Model
	items      []pathsource.Item
	filtered   []pathsource.Item
	selected   int
	previewDoc string

	seq        int
	previewSeq int

	dirname  string
	resolved bool
	chosen   string

	updateNotice string
	width        int
	height       int
}

func newBrowserModel(source *pathsource.Source, historyManager *history.Manager) browserModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "../src/"
	input.Focus()

	return browserModel{
		source:  source,
		history: historyManager,
		input:   input,
		width:   80,
		height:  24,
	}
}

func (m browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, m.requestPreview()
		case "down", "ctrl+n":
			if m.selected < len(m.filtered)-1 {
				m.selected++
			}
			return m, m.requestPreview()
		case "tab":
			return m.accept(false)
		case "enter":
			return m.accept(true)
		}

	case completionMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.items = msg.items
		m.refilter()
		return m, m.requestPreview()

	case previewMsg:
		if msg.seq == m.previewSeq {
			m.previewDoc = msg.markdown
		}
		return m, nil

	case updateAvailableMsg:
		m.updateNotice = fmt.Sprintf("pathsource %s is available, run `pathsource update`", msg.version)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.requestCompletion())
}

// accept inserts the selected candidate into the line. Submitting on a file
// ends the session with its absolute path as the result.
func (m browserModel) accept(submit bool) (tea.Model, tea.Cmd) {
	if m.selected >= len(m.filtered) {
		return m, nil
	}
	item := m.filtered[m.selected]

	if submit && item.Kind == pathsource.ItemKindFile {
		m.chosen = item.Data.Path
		m.recordHistory()
		return m, tea.Quit
	}

	line := m.input.Value()
	start := wordStart(line)
	m.input.SetValue(line[:start] + item.InsertText)
	m.input.CursorEnd()
	return m, m.requestCompletion()
}

// requestCompletion resolves the current line and kicks off a scan. The
// sequence number invalidates any in-flight request.
func (m *browserModel) requestCompletion() tea.Cmd {
	line := m.input.Value()
	reqCtx := pathsource.Context{
		LineBeforeCursor: line,
		Offset:           wordStart(line),
	}

	m.dirname, m.resolved = m.source.Resolve(reqCtx)
	m.seq++
	seq := m.seq

	if !m.resolved {
		m.items = nil
		m.refilter()
		return nil
	}

	source := m.source
	return func() tea.Msg {
		result := <-source.Complete(context.Background(), reqCtx)
		return completionMsg{seq: seq, items: result.Items}
	}
}

func (m *browserModel) requestPreview() tea.Cmd {
	m.previewSeq++
	seq := m.previewSeq
	m.previewDoc = ""

	if m.selected >= len(m.filtered) {
		return nil
	}
	item := m.filtered[m.selected]
	if item.Kind != pathsource.ItemKindFile {
		return nil
	}

	source := m.source
	return func() tea.Msg {
		doc := <-source.Documentation(context.Background(), item.Data)
		return previewMsg{seq: seq, markdown: doc.Markdown}
	}
}

// refilter narrows the scanned items to those fuzzy-matching the partial
// word after the last separator.
func (m *browserModel) refilter() {
	query := m.input.Value()[wordStart(m.input.Value()):]
	if query == "" {
		m.filtered = m.items
	} else {
		matches := fuzzy.FindFrom(query, itemSource(m.items))
		m.filtered = make([]pathsource.Item, 0, len(matches))
		for _, match := range matches {
			m.filtered = append(m.filtered, m.items[match.Index])
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = 0
	}
}

func (m browserModel) recordHistory() {
	if m.history == nil || !m.resolved {
		return
	}
	m.history.Record(m.input.Value(), m.dirname, len(m.items))
}

func (m browserModel) View() string {
	paneHeight := m.height - 6
	if paneHeight < 3 {
		paneHeight = 3
	}
	listWidth := m.width/2 - 4
	previewWidth := m.width - listWidth - 8

	var list strings.Builder
	for i, item := range m.filtered {
		if i >= paneHeight {
			list.WriteString(statusStyle.Render(fmt.Sprintf("… %d more", len(m.filtered)-i)))
			break
		}
		label := item.Label
		if item.Kind == pathsource.ItemKindFolder {
			label = folderStyle.Render(label)
		}
		if i == m.selected {
			label = selectedStyle.Render(item.Label)
		}
		list.WriteString(label)
		list.WriteString("\n")
	}

	preview := m.previewDoc
	if preview == "" && m.selected < len(m.filtered) {
		preview = m.statLine()
	}
	preview = wordwrap.String(preview, previewWidth)

	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		listStyle.Width(listWidth).Height(paneHeight).Render(list.String()),
		previewStyle.Width(previewWidth).Height(paneHeight).Render(preview),
	)

	status := m.statusLine()

	return lipgloss.JoinVertical(lipgloss.Left, m.input.View(), panes, statusStyle.Render(status))
}

// statLine summarizes the selected item when no preview is available.
func (m browserModel) statLine() string {
	item := m.filtered[m.selected]
	if item.Data.Stat == nil {
		return item.Data.Path
	}
	return fmt.Sprintf("%s\n%s, modified %s",
		item.Data.Path,
		humanize.Bytes(uint64(item.Data.Stat.Size)),
		humanize.Time(item.Data.Stat.ModTime),
	)
}

func (m browserModel) statusLine() string {
	var parts []string
	if m.resolved {
		parts = append(parts, fmt.Sprintf("%s  (%d candidates)", m.dirname, len(m.filtered)))
	} else if m.input.Value() != "" {
		parts = append(parts, "not a path")
	}
	if m.updateNotice != "" {
		parts = append(parts, m.updateNotice)
	}
	parts = append(parts, "tab: descend  enter: select  esc: quit")
	return strings.Join(parts, "  •  ")
}

// NewTuiCmd creates the tui command, an explicit way to start the browser
// when stdin is not a terminal detection case (e.g. inside scripts that
// allocate a pty).
func NewTuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse completions interactively",
		RunE:  runBrowser,
	}
}

// runBrowser starts the interactive browser and prints the chosen path, if
// any, on exit.
func runBrowser(cmd *cobra.Command, _ []string) error {
	source, err := newSource("")
	if err != nil {
		return err
	}

	historyManager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		logger.Warn("completion history unavailable", zap.Error(err))
		historyManager = nil
	}

	model := newBrowserModel(source, historyManager)

	program := tea.NewProgram(model, tea.WithContext(cmd.Context()))

	if updater, err := appupdate.NewGitHubUpdater(); err == nil {
		updates := appupdate.HandleSelfUpdate(BUILD_VERSION, logger, filesystem.DefaultFileSystem{}, updater)
		go func() {
			if version, ok := <-updates; ok {
				program.Send(updateAvailableMsg{version: version})
			}
		}()
	}

	final, err := program.Run()
	if err != nil {
		return err
	}

	if chosen := final.(browserModel).chosen; chosen != "" {
		fmt.Println(chosen)
	}
	return nil
}
