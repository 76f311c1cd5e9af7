// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pvptrainer/internal/model"
	"github.com/verte-zerg/pvptrainer/internal/stats"
	"github.com/verte-zerg/pvptrainer/internal/store"
)

type tab int

const (
	tabOverview tab = iota
	tabCategories
	tabMissed
	tabCount
)

var tabTitles = [tabCount]string{"Overview", "Categories", "Most Missed"}

type field int

const (
	fieldShell field = iota
	fieldSince
	fieldLast
	fieldWindow
	fieldCount
)

var fieldPrompts = [fieldCount]string{
	"Shell (tui/web): ",
	"Since (YYYY-MM-DD): ",
	"Last: ",
	"Trend window: ",
}

const (
	missedRows  = 20
	trendStep   = 5
	dateLayout  = "2006-01-02"
	defaultBody = 80
)

var (
	gold = lipgloss.Color("#C89A3A")
	grey = lipgloss.Color("#4A4A4A")

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(grey).Foreground(lipgloss.Color("#B0B0B0"))
	activeTabStyle = tabStyle.BorderForeground(gold).Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(grey)
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Narrower key.Binding
	Wider    key.Binding
	Settings key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Narrower, k.Wider, k.Settings, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
	Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
	Narrower: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower trend")),
	Wider:    key.NewBinding(key.WithKeys("="), key.WithHelp("=", "wider trend")),
	Settings: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "settings")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type formKeyMap struct {
	Apply  key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Apply, k.Cancel}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Apply, k.Cancel}}
}

var formKeys = formKeyMap{
	Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	missed []stats.Missed
	errMsg string

	activeTab     tab
	pages         [tabCount]viewport.Model
	categoryTable table.Model
	help          help.Model

	width  int
	height int

	filterMode   bool
	filterInputs [fieldCount]textinput.Model
	filterIndex  field
	filterError  string
}

// NewModel constructs a stats UI model and loads the first report.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		help:  help.New(),
	}
	m.cfg.TrendWindow = max(1, cfg.TrendWindow)
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
	for i := range m.filterInputs {
		m.filterInputs[i] = textinput.New()
		m.filterInputs[i].Prompt = fieldPrompts[i]
	}
	m.categoryTable = newCategoryTable()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m, m.updateFilter(msg)
		}
		return m, m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Prev):
		m.selectTab((m.activeTab + tabCount - 1) % tabCount)
		return tea.ClearScreen
	case key.Matches(msg, keys.Next):
		m.selectTab((m.activeTab + 1) % tabCount)
		return tea.ClearScreen
	case key.Matches(msg, keys.Wider):
		m.cfg.TrendWindow = nextTrendWindow(m.cfg.TrendWindow)
		m.fillPages()
		return nil
	case key.Matches(msg, keys.Narrower):
		m.cfg.TrendWindow = prevTrendWindow(m.cfg.TrendWindow)
		m.fillPages()
		return nil
	case key.Matches(msg, keys.Settings):
		return m.openFilter()
	}

	var cmd tea.Cmd
	if m.activeTab == tabCategories {
		m.categoryTable, cmd = m.categoryTable.Update(msg)
	} else {
		m.pages[m.activeTab], cmd = m.pages[m.activeTab].Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Render(m.renderBody())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *Model) bodyHeight() int {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter())
	return max(1, m.height-used)
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.bodyHeight()
	for i := range m.pages {
		m.pages[i].Width = m.width
		m.pages[i].Height = h
	}
	m.categoryTable.SetWidth(m.width)
	m.categoryTable.SetHeight(max(1, h-1))
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(fieldPrompts[i])-2)
	}
	m.help.Width = m.width
	m.fillPages()
}

func (m *Model) selectTab(t tab) {
	m.activeTab = t
	if t == tabCategories {
		m.categoryTable.Focus()
	} else {
		m.categoryTable.Blur()
	}
}

func (m *Model) renderHeader() string {
	titles := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		style := tabStyle
		if tab(i) == m.activeTab {
			style = activeTabStyle
		}
		titles = append(titles, style.Render(title))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, titles...),
		mutedStyle.Render(runewidth.Truncate(m.settingsSummary(), max(m.width, 1), "...")),
	)
}

func (m *Model) settingsSummary() string {
	shell, since, last := "any", "any", "all"
	if m.cfg.Shell != "" {
		shell = m.cfg.Shell
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Settings: shell=%s  since=%s  last=%s  window=%d", shell, since, last, m.cfg.TrendWindow)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.help.View(formKeys)
	}
	if m.errMsg != "" {
		return m.help.View(keys) + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.help.View(keys)
}

func (m *Model) renderBody() string {
	switch {
	case m.filterMode:
		lines := []string{"Settings"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	case m.activeTab == tabCategories && len(m.report.Categories) == 0:
		return "No category stats found."
	case m.activeTab == tabCategories:
		return m.categoryTable.View()
	default:
		return m.pages[m.activeTab].View()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg.Filter())
	if err != nil {
		m.errMsg = err.Error()
		m.report, m.missed = stats.Report{}, nil
	} else {
		m.errMsg = ""
		m.report = report
		m.missed = stats.MostMissed(report.Attempts, missedRows)
	}
	m.categoryTable.SetRows(categoryRows(m.report.Categories))
	m.fillPages()
}

func (m *Model) fillPages() {
	if m.errMsg != "" {
		m.pages[tabOverview].SetContent("Failed to load stats.")
		m.pages[tabMissed].SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = defaultBody
	}
	m.pages[tabOverview].SetContent(overview(m.report.Attempts, m.cfg.TrendWindow, width))
	m.pages[tabMissed].SetContent(missedPage(m.missed))
}

func overview(attempts []model.Attempt, window, width int) string {
	if len(attempts) == 0 {
		return "No answers found."
	}
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	current, best := stats.Streak(attempts)
	accuracy := stats.Accuracy(correct, len(attempts)-correct) * 100
	cards := []string{
		card("Answers", strconv.Itoa(len(attempts))),
		card("Correct", strconv.Itoa(correct)),
		card("Accuracy", fmt.Sprintf("%.1f%%", accuracy)),
		card("Streak", strconv.Itoa(current)),
		card("Best Streak", strconv.Itoa(best)),
	}
	summary := lipgloss.JoinVertical(lipgloss.Left, cards...)
	if width >= defaultBody {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var trend bytes.Buffer
	if err := stats.RenderTrend(&trend, attempts, window, width); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render trend: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+trend.String(), "\n")
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func missedPage(missed []stats.Missed) string {
	if len(missed) == 0 {
		return "No missed answers."
	}
	var buf bytes.Buffer
	if err := stats.RenderMissed(&buf, missed); err != nil {
		return fmt.Sprintf("Failed to render missed answers: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func newCategoryTable() table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(grey).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(gold)
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 18},
			{Title: "Accuracy", Width: 9},
			{Title: "Correct", Width: 7},
			{Title: "Incorrect", Width: 9},
			{Title: "Total", Width: 6},
		}),
		table.WithStyles(styles),
		table.WithHeight(1),
	)
}

// categoryRows lists categories weakest first.
func categoryRows(aggs []model.CategoryAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range stats.SortWeakestFirst(aggs) {
		rows = append(rows, table.Row{
			string(agg.Category),
			fmt.Sprintf("%.2f%%", stats.Accuracy(agg.Correct, agg.Incorrect)*100),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
			strconv.Itoa(agg.Correct + agg.Incorrect),
		})
	}
	return rows
}

func (m *Model) openFilter() tea.Cmd {
	m.filterMode = true
	m.filterError = ""
	values := [fieldCount]string{m.cfg.Shell, "", "", strconv.Itoa(m.cfg.TrendWindow)}
	if m.cfg.Since != nil {
		values[fieldSince] = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		values[fieldLast] = strconv.Itoa(m.cfg.Last)
	}
	for i, v := range values {
		m.filterInputs[i].SetValue(v)
	}
	return m.focusField(fieldShell)
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, formKeys.Cancel):
		m.filterMode = false
		m.filterError = ""
		return nil
	case key.Matches(msg, formKeys.Apply):
		cfg, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.resize()
		return nil
	case key.Matches(msg, formKeys.Next):
		return m.focusField((m.filterIndex + 1) % fieldCount)
	case key.Matches(msg, formKeys.Prev):
		return m.focusField((m.filterIndex + fieldCount - 1) % fieldCount)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return cmd
}

func (m *Model) focusField(f field) tea.Cmd {
	m.filterIndex = f
	for i := range m.filterInputs {
		m.filterInputs[i].Blur()
	}
	return m.filterInputs[f].Focus()
}

// parseFilter reads the settings form. Empty fields clear their filter, except
// the trend window, which keeps its current value.
func (m *Model) parseFilter() (model.StatsConfig, error) {
	value := func(f field) string { return strings.TrimSpace(m.filterInputs[f].Value()) }
	cfg := model.StatsConfig{
		Shell:       strings.ToLower(value(fieldShell)),
		TrendWindow: m.cfg.TrendWindow,
	}
	if s := value(fieldSince); s != "" {
		since, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return model.StatsConfig{}, errors.New("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &since
	}
	if s := value(fieldLast); s != "" {
		last, err := strconv.Atoi(s)
		if err != nil || last < 0 {
			return model.StatsConfig{}, errors.New("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = last
	}
	if s := value(fieldWindow); s != "" {
		window, err := strconv.Atoi(s)
		if err != nil || window < 1 {
			return model.StatsConfig{}, errors.New("invalid trend window (use integer >= 1)")
		}
		cfg.TrendWindow = window
	}
	return cfg, nil
}

// nextTrendWindow and prevTrendWindow step to the neighbouring multiple of
// trendStep, bottoming out at 1.
func nextTrendWindow(n int) int {
	return (max(n, 0)/trendStep + 1) * trendStep
}

func prevTrendWindow(n int) int {
	if n <= trendStep {
		return 1
	}
	return (n - 1) / trendStep * trendStep
}
