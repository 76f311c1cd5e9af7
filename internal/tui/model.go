// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pvptrainer/internal/answer"
	"github.com/verte-zerg/pvptrainer/internal/dex"
	"github.com/verte-zerg/pvptrainer/internal/generator"
	"github.com/verte-zerg/pvptrainer/internal/model"
	statsPkg "github.com/verte-zerg/pvptrainer/internal/stats"
	"github.com/verte-zerg/pvptrainer/internal/store"
)

// ShellName tags history rows recorded by the terminal shell.
const ShellName = "tui"

const sequenceRunes = "0123456789, "

// Model implements the Bubble Tea quiz UI.
type Model struct {
	config model.QuizConfig
	store  *store.Store
	gen    *generator.Generator
	dex    dex.Dex
	roster model.Roster

	width  int
	height int

	question    model.Question
	hasQuestion bool
	input       textinput.Model
	lastInput   string
	answered    bool
	correct     bool
	revealed    bool

	sessionCorrect int
	sessionTotal   int
	allCorrect     int
	allIncorrect   int
}

var (
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a quiz TUI model and draws the first question. st may be
// nil, in which case answers are not recorded.
func NewModel(cfg model.QuizConfig, st *store.Store, gen *generator.Generator, d dex.Dex, roster model.Roster) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "2, 4, 6, 8"
	input.CharLimit = 64
	m := &Model{
		config: cfg,
		store:  st,
		gen:    gen,
		dex:    d,
		roster: roster,
		input:  input,
	}
	m.loadFooterStats()
	m.nextQuestion()
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
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.sequenceActive() {
				m.submit(m.input.Value())
			}
			return m, nil
		case tea.KeyBackspace, tea.KeyDelete, tea.KeySpace:
			if m.sequenceActive() {
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				return m, cmd
			}
			return m, nil
		case tea.KeyRunes:
			return m, m.handleRunes(msg)
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := int(float64(m.width) * 0.70)
	if m.width == 0 {
		contentWidth = 0
	} else if contentWidth < 1 {
		contentWidth = 1
	}

	var sections []string
	if !m.hasQuestion {
		sections = append(sections, hintStyle.Render("No question available. Load a roster and enable at least one category."))
	} else {
		sections = append(sections, wrapStyledRunes(buildStyledRunes(m.question.Text), contentWidth))
		sections = append(sections, m.renderAnswerArea())
		if result := m.renderResult(); result != "" {
			sections = append(sections, result)
		}
	}
	sections = append(sections, hintStyle.Render(m.renderHelp()))

	block := lipgloss.NewStyle()
	if contentWidth > 0 {
		block = block.Width(contentWidth)
	}
	content := block.Render(strings.Join(sections, "\n\n"))
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderAnswerArea() string {
	if m.question.Category == model.CategoryChargedMove {
		return m.input.View()
	}
	parts := make([]string, 0, len(m.question.Variants))
	for i, v := range m.question.Variants {
		parts = append(parts, keyStyle.Render(fmt.Sprintf("%d)", i+1))+" "+v)
	}
	return strings.Join(parts, "   ")
}

func (m *Model) renderResult() string {
	explanation := ""
	if m.question.Explanation != "" {
		explanation = " " + m.question.Explanation
	}
	switch {
	case m.answered && m.correct:
		return correctStyle.Render("Correct!" + explanation)
	case m.answered:
		return incorrectStyle.Render(fmt.Sprintf("Wrong (%s). Answer: %s%s", m.lastInput, m.question.Answer, explanation))
	case m.revealed:
		return keyStyle.Render("Answer: " + m.question.Answer + explanation)
	default:
		return ""
	}
}

func (m *Model) renderHelp() string {
	keys := []string{"n next", "a answer", "q quit"}
	if m.hasQuestion && !m.answered && !m.revealed {
		if m.question.Category == model.CategoryChargedMove {
			keys = append([]string{"enter check"}, keys...)
		} else if len(m.question.Variants) > 0 {
			keys = append([]string{fmt.Sprintf("1-%d choose", len(m.question.Variants))}, keys...)
		}
	}
	return strings.Join(keys, " · ")
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.hasQuestion {
		segments = append(segments, string(m.question.Category))
	}
	segments = append(segments, fmt.Sprintf("Score %d/%d", m.sessionCorrect, m.sessionTotal))
	allAcc := statsPkg.Accuracy(m.allCorrect, m.allIncorrect)
	segments = append(segments, fmt.Sprintf("All-time %.1f%%", allAcc*100))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) handleRunes(msg tea.KeyMsg) tea.Cmd {
	text := string(msg.Runes)
	if m.sequenceActive() && text == answer.KeySeparator {
		m.input.SetValue(answer.AppendKey(m.input.Value(), text))
		m.input.CursorEnd()
		return nil
	}
	if m.sequenceActive() && strings.Trim(text, sequenceRunes) == "" {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	switch text {
	case "q":
		return tea.Quit
	case "n":
		m.nextQuestion()
		return nil
	case "a":
		if m.hasQuestion && !m.answered {
			m.revealed = true
			m.input.Blur()
		}
		return nil
	}
	if len(msg.Runes) == 1 && m.choiceActive() {
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(m.question.Variants) {
			m.submit(m.question.Variants[idx])
		}
	}
	return nil
}

func (m *Model) sequenceActive() bool {
	return m.hasQuestion && m.question.Category == model.CategoryChargedMove && !m.answered && !m.revealed
}

func (m *Model) choiceActive() bool {
	return m.hasQuestion && m.question.Category != model.CategoryChargedMove && !m.answered && !m.revealed
}

func (m *Model) nextQuestion() {
	m.question, m.hasQuestion = m.gen.Generate(m.roster, m.dex, m.config.MaxCP, m.config.Weights)
	m.answered = false
	m.correct = false
	m.revealed = false
	m.lastInput = ""
	m.input.Reset()
	if m.sequenceActive() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) submit(input string) {
	m.lastInput = strings.TrimSpace(input)
	m.correct = answer.Check(m.question, input)
	m.answered = true
	m.input.Blur()
	m.sessionTotal++
	if m.correct {
		m.sessionCorrect++
		m.allCorrect++
	} else {
		m.allIncorrect++
	}
	m.recordAttempt()
}

func (m *Model) recordAttempt() {
	if m.store == nil {
		return
	}
	attempt := model.Attempt{
		AnsweredAt: time.Now(),
		Shell:      ShellName,
		Category:   m.question.Category,
		Dataset:    m.config.Dataset,
		MaxCP:      m.config.MaxCP,
		Answer:     m.question.Answer,
		Input:      m.lastInput,
		Correct:    m.correct,
	}
	if _, err := m.store.InsertAttempt(context.Background(), attempt); err != nil {
		logErrf("failed to save answer: %v\n", err)
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.ListCategoryAggregates(context.Background(), model.HistoryFilter{})
	if err != nil {
		logErrf("failed to load answer stats: %v\n", err)
		return
	}
	for _, agg := range aggs {
		m.allCorrect += agg.Correct
		m.allIncorrect += agg.Incorrect
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
