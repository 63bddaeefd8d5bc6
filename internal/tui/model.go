package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"textproc/internal/domain"
)

// AnalyzerPort is the TUI-facing subset of the analysis service.
type AnalyzerPort interface {
	Analyze(ctx context.Context, text string) (domain.AnalysisResult, error)
}

type entry struct {
	text   string
	result domain.AnalysisResult
}

// analysisMsg carries the outcome of one background analysis.
type analysisMsg struct {
	text   string
	result domain.AnalysisResult
	err    error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	analyzer AnalyzerPort
	backend  string
	input    textinput.Model
	viewport viewport.Model
	history  []entry
	status   string
	cursor   int
	busy     bool
	ready    bool
}

// New creates a new TUI model instance. backend labels where analysis runs.
func New(analyzer AnalyzerPort, backend string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Paste text and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{analyzer: analyzer, backend: backend, input: ti, viewport: vp, status: "Ready. Type text to analyze."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) analyze(text string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.analyzer.Analyze(context.Background(), text)
		return analysisMsg{text: text, result: res, err: err}
	}
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + backend
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case analysisMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.history = append(m.history, entry{text: msg.text, result: msg.result})
		m.cursor = len(m.history) - 1
		m.status = fmt.Sprintf("Analyzed %d characters", msg.result.OriginalLength)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text != "" && !m.busy {
				m.busy = true
				m.status = "Analyzing..."
				m.input.Reset()
				return m, m.analyze(text)
			}
		case "down":
			if len(m.history) > 0 {
				m.cursor = (m.cursor + 1) % len(m.history)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.history) > 0 {
				m.cursor = (m.cursor - 1 + len(m.history)) % len(m.history)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Text Processor")
	backend := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("backend: " + m.backend)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + backend + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.history) == 0 {
		return "No analyses yet."
	}
	e := m.history[m.cursor]
	r := e.result
	title := fmt.Sprintf("Analysis %d/%d  %d -> %d chars", m.cursor+1, len(m.history), r.OriginalLength, r.ProcessedLength)
	sentiment := "Sentiment: " + sentimentStyle(r.Sentiment).Render(string(r.Sentiment))
	keywords := "Keywords: " + strings.Join(r.Keywords, ", ")
	if len(r.Keywords) == 0 {
		keywords = "Keywords: (none)"
	}
	summary := "Summary:\n" + highlightKeywords(r.Summary, r.Keywords)
	return title + "\n\n" + sentiment + "\n" + keywords + "\n\n" + summary
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	positiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	negativeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	neutralStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unicodeWordRe  = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

func sentimentStyle(s domain.Sentiment) lipgloss.Style {
	switch s {
	case domain.Positive:
		return positiveStyle
	case domain.Negative:
		return negativeStyle
	default:
		return neutralStyle
	}
}

// highlightKeywords renders every word of text that is one of keywords.
func highlightKeywords(text string, keywords []string) string {
	if len(keywords) == 0 || strings.TrimSpace(text) == "" {
		return text
	}
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return unicodeWordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := set[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
