package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pep299/iqcraft/internal/article"
	"github.com/pep299/iqcraft/internal/carousel"
	"github.com/pep299/iqcraft/internal/export"
	"github.com/pep299/iqcraft/internal/flashcard"
	"github.com/pep299/iqcraft/internal/quiz"
	"github.com/pep299/iqcraft/internal/session"
	"github.com/pep299/iqcraft/internal/study"
	"github.com/pep299/iqcraft/internal/textutil"
)

type stage int

const (
	stageInput stage = iota
	stageLoading
	stageCards
	stageQuiz
	stageResult
)

const (
	defaultWidth     = 80
	summaryHeight    = 10
	minCardWidth     = 24
	inputPlaceholder = "Paste an article URL, a path to a .txt file, or the article text…"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	chosenStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Foreground(lipgloss.Color("#1a1a1a")).Padding(0, 1)
	dialogStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(0, 2)
)

// Messages produced by background jobs.
type (
	statusMsg  string
	articleMsg string
	summaryMsg struct {
		result study.Result
		err    error
	}
	quizMsg struct {
		quiz study.Quiz
		err  error
	}
	exportMsg struct {
		names []string
		err   error
	}
)

// jobMsg carries one job message and the command listening for the next.
type jobMsg struct {
	payload tea.Msg
	next    tea.Cmd
}

type model struct {
	ctx          context.Context
	fetcher      *article.Fetcher
	orchestrator *study.Orchestrator
	exporter     *export.Exporter

	stage    stage
	input    textarea.Model
	viewport viewport.Model
	width    int

	session  *session.Session
	cards    []flashcard.Flashcard
	deck     *carousel.Carousel
	quiz     *carousel.Quiz
	fallback bool
	busy     bool

	status       string
	errorMessage string
}

func newModel(ctx context.Context, fetcher *article.Fetcher, orchestrator *study.Orchestrator, exporter *export.Exporter) *model {
	input := textarea.New()
	input.Placeholder = inputPlaceholder
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetWidth(defaultWidth)
	input.SetHeight(8)
	input.Focus()

	return &model{
		ctx:          ctx,
		fetcher:      fetcher,
		orchestrator: orchestrator,
		exporter:     exporter,
		stage:        stageInput,
		input:        input,
		viewport:     viewport.New(defaultWidth, summaryHeight),
		width:        defaultWidth,
		session:      session.New(),
	}
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minCardWidth*2)
		m.input.SetWidth(m.width - 2)
		m.viewport.Width = m.width
		m.viewport.Height = max(summaryHeight, msg.Height/3)
		m.refreshViewport()
		return m, nil
	case jobMsg:
		m.handlePayload(msg.payload)
		return m, msg.next
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	if m.stage == stageInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageInput:
		return m.handleInputKey(key)
	case stageCards:
		return m.handleCardsKey(key)
	case stageQuiz:
		return m.handleQuizKey(key)
	case stageResult:
		return m.handleResultKey(key)
	default:
		// Controls stay disabled while an article is processed.
		return m, nil
	}
}

func (m *model) handleInputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Type == tea.KeyEsc:
		return m, tea.Quit
	case isSubmit(key):
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *model) handleCardsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyLeft, tea.KeyRight:
		m.deck.HandleKey(carouselKey(key))
		return m, nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	case tea.KeyEsc:
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch key.String() {
	case "e":
		return m, m.startExport()
	case "z":
		return m, m.startQuiz()
	case "n":
		return m, m.reset()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleQuizKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quiz.Confirming() {
		switch key.String() {
		case "y", "enter":
			result, err := m.quiz.Confirm()
			if err != nil {
				m.errorMessage = err.Error()
				return m, nil
			}
			m.stage = stageResult
			m.viewport.SetContent(renderResult(result, m.width))
			m.viewport.GotoTop()
		case "n", "esc":
			_ = m.quiz.Cancel()
		}
		return m, nil
	}

	switch key.Type {
	case tea.KeyLeft, tea.KeyRight:
		m.quiz.HandleKey(carouselKey(key))
		return m, nil
	case tea.KeyEnter:
		m.requestSubmit()
		return m, nil
	case tea.KeyEsc:
		m.stage = stageCards
		return m, nil
	}

	switch s := key.String(); s {
	case "s":
		m.requestSubmit()
	case "b":
		m.stage = stageCards
	default:
		n, err := strconv.Atoi(s)
		options := m.quiz.Current().Options
		if err != nil || n < 1 || n > len(options) {
			return m, nil
		}
		if err := m.quiz.Select(m.quiz.Position(), options[n-1]); err != nil {
			m.errorMessage = err.Error()
		}
	}
	return m, nil
}

func (m *model) handleResultKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	case tea.KeyEsc, tea.KeyEnter:
		m.backToCards()
		return m, nil
	}
	switch key.String() {
	case "b":
		m.backToCards()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) requestSubmit() {
	if err := m.quiz.RequestSubmit(); err != nil {
		m.errorMessage = err.Error()
	}
}

func (m *model) backToCards() {
	m.stage = stageCards
	m.refreshViewport()
}

func isSubmit(key tea.KeyMsg) bool {
	return key.Type == tea.KeyCtrlS || (key.Type == tea.KeyEnter && key.Alt)
}

func carouselKey(key tea.KeyMsg) carousel.Key {
	switch key.Type {
	case tea.KeyLeft:
		return carousel.KeyLeft
	case tea.KeyRight:
		return carousel.KeyRight
	default:
		return carousel.KeyOther
	}
}

// submit starts summarizing the textarea content.
func (m *model) submit() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.errorMessage = article.ErrEmptyInput.Error()
		return nil
	}

	isURL := textutil.IsURL(value)
	m.session.Begin(isURL)
	m.stage = stageLoading
	m.errorMessage = ""
	m.status = "Reading article…"
	if isURL {
		m.status = "Fetching article…"
	}
	m.input.Blur()

	ctx, fetcher, orchestrator := m.ctx, m.fetcher, m.orchestrator
	return m.startJob(func(send func(tea.Msg)) tea.Msg {
		text, err := loadInput(ctx, fetcher, value, isURL)
		if err != nil {
			return summaryMsg{err: err}
		}
		send(articleMsg(text))

		result, err := orchestrator.WithStatus(func(s string) { send(statusMsg(s)) }).Summarize(ctx, text)
		return summaryMsg{result: result, err: err}
	})
}

// loadInput resolves a URL, a .txt file path or pasted text into article text.
func loadInput(ctx context.Context, fetcher *article.Fetcher, input string, isURL bool) (string, error) {
	if isURL {
		return fetcher.Resolve(ctx, input)
	}
	if strings.ContainsRune(input, '\n') || textutil.CheckFileName(input) != nil {
		return article.ResolveText(input)
	}

	f, err := os.Open(input)
	if err != nil {
		return article.ResolveText(input)
	}
	defer f.Close()

	text, err := textutil.ReadTextFile(input, f)
	if err != nil {
		return "", err
	}
	return article.ResolveText(text)
}

func (m *model) startQuiz() tea.Cmd {
	m.busy = true
	m.errorMessage = ""
	ctx, orchestrator, summary := m.ctx, m.orchestrator, m.session.Snapshot().Summary
	return m.startJob(func(send func(tea.Msg)) tea.Msg {
		q, err := orchestrator.WithStatus(func(s string) { send(statusMsg(s)) }).GenerateQuiz(ctx, summary)
		return quizMsg{quiz: q, err: err}
	})
}

func (m *model) startExport() tea.Cmd {
	m.busy = true
	m.errorMessage = ""
	ctx, exporter, cards := m.ctx, m.exporter, m.cards
	return m.startJob(func(send func(tea.Msg)) tea.Msg {
		names, err := exporter.WithStatus(func(s string) { send(statusMsg(s)) }).Export(ctx, cards)
		return exportMsg{names: names, err: err}
	})
}

// reset returns to an empty input view for a new article.
func (m *model) reset() tea.Cmd {
	m.stage = stageInput
	m.status = ""
	m.errorMessage = ""
	m.input.Reset()
	return m.input.Focus()
}

// startJob runs work in the background. Messages it sends, and finally its
// result, reach Update in order as jobMsg values.
func (m *model) startJob(work func(send func(tea.Msg)) tea.Msg) tea.Cmd {
	updates := make(chan tea.Msg, 8)
	ctx := m.ctx
	go func() {
		defer close(updates)
		send := func(msg tea.Msg) {
			select {
			case updates <- msg:
			case <-ctx.Done():
			}
		}
		send(work(send))
	}()
	return waitForJob(updates)
}

func waitForJob(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return jobMsg{payload: msg, next: waitForJob(updates)}
	}
}

func (m *model) handlePayload(payload tea.Msg) {
	switch msg := payload.(type) {
	case statusMsg:
		m.status = string(msg)
	case articleMsg:
		m.session.SetArticle(string(msg))
	case summaryMsg:
		if msg.err != nil {
			m.session.Fail(msg.err)
			m.stage = stageInput
			m.status = ""
			m.errorMessage = msg.err.Error()
			m.input.Focus()
			return
		}
		m.session.Complete(msg.result.Title, msg.result.Summary)
		m.cards = flashcard.Build(msg.result.Summary, msg.result.Title)
		m.deck = carousel.NewFlashcards(len(m.cards))
		m.quiz = nil
		m.stage = stageCards
		m.refreshViewport()
		m.viewport.GotoTop()
	case quizMsg:
		m.busy = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return
		}
		m.quiz = carousel.NewQuiz(msg.quiz.Questions)
		m.fallback = msg.quiz.Fallback
		m.stage = stageQuiz
	case exportMsg:
		m.busy = false
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Export stopped after %d of %d flashcards: %v", len(msg.names), len(m.cards), msg.err)
		}
	}
}

func (m *model) refreshViewport() {
	snapshot := m.session.Snapshot()
	if snapshot.Summary == "" {
		return
	}
	body := lipgloss.NewStyle().Width(m.width).Render(snapshot.Summary)
	m.viewport.SetContent(headerStyle.Render(snapshot.Title) + "\n\n" + body)
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("IQ-Craft"))
	b.WriteString("\n\n")

	switch m.stage {
	case stageInput:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helperStyle.Render("ctrl+s submit • esc quit"))
	case stageLoading:
		b.WriteString(helperStyle.Render("Working on " + m.session.State.String() + "…"))
	case stageCards:
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(m.cardsView())
	case stageQuiz:
		b.WriteString(m.quizView())
	case stageResult:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(helperStyle.Render("↑/↓ scroll • esc back to flashcards • q quit"))
	}

	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	if m.errorMessage != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("❌ " + m.errorMessage))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *model) cardsView() string {
	start, end := m.deck.Visible()
	width := max(minCardWidth, m.width/carousel.FlashcardPageSize-2)

	boxes := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		card := m.cards[i]
		var body strings.Builder
		body.WriteString(lipgloss.NewStyle().Bold(true).Render(card.Title))
		for _, p := range card.Points {
			body.WriteString("\n• " + p)
		}
		style := cardStyle.Width(width).Background(lipgloss.Color(flashcard.Hex(flashcard.ColorForIndex(i))))
		boxes = append(boxes, style.Render(body.String()))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n")
	b.WriteString(arrow("◀", m.deck.CanPrev()) + " " + m.deck.Indicator() + " " + arrow("▶", m.deck.CanNext()))
	b.WriteString("\n")
	if m.busy {
		b.WriteString(helperStyle.Render("←/→ browse • ↑/↓ scroll summary"))
	} else {
		b.WriteString(helperStyle.Render("←/→ browse • ↑/↓ scroll summary • e export • z quiz • n new article • q quit"))
	}
	return b.String()
}

func (m *model) quizView() string {
	var b strings.Builder
	if m.fallback {
		b.WriteString(errorStyle.Render("⚠️ The quiz could not be generated from this summary."))
		b.WriteString("\n\n")
	}

	current := m.quiz.Current()
	selected, _ := m.quiz.Answer(m.quiz.Position())
	b.WriteString(headerStyle.Render(fmt.Sprintf("Question %s", m.quiz.Indicator())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(m.width).Render(current.Question))
	b.WriteString("\n\n")
	for i, option := range current.Options {
		line := fmt.Sprintf("%d. %s", i+1, option)
		if option == selected {
			b.WriteString(chosenStyle.Render("● " + line))
		} else {
			b.WriteString("○ " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(arrow("◀", m.quiz.CanPrev()) + " " + fmt.Sprintf("%d of %d answered", m.quiz.AnsweredCount(), quiz.Size) + " " + arrow("▶", m.quiz.CanNext()))
	b.WriteString("\n")

	if m.quiz.Confirming() {
		b.WriteString(dialogStyle.Render("Are you sure you want to submit?\n\ny submit • n cancel"))
	} else {
		b.WriteString(helperStyle.Render("←/→ question • 1-4 answer • s submit • esc back"))
	}
	return b.String()
}

func arrow(symbol string, enabled bool) string {
	if enabled {
		return symbol
	}
	return helperStyle.Render(" ")
}

func renderResult(result quiz.Result, width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s Your score: %d/%d (%.0f%%)", result.Emoji, result.Score, result.Total, result.Percentage)))
	b.WriteString("\n")
	wrap := lipgloss.NewStyle().Width(width)
	for i, item := range result.Items {
		b.WriteString("\n")
		if item.Correct {
			b.WriteString(wrap.Render(fmt.Sprintf("%d. ✔ %s", i+1, item.Question)))
			continue
		}
		b.WriteString(wrap.Render(fmt.Sprintf("%d. ✘ %s\n   Your answer: %s\n   Correct answer: %s", i+1, item.Question, item.UserAnswer, item.CorrectAnswer)))
	}
	return b.String()
}
