// minicross is the terminal client for the daily crossword: sign in
// with a one-time code, solve today's puzzle, and see how friends did.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minicross/minicross/internal/client"
	"github.com/minicross/minicross/internal/progress"
	"github.com/minicross/minicross/internal/session"
)

// --- STYLING (using Lipgloss) ---

var (
	styleHeader     = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleSubtle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	styleBlock      = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("0"))
	styleCell       = lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("0"))
	styleWord       = lipgloss.NewStyle().Background(lipgloss.Color("153")).Foreground(lipgloss.Color("0"))
	styleCursor     = lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("0")).Bold(true)
	styleClue       = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleSelf       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleFriendCode = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// --- STATE ---

type appState int

const (
	stateEmail appState = iota
	stateCode
	stateLoading
	stateSolving
	stateFatal
)

type codeSentMsg struct{ err error }

type verifiedMsg struct {
	auth client.Auth
	err  error
}

type puzzleLoadedMsg struct{ err error }

type leaderboardMsg struct {
	entries []client.LeaderboardEntry
	err     error
}

type tickMsg time.Time

type model struct {
	api  *client.Client
	sess *session.Session

	emailInput textinput.Model
	codeInput  textinput.Model

	state       appState
	err         error
	notice      string
	friendCode  string
	leaderboard []client.LeaderboardEntry
	fetchedLB   bool
}

func newModel(api *client.Client, sess *session.Session) model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Focus()
	email.CharLimit = 100
	email.Width = 40
	email.Prompt = "> "

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.CharLimit = 6
	code.Width = 10
	code.Prompt = "> "

	return model{
		api:        api,
		sess:       sess,
		emailInput: email,
		codeInput:  code,
		state:      stateEmail,
	}
}

// --- COMMANDS ---

func requestCodeCmd(api *client.Client, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return codeSentMsg{err: api.RequestCode(ctx, email)}
	}
}

func verifyCodeCmd(api *client.Client, email, code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		auth, err := api.VerifyCode(ctx, email, code)
		return verifiedMsg{auth: auth, err: err}
	}
}

func loadPuzzleCmd(api *client.Client, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		doc, err := api.Today(ctx)
		if err != nil {
			return puzzleLoadedMsg{err: err}
		}
		return puzzleLoadedMsg{err: sess.LoadPuzzle(doc)}
	}
}

func leaderboardCmd(api *client.Client, date string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		entries, err := api.Leaderboard(ctx, date)
		return leaderboardMsg{entries: entries, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// --- UPDATE ---

func (m model) Init() tea.Cmd {
	if m.api.Token() != "" {
		return loadPuzzleCmd(m.api, m.sess)
	}
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.state {
	case stateEmail:
		return m.updateEmail(msg)
	case stateCode:
		return m.updateCode(msg)
	case stateLoading:
		return m.updateLoading(msg)
	case stateSolving:
		return m.updateSolving(msg)
	default:
		return m, nil
	}
}

func (m model) updateEmail(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			email := strings.TrimSpace(m.emailInput.Value())
			if email == "" {
				return m, nil
			}
			m.notice = "Sending code..."
			return m, requestCodeCmd(m.api, email)
		}
	case codeSentMsg:
		if msg.err != nil {
			m.notice = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = ""
		m.state = stateCode
		m.codeInput.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.emailInput, cmd = m.emailInput.Update(msg)
	return m, cmd
}

func (m model) updateCode(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			m.state = stateEmail
			m.err = nil
			return m, nil
		case tea.KeyEnter:
			code := strings.TrimSpace(m.codeInput.Value())
			if code == "" {
				return m, nil
			}
			return m, verifyCodeCmd(m.api, strings.TrimSpace(m.emailInput.Value()), code)
		}
	case verifiedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.friendCode = msg.auth.FriendCode
		saveToken(msg.auth.Token)
		m.state = stateLoading
		return m, loadPuzzleCmd(m.api, m.sess)
	}
	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

func (m model) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(puzzleLoadedMsg); ok {
		if msg.err != nil {
			m.err = msg.err
			m.state = stateFatal
			return m, tea.Quit
		}
		m.state = stateSolving
		return m, tickCmd()
	}
	return m, nil
}

func (m model) updateSolving(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sess.Tick()
		if m.sess.Completed() && !m.fetchedLB {
			m.fetchedLB = true
			return m, tea.Batch(tickCmd(), leaderboardCmd(m.api, m.sess.Date()))
		}
		return m, tickCmd()

	case leaderboardMsg:
		if msg.err != nil {
			// Transient failure; let a later tick fetch again.
			m.fetchedLB = false
			return m, nil
		}
		m.leaderboard = msg.entries
		return m, nil

	case tea.KeyMsg:
		st := m.sess.Cursor()
		switch msg.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1, 0)
		case tea.KeyDown:
			m.move(1, 0)
		case tea.KeyLeft:
			m.move(0, -1)
		case tea.KeyRight:
			m.move(0, 1)
		case tea.KeyEnter, tea.KeySpace:
			m.sess.Tap(st.Row, st.Col) // same cell: toggles direction
		case tea.KeyTab:
			m.sess.NextWord()
		case tea.KeyBackspace:
			m.sess.Backspace()
		case tea.KeyCtrlR:
			m.sess.RevealCell()
		case tea.KeyCtrlW:
			m.sess.RevealWord()
		case tea.KeyCtrlG:
			m.sess.RevealGrid()
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.sess.Input(r)
			}
		}
		return m, nil
	}
	return m, nil
}

// move taps the nearest letter cell in the given direction, stepping
// over blocks.
func (m *model) move(dr, dc int) {
	g := m.sess.Grid()
	st := m.sess.Cursor()
	r, c := st.Row+dr, st.Col+dc
	for g.InBounds(r, c) {
		if !g.At(r, c).Block() {
			m.sess.Tap(r, c)
			return
		}
		r, c = r+dr, c+dc
	}
}

// --- VIEW ---

func (m model) View() string {
	switch m.state {
	case stateEmail:
		return m.viewLogin("Sign in", "Enter your email to receive a login code.", m.emailInput.View())
	case stateCode:
		return m.viewLogin("Check your inbox", "Enter the 6-digit code we sent you.", m.codeInput.View())
	case stateLoading:
		return styleHeader.Render("minicross") + "\n\nLoading today's puzzle...\n"
	case stateSolving:
		return m.viewSolving()
	default:
		if m.err != nil {
			return styleError.Render("Error: " + m.err.Error())
		}
		return ""
	}
}

func (m model) viewLogin(title, hint, input string) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("minicross: " + title))
	b.WriteString("\n\n" + hint + "\n\n")
	b.WriteString(input)
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString("\n" + styleSubtle.Render(m.notice) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + styleError.Render(m.err.Error()) + "\n")
	}
	b.WriteString(styleSubtle.Render("\nenter: continue | ctrl+c: quit"))
	return b.String()
}

func (m model) viewSolving() string {
	var b strings.Builder
	g := m.sess.Grid()
	st := m.sess.Cursor()
	word := m.sess.Word()

	b.WriteString(styleHeader.Render(fmt.Sprintf("minicross %s", m.sess.Date())))
	b.WriteString(fmt.Sprintf("  %s\n\n", formatClock(m.sess.Elapsed())))

	inWord := make(map[[2]int]bool)
	if word != nil {
		for _, c := range word.Cells {
			inWord[[2]int{c.Row, c.Col}] = true
		}
	}

	for r := 0; r < g.Rows(); r++ {
		b.WriteString("  ")
		for c := 0; c < g.Cols(); c++ {
			cell := g.At(r, c)
			content := " "
			if !cell.Block() && !cell.Empty() {
				content = string(cell.Entry)
			}
			content = " " + content + " "
			switch {
			case cell.Block():
				b.WriteString(styleBlock.Render(content))
			case r == st.Row && c == st.Col:
				b.WriteString(styleCursor.Render(content))
			case inWord[[2]int{r, c}]:
				b.WriteString(styleWord.Render(content))
			default:
				b.WriteString(styleCell.Render(content))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if word != nil {
		dir := "Across"
		if word.Clue.Direction == "down" {
			dir = "Down"
		}
		b.WriteString("  " + styleClue.Render(fmt.Sprintf("%s: %s", dir, word.Clue.Text)) + "\n")
	}

	if m.sess.Completed() {
		b.WriteString("\n  " + styleDone.Render(fmt.Sprintf("Solved in %s!", formatClock(m.sess.Elapsed()))) + "\n")
		if m.sess.Revealed() {
			b.WriteString("  " + styleSubtle.Render("(revealed letters were used, so this solve is not ranked)") + "\n")
		}
		b.WriteString(m.viewLeaderboard())
	}

	if m.friendCode != "" {
		b.WriteString("\n  " + styleSubtle.Render("friend code: ") + styleFriendCode.Render(m.friendCode) + "\n")
	}
	b.WriteString(styleSubtle.Render("\n  type to fill | tab: next | enter: rotate | ctrl+r/w/g: reveal cell/word/grid | esc: quit"))
	return b.String()
}

func (m model) viewLeaderboard() string {
	if len(m.leaderboard) == 0 {
		return "\n  " + styleSubtle.Render("No friend times yet today.") + "\n"
	}
	var b strings.Builder
	b.WriteString("\n  Today's leaderboard:\n")
	for i, e := range m.leaderboard {
		line := fmt.Sprintf("  %d. %-30s %s", i+1, e.Email, formatClock(int(e.TimeMs/1000)))
		if e.Self {
			line = styleSelf.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// --- TOKEN CACHE ---

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".minicross")
}

func loadToken() string {
	data, err := os.ReadFile(filepath.Join(configDir(), "token"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveToken(token string) {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return
	}
	os.WriteFile(filepath.Join(dir, "token"), []byte(token), 0o600)
}

// --- MAIN ---

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "crossword server URL")
	flag.Parse()

	api := client.New(*serverURL)
	if token := loadToken(); token != "" {
		api.SetToken(token)
	}

	if err := os.MkdirAll(configDir(), 0o700); err != nil {
		log.Fatalf("create config dir: %v", err)
	}
	store, err := progress.Open(filepath.Join(configDir(), "progress.db"))
	if err != nil {
		log.Fatalf("open progress store: %v", err)
	}
	defer store.Close()

	sess := session.New(store, api)
	defer sess.Close()

	m := newModel(api, sess)
	if api.Token() != "" {
		m.state = stateLoading
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		log.Fatalf("error running program: %v", err)
	}
}
