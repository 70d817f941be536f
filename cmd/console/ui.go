package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/wild-trails/internal/handlers"
	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/game"
	"github.com/jwebster45206/wild-trails/pkg/prompts"
)

// entryKind selects how a story entry is styled.
type entryKind int

const (
	entryEvent entryKind = iota
	entryChoice
	entryOutcome
	entryUnlock
	entryReview
	entryInfo
	entryError
)

type storyEntry struct {
	kind entryKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	api          *apiClient
	profileID    uuid.UUID
	status       game.Status
	event        *content.EventNode
	entries      []storyEntry
	lastReview   string
	gallery      []handlers.CollectibleView
	storyPort    viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int
	loading      bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type eventMsg struct {
	resp *handlers.EventResponse
	err  error
}

type choiceMsg struct {
	resp *handlers.ChoiceResponse
	err  error
}

type reviewMsg struct {
	resp *services.ReviewResponse
	err  error
}

type galleryMsg struct {
	items []handlers.CollectibleView
	err   error
}

type progressTickMsg struct{}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	outcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	unlockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // gold
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(api *apiClient, profileID uuid.UUID) ConsoleUI {
	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		api:          api,
		profileID:    profileID,
		storyPort:    storyVp,
		metaViewport: metaVp,
		loading:      true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.fetchEvent(), progressTick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		storyWidth, metaWidth := m.panelWidths()
		m.storyPort.Width = storyWidth - 2
		m.storyPort.Height = m.height - 6
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.ready = true
		m.render()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}
		if m.loading {
			break
		}
		switch msg.String() {
		case "1", "2":
			if m.event == nil || m.status.SessionEnded {
				m.addEntry(entryInfo, "The trail has ended. Press r to start a new run.")
				return m, nil
			}
			choice := int(msg.String()[0] - '1')
			if ch, ok := m.event.Choice(choice); ok {
				m.addEntry(entryChoice, ch.Label)
			}
			return m.startLoading(m.sendChoice(choice))
		case "r":
			m.entries = nil
			m.lastReview = ""
			return m.startLoading(m.resetSession())
		case "v":
			m.addEntry(entryInfo, "Asking for a review of your journey...")
			return m.startLoading(m.requestReview())
		case "g":
			return m.startLoading(m.fetchGallery())
		case "c":
			m.copyReview()
			return m, nil
		}

	case eventMsg:
		m.loading = false
		if msg.err != nil {
			m.addEntry(entryError, msg.err.Error())
			break
		}
		m.applyEvent(msg.resp)

	case choiceMsg:
		m.loading = false
		if msg.err != nil {
			m.addEntry(entryError, msg.err.Error())
			break
		}
		res := msg.resp.Resolution
		text := res.OutcomeText
		if res.CurrencyDiff != 0 {
			text += fmt.Sprintf(" (%+d coins)", res.CurrencyDiff)
		}
		m.addEntry(entryOutcome, text)
		if res.Unlocked != nil {
			m.addEntry(entryUnlock, "Unlocked: "+prompts.GalleryLabel(*res.Unlocked))
		}
		m.status = msg.resp.Status
		m.loading = true
		return m, tea.Batch(m.fetchEvent(), progressTick())

	case reviewMsg:
		m.loading = false
		if msg.err != nil {
			m.addEntry(entryError, msg.err.Error())
			break
		}
		m.lastReview = msg.resp.Review
		m.addEntry(entryReview, msg.resp.Review)
		m.addEntry(entryInfo, "Press c to copy the review.")

	case galleryMsg:
		m.loading = false
		if msg.err != nil {
			m.addEntry(entryError, msg.err.Error())
			break
		}
		m.gallery = msg.items
		if len(msg.items) == 0 {
			m.addEntry(entryInfo, "Your collection is empty.")
		} else {
			m.addEntry(entryInfo, fmt.Sprintf("Collection: %d item(s), listed on the right.", len(msg.items)))
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.render()
			return m, progressTick()
		}
	}

	m.render()
	m.storyPort, vpCmd = m.storyPort.Update(msg)
	return m, vpCmd
}

func (m ConsoleUI) startLoading(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.progressTick = 0
	m.render()
	return m, tea.Batch(cmd, progressTick())
}

func (m *ConsoleUI) applyEvent(resp *handlers.EventResponse) {
	m.status = resp.Status
	m.event = resp.Event
	if resp.Event == nil {
		m.addEntry(entryInfo, fmt.Sprintf("The trail ends here. You finished with %d coins. Press r for a new run or v for a review.", resp.Status.Currency))
		return
	}
	m.addEntry(entryEvent, resp.Event.Text)
}

func (m *ConsoleUI) addEntry(kind entryKind, text string) {
	m.entries = append(m.entries, storyEntry{kind: kind, text: text})
	m.render()
}

func (m *ConsoleUI) copyReview() {
	if m.lastReview == "" {
		m.addEntry(entryInfo, "No review to copy yet. Press v to request one.")
		return
	}
	if err := clipboard.WriteAll(m.lastReview); err != nil {
		m.addEntry(entryError, "Could not copy review: "+err.Error())
		return
	}
	m.addEntry(entryInfo, "Review copied to clipboard.")
}

func (m ConsoleUI) panelWidths() (int, int) {
	storyWidth := int(float64(m.width)*0.7) - 4
	return storyWidth, m.width - storyWidth - 6
}

// render rebuilds both panels for the current width.
func (m *ConsoleUI) render() {
	width := m.storyPort.Width - 6
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("WILD TRAILS") + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range m.entries {
		b.WriteString(formatEntry(e, width))
		b.WriteString("\n\n")
	}

	if m.event != nil && !m.loading {
		b.WriteString(sceneStyle.Render(prompts.SceneLabel(m.event.Scene)) + "\n")
		for i, ch := range m.event.Choices {
			b.WriteString(choiceStyle.Render(fmt.Sprintf("[%d] ", i+1)) + wordwrap.String(ch.Label, width-4) + "\n")
		}
	}
	if m.loading {
		b.WriteString(m.renderProgressBar())
	}

	m.storyPort.SetContent(b.String())
	m.storyPort.GotoBottom()
	m.metaViewport.SetContent(writeMetadata(m.status, m.gallery))
}

func formatEntry(e storyEntry, width int) string {
	switch e.kind {
	case entryChoice:
		return choiceStyle.Render("You: ") + wordwrap.String(e.text, width-5)
	case entryOutcome:
		return outcomeStyle.Render(wordwrap.String(e.text, width))
	case entryUnlock:
		return unlockStyle.Render(wordwrap.String(e.text, width))
	case entryReview:
		return titleStyle.Render("Journey Review") + "\n" + wordwrap.String(e.text, width)
	case entryError:
		return errorStyle.Render("Error: " + wordwrap.String(e.text, width-7))
	case entryInfo:
		return promptStyle.Render(wordwrap.String(e.text, width))
	default:
		return wordwrap.String(e.text, width)
	}
}

func writeMetadata(status game.Status, gallery []handlers.CollectibleView) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TRAIL") + "\n\n")

	b.WriteString("Profile:\n")
	id := status.ProfileID.String()
	b.WriteString(id[:8] + "...\n\n")

	b.WriteString(fmt.Sprintf("Stamina:\n%d / %d\n\n", status.Stamina, status.MaxStamina))
	b.WriteString(fmt.Sprintf("Coins:\n%d\n\n", status.Currency))
	b.WriteString(fmt.Sprintf("Collected:\n%d\n\n", status.CollectedCount))

	if len(gallery) > 0 {
		b.WriteString("Gallery:\n")
		for _, item := range gallery {
			b.WriteString("• " + prompts.GalleryLabel(item.Collectible) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Keys:\n")
	b.WriteString("• 1/2: Choose\n")
	b.WriteString("• r: New run\n")
	b.WriteString("• v: Review\n")
	b.WriteString("• c: Copy review\n")
	b.WriteString("• g: Gallery\n")
	b.WriteString("• Esc: Quit\n")

	return b.String()
}

func (m ConsoleUI) fetchEvent() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.getEvent(m.profileID)
		return eventMsg{resp, err}
	}
}

func (m ConsoleUI) sendChoice(choice int) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.choose(m.profileID, choice)
		return choiceMsg{resp, err}
	}
}

func (m ConsoleUI) resetSession() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.reset(m.profileID)
		return eventMsg{resp, err}
	}
}

func (m ConsoleUI) requestReview() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.review(m.profileID)
		return reviewMsg{resp, err}
	}
}

func (m ConsoleUI) fetchGallery() tea.Cmd {
	return func() tea.Msg {
		items, err := m.api.collection(m.profileID)
		return galleryMsg{items, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Leave the Trail?"))
	b.WriteString("\n\n")
	b.WriteString("Your progress is saved. Quit now?")
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth, metaWidth := m.panelWidths()

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyPort.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			promptStyle.Render("1/2 choose · r new run · v review · g gallery · esc quit"),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.storyPort.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	usable = min(max(usable, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
