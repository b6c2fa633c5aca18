package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumdash/internal/album"
	"github.com/desertthunder/albumdash/internal/countdown"
	"github.com/desertthunder/albumdash/internal/models"
	albumprogress "github.com/desertthunder/albumdash/internal/progress"
	"github.com/desertthunder/albumdash/internal/router"
	"github.com/desertthunder/albumdash/internal/shared"
)

const (
	coarseStep    = 5
	fineStep      = 1
	statusTimeout = 3 * time.Second
	deadlineInput = "2006-01-02 15:04"
)

// editKind is the field a text input is currently editing.
type editKind int

const (
	editNone editKind = iota
	editAlbumTitle
	editSongTitle
	editStageName
	editDeadline
	editNewSong
)

// Options configures a [Model].
type Options struct {
	Threshold int
	Logger    *log.Logger
	Location  *time.Location
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	state     *album.State
	router    *router.Router
	view      router.View
	threshold int
	logger    *log.Logger
	loc       *time.Location
	clock     func() time.Time
	now       time.Time

	cursor  int
	stage   int
	width   int
	height  int
	editing editKind
	confirm bool

	status    string
	statusErr bool
	statusSeq int

	input   textinput.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
	showAll bool
}

// NewModel creates a new TUI model over state.
func NewModel(ctx context.Context, state *album.State, opts Options) *Model {
	if opts.Threshold <= 0 {
		opts.Threshold = albumprogress.DefaultThreshold
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	input := textinput.New()
	input.CharLimit = 120
	input.Width = 40

	m := &Model{
		ctx:       ctx,
		state:     state,
		router:    router.New(),
		threshold: opts.Threshold,
		logger:    opts.Logger,
		loc:       opts.Location,
		clock:     opts.Now,
		now:       opts.Now(),
		input:     input,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.albumChanged(state.Album())
	state.OnChange(m.albumChanged)
	return m
}

// Run starts the dashboard and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, state *album.State, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, state, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// Init starts the countdown ticker.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgTick:
			m.now = msg.data.(time.Time)
			return m, m.tick()
		case MsgStatus:
			if seq, ok := msg.data.(int); ok && seq == m.statusSeq {
				m.status = ""
				m.statusErr = false
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.editing != editNone:
			return m.handleEditKeys(msg)
		case m.confirm:
			return m.handleConfirmKeys(msg)
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.help):
			m.showAll = !m.showAll
			return m, nil
		}

		switch m.view.Mode {
		case router.Zoomed:
			return m.handleSongKeys(msg)
		default:
			return m.handleGridKeys(msg)
		}
	}

	return m, nil
}

// albumChanged re-resolves the navigation token against a's songs and clamps both cursors.
// It runs on every applied change to the album state.
func (m *Model) albumChanged(a models.Album) {
	ids := a.SongIDs()
	m.view = m.router.Refresh(ids)
	m.cursor = max(min(m.cursor, len(ids)-1), 0)

	if m.view.Mode != router.Zoomed {
		m.confirm = false
		return
	}
	for _, song := range a.Songs {
		if song.ID == m.view.SongID {
			m.stage = max(min(m.stage, len(song.Stages)-1), 0)
		}
	}
}

func (m *Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := m.state.SongIDs()
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.left):
		m.cursor--
	case key.Matches(msg, m.keys.right):
		m.cursor++
	case key.Matches(msg, m.keys.up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor+cols < len(ids) {
			m.cursor += cols
		}
	case key.Matches(msg, m.keys.enter):
		if len(ids) > 0 {
			m.navigate(router.Token(ids[m.cursor]))
		}
	case key.Matches(msg, m.keys.rename):
		return m, m.startEdit(editAlbumTitle, "Album title: ", m.state.Title())
	case key.Matches(msg, m.keys.deadline):
		return m, m.startEdit(editDeadline, "Deadline: ", m.state.Deadline().In(m.loc).Format(deadlineInput))
	case key.Matches(msg, m.keys.addSong):
		return m, m.startEdit(editNewSong, "New song: ", "")
	}

	m.cursor = max(min(m.cursor, len(ids)-1), 0)
	return m, nil
}

func (m *Model) handleSongKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.view.SongID
	song, ok := m.state.Song(id)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.navigate(router.GridToken)
	case key.Matches(msg, m.keys.up):
		m.stage = max(m.stage-1, 0)
	case key.Matches(msg, m.keys.down):
		m.stage = min(m.stage+1, max(len(song.Stages)-1, 0))
	case key.Matches(msg, m.keys.inc):
		m.adjust(song, coarseStep)
	case key.Matches(msg, m.keys.dec):
		m.adjust(song, -coarseStep)
	case key.Matches(msg, m.keys.incFine):
		m.adjust(song, fineStep)
	case key.Matches(msg, m.keys.decFine):
		m.adjust(song, -fineStep)
	case key.Matches(msg, m.keys.addStage):
		if m.state.AddStage(id) {
			m.stage = len(song.Stages)
		}
	case key.Matches(msg, m.keys.removeStage):
		if m.stage >= len(song.Stages) {
			return m, nil
		}
		name := song.Stages[m.stage].Name
		if m.state.RemoveStage(id, m.stage) {
			return m, m.setStatus(fmt.Sprintf("Removed %q", name), false)
		}
	case key.Matches(msg, m.keys.editStage):
		if m.stage < len(song.Stages) {
			return m, m.startEdit(editStageName, "Stage name: ", song.Stages[m.stage].Name)
		}
	case key.Matches(msg, m.keys.rename):
		return m, m.startEdit(editSongTitle, "Song title: ", song.Title)
	case key.Matches(msg, m.keys.deadline):
		return m, m.startEdit(editDeadline, "Deadline: ", m.state.Deadline().In(m.loc).Format(deadlineInput))
	case key.Matches(msg, m.keys.addSong):
		return m, m.startEdit(editNewSong, "New song: ", "")
	case key.Matches(msg, m.keys.removeSong):
		m.confirm = true
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirm = false
	if !key.Matches(msg, m.keys.yes) {
		return m, nil
	}

	song, ok := m.state.Song(m.view.SongID)
	if !ok || !m.state.RemoveSong(song.ID) {
		return m, nil
	}
	m.logger.Info("song removed", "id", song.ID)
	return m, m.setStatus(fmt.Sprintf("Deleted %q", song.Title), false)
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.stopEdit()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		kind := m.editing
		m.stopEdit()
		return m, m.commit(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commit applies a finished text edit.
func (m *Model) commit(kind editKind, value string) tea.Cmd {
	id := m.view.SongID

	switch kind {
	case editAlbumTitle:
		m.state.RenameAlbum(value)
	case editSongTitle:
		m.state.RenameSong(id, value)
	case editStageName:
		m.state.UpdateStage(id, m.stage, album.StagePatch{Name: &value})
	case editNewSong:
		newID := m.state.AddSong(value)
		m.cursor = len(m.state.SongIDs()) - 1
		return m.setStatus(fmt.Sprintf("Added song #%d", newID), false)
	case editDeadline:
		t, err := shared.ParseDeadline(value, m.loc)
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.state.SetDeadline(t)
		return m.setStatus("Deadline set to "+t.In(m.loc).Format(deadlineInput), false)
	}
	return nil
}

func (m *Model) adjust(song models.Song, delta int) {
	if m.stage >= len(song.Stages) {
		return
	}
	v := song.Stages[m.stage].Value + delta
	m.state.UpdateStage(song.ID, m.stage, album.StagePatch{Value: &v})
}

func (m *Model) navigate(token string) {
	m.view = m.router.Navigate(token, m.state.SongIDs())
	m.stage = 0
	m.logger.Debug("navigated", "token", token, "view", m.view)
}

func (m *Model) startEdit(kind editKind, prompt, value string) tea.Cmd {
	m.editing = kind
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopEdit() {
	m.editing = editNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return statusClearMsg(seq) })
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) columns() int {
	if m.width <= 0 {
		return 4
	}
	return max(m.width/cardWidth, 1)
}

// View renders the UI based on the current view.
func (m *Model) View() string {
	var b strings.Builder

	switch m.view.Mode {
	case router.Zoomed:
		b.WriteString(m.renderSong())
	default:
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	a := m.state.Album()
	summary := albumprogress.Summarize(a.Songs, m.threshold)
	left := countdown.Remaining(m.now, a.Deadline)

	eligible := styles.completionStyle(summary.Eligible, max(summary.Total, 1)).
		Render(fmt.Sprintf("%d/%d", summary.Eligible, summary.Total))
	deadline := fmt.Sprintf("%s  %s (%s)",
		left,
		a.Deadline.In(m.loc).Format(deadlineInput),
		countdown.Relative(m.now, a.Deadline),
	)
	if left.Zero() {
		deadline = styles.err.Render("Deadline reached")
	}

	return fmt.Sprintf("%s\nEligible %s  (≥%d%%)\nCompletion %s\nRelease in %s",
		styles.title.Render(a.Title),
		eligible,
		m.threshold,
		m.bar.ViewAs(float64(summary.Completion)/100),
		deadline,
	)
}

func (m *Model) renderGrid() string {
	songs := m.state.Songs()
	return fmt.Sprintf("%s\n\n%s", m.renderHeader(), songGrid(songs, m.threshold, m.cursor, m.columns()))
}

func (m *Model) renderSong() string {
	song, ok := m.state.Song(m.view.SongID)
	if !ok {
		return m.renderGrid()
	}

	c := albumprogress.SongCompletion(song)
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("#%d %s", song.ID, song.Title)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Completion %s %s\n\n",
		m.bar.ViewAs(float64(c)/100),
		styles.completionStyle(c, m.threshold).Render(fmt.Sprintf("%d%%", c)),
	)

	if len(song.Stages) == 0 {
		b.WriteString(styles.help.Render("No stages. Press a to add one."))
	}
	for i, st := range song.Stages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(stageLine(st, i == m.stage))
	}

	if m.confirm {
		b.WriteString("\n\n")
		b.WriteString(styles.warn.Render(fmt.Sprintf("Delete %q permanently? (y/n)", song.Title)))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	var parts []string
	if m.editing != editNone {
		parts = append(parts, m.input.View())
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, styles.err.Render(m.status))
		} else {
			parts = append(parts, styles.ok.Render(m.status))
		}
	}

	switch {
	case m.showAll:
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	case m.view.Mode == router.Zoomed:
		parts = append(parts, m.help.ShortHelpView(m.keys.songHelp()))
	default:
		parts = append(parts, m.help.ShortHelpView(m.keys.gridHelp()))
	}
	return strings.Join(parts, "\n")
}
