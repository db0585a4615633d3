package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

// rowMinutes is the timeline resolution: one terminal row covers this
// many minutes, so a row is rowMinutes*PxPerMin pixels tall.
const rowMinutes = 15

const rowPx = rowMinutes * PxPerMin

type mode int

const (
	modeBrowse mode = iota
	modeDrag
	modeConflict
	modeForm
)

type boxesLoadedMsg struct {
	day   time.Time
	boxes []timebox.Box
}

type opDoneMsg struct {
	status string
	err    error
}

// Model is the day-view TUI.
type Model struct {
	app    *timeboxing.App
	log    zerolog.Logger
	keys   KeyMap
	mode   mode
	width  int
	height int

	day      time.Time
	mapper   Mapper
	boxes    []timebox.Box
	selected int
	viewport viewport.Model
	ready    bool

	gesture   Gesture
	pointerAt time.Time

	// pending holds the draft awaiting conflict resolution.
	pending Gesture

	form   *boxForm
	status string
}

// NewModel creates the day view for today.
func NewModel(app *timeboxing.App, logger zerolog.Logger) Model {
	day := time.Now()
	return Model{
		app:    app,
		log:    logger.With().Str("component", "tui").Logger(),
		keys:   DefaultKeyMap(),
		day:    day,
		mapper: NewMapper(day),
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadDay(m.day)
}

func (m Model) loadDay(day time.Time) tea.Cmd {
	return func() tea.Msg {
		boxes, err := m.app.Engine.BoxesForDay(context.Background(), day)
		if err != nil {
			return opDoneMsg{err: err}
		}
		return boxesLoadedMsg{day: day, boxes: boxes}
	}
}

// engineOp runs an engine call off the update loop and reports its
// outcome.
func (m Model) engineOp(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: status}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 4 // header, help, status
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderTimeline())
		return m, nil

	case boxesLoadedMsg:
		m.day = msg.day
		m.mapper = NewMapper(msg.day)
		m.boxes = msg.boxes
		if m.selected >= len(m.boxes) {
			m.selected = len(m.boxes) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.viewport.SetContent(m.renderTimeline())
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.log.Error().Err(msg.err).Msg("operation failed")
		} else {
			m.status = msg.status
		}
		return m, m.loadDay(m.day)

	case tea.KeyMsg:
		switch m.mode {
		case modeDrag:
			return m.updateDrag(msg)
		case modeConflict:
			return m.updateConflict(msg)
		case modeForm:
			return m.updateForm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.mode == modeForm && m.form != nil {
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		m.viewport.SetContent(m.renderTimeline())
		m.scrollToSelected()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.boxes)-1 {
			m.selected++
		}
		m.viewport.SetContent(m.renderTimeline())
		m.scrollToSelected()
		return m, nil

	case key.Matches(msg, m.keys.PrevDay):
		m.selected = 0
		return m, m.loadDay(m.day.AddDate(0, 0, -1))

	case key.Matches(msg, m.keys.NextDay):
		m.selected = 0
		return m, m.loadDay(m.day.AddDate(0, 0, 1))

	case key.Matches(msg, m.keys.Toggle):
		box, ok := m.selectedBox()
		if !ok {
			return m, nil
		}
		if box.Status == timebox.StatusActive {
			return m, m.engineOp("finished "+box.Title, func(ctx context.Context) error {
				return m.app.Engine.FinishBox(ctx, box.ID)
			})
		}
		return m, m.engineOp("started "+box.Title, func(ctx context.Context) error {
			err := m.app.Engine.StartBox(ctx, box.ID)
			if errors.Is(err, timebox.ErrActiveConflict) {
				return fmt.Errorf("another box is active; finish or split it first")
			}
			return err
		})

	case key.Matches(msg, m.keys.Split):
		box, ok := m.selectedBox()
		if !ok {
			return m, nil
		}
		return m, m.engineOp("split "+box.Title, func(ctx context.Context) error {
			_, err := m.app.Engine.SplitActiveBox(ctx, box.ID)
			if errors.Is(err, timebox.ErrNotActive) {
				return fmt.Errorf("%s is not active", box.Title)
			}
			return err
		})

	case key.Matches(msg, m.keys.Shift):
		box, ok := m.selectedBox()
		if !ok {
			return m, nil
		}
		return m, m.engineOp("shifted "+box.Title, func(ctx context.Context) error {
			return m.app.Engine.ShiftBox(ctx, box.ID)
		})

	case key.Matches(msg, m.keys.Delete):
		box, ok := m.selectedBox()
		if !ok {
			return m, nil
		}
		return m, m.engineOp("deleted "+box.Title, func(ctx context.Context) error {
			return m.app.Engine.DeleteBox(ctx, box.ID)
		})

	case key.Matches(msg, m.keys.Missed):
		return m, m.engineOp("missed sweep done", func(ctx context.Context) error {
			_, err := m.app.Engine.MarkMissedForDay(ctx, m.day)
			return err
		})

	case key.Matches(msg, m.keys.New):
		start := m.suggestStart()
		m.form = newBoxForm(start)
		m.mode = modeForm
		return m, m.form.form.Init()

	case key.Matches(msg, m.keys.Grab):
		box, ok := m.selectedBox()
		if !ok {
			return m, nil
		}
		g, ok := m.gesture.BeginMove(box, box.Start)
		if !ok {
			return m, nil
		}
		m.gesture = g.Track(m.mapper, box.Start, m.boxes)
		m.pointerAt = box.Start
		m.mode = modeDrag
		m.viewport.SetContent(m.renderTimeline())
		return m, nil

	case key.Matches(msg, m.keys.Resize):
		box, ok := m.selectedBox()
		if !ok {
			return m, nil
		}
		g, ok := m.gesture.BeginResize(box)
		if !ok {
			return m, nil
		}
		m.gesture = g.Track(m.mapper, box.End, m.boxes)
		m.pointerAt = box.End
		m.mode = modeDrag
		m.viewport.SetContent(m.renderTimeline())
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pointerAt = m.pointerAt.Add(-SnapStepMinutes * time.Minute)
		m.gesture = m.gesture.Track(m.mapper, m.pointerAt, m.boxes)
		m.autoScroll()
		m.viewport.SetContent(m.renderTimeline())
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.pointerAt = m.pointerAt.Add(SnapStepMinutes * time.Minute)
		m.gesture = m.gesture.Track(m.mapper, m.pointerAt, m.boxes)
		m.autoScroll()
		m.viewport.SetContent(m.renderTimeline())
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.gesture = Gesture{}
		m.mode = modeBrowse
		m.viewport.SetContent(m.renderTimeline())
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		idle, final := m.gesture.Finish()
		m.gesture = idle
		m.mode = modeBrowse

		if final.Conflict {
			m.pending = final
			m.mode = modeConflict
			m.viewport.SetContent(m.renderTimeline())
			return m, nil
		}

		return m, m.engineOp("saved", func(ctx context.Context) error {
			return m.app.Engine.UpdateBoxTimes(ctx, final.BoxID, final.Start, final.End, false)
		})
	}

	return m, nil
}

// updateConflict resolves a conflicted drop: force-save, relocate to
// the next free slot anchored at the draft end, or discard.
func (m Model) updateConflict(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	final := m.pending

	switch {
	case key.Matches(msg, m.keys.Force):
		m.pending = Gesture{}
		m.mode = modeBrowse
		return m, m.engineOp("saved with overlap", func(ctx context.Context) error {
			return m.app.Engine.UpdateBoxTimes(ctx, final.BoxID, final.Start, final.End, true)
		})

	case key.Matches(msg, m.keys.Relocate):
		m.pending = Gesture{}
		m.mode = modeBrowse
		duration := int(final.End.Sub(final.Start).Minutes())
		return m, m.engineOp("relocated", func(ctx context.Context) error {
			slot, err := m.app.Engine.FindNextFreeSlot(ctx, m.day, duration, final.End, final.BoxID)
			if err != nil {
				if errors.Is(err, timebox.ErrNoFreeSlot) {
					return fmt.Errorf("no free slot for %d minutes", duration)
				}
				return err
			}
			return m.app.Engine.UpdateBoxTimes(ctx, final.BoxID, slot.Start, slot.End, false)
		})

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Delete):
		m.pending = Gesture{}
		m.mode = modeBrowse
		m.status = "discarded"
		m.viewport.SetContent(m.renderTimeline())
		return m, nil
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Quit) && keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	form, cmd := m.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form.form = f
	}

	switch m.form.form.State {
	case huh.StateCompleted:
		f := m.form
		m.form = nil
		m.mode = modeBrowse
		return m, m.engineOp("scheduled "+f.title, func(ctx context.Context) error {
			start, err := timebox.AtClock(m.day, strings.TrimSpace(f.at))
			if err != nil {
				return err
			}
			end := start.Add(time.Duration(f.minutesValue()) * time.Minute)
			_, err = m.app.Engine.CreateBox(ctx, timeboxing.CreateBoxInput{
				Title: f.title,
				Start: start,
				End:   end,
				Tags:  f.tagList(),
			})
			return err
		})
	case huh.StateAborted:
		m.form = nil
		m.mode = modeBrowse
		return m, nil
	}

	return m, cmd
}

func (m Model) selectedBox() (timebox.Box, bool) {
	if m.selected < 0 || m.selected >= len(m.boxes) {
		return timebox.Box{}, false
	}
	return m.boxes[m.selected], true
}

// suggestStart proposes the next free 30-minute slot as the form
// default, falling back to the top of the coming hour.
func (m Model) suggestStart() string {
	slot, err := m.app.Engine.FindNextFreeSlot(context.Background(), m.day, 30, time.Now(), "")
	if err != nil {
		return time.Now().Truncate(time.Hour).Add(time.Hour).Format("15:04")
	}
	return slot.Start.Format("15:04")
}

// autoScroll keeps the drag pointer away from the viewport edges,
// advancing the scroll in EdgeScrollStepPx increments when the pointer
// enters the EdgeScrollZonePx band.
func (m *Model) autoScroll() {
	pointerRow := m.mapper.TimeToY(m.pointerAt) / rowPx
	topRow := m.viewport.YOffset
	bottomRow := topRow + m.viewport.Height - 1

	zoneRows := EdgeScrollZonePx / rowPx
	stepRows := EdgeScrollStepPx / rowPx
	if stepRows < 1 {
		stepRows = 1
	}

	if pointerRow-topRow <= zoneRows {
		m.viewport.YOffset -= stepRows
		if m.viewport.YOffset < 0 {
			m.viewport.YOffset = 0
		}
	} else if bottomRow-pointerRow <= zoneRows {
		m.viewport.YOffset += stepRows
	}
}

// scrollToSelected keeps the selected box visible while browsing.
func (m *Model) scrollToSelected() {
	box, ok := m.selectedBox()
	if !ok {
		return
	}
	row := m.mapper.TimeToY(box.Start) / rowPx
	if row < m.viewport.YOffset {
		m.viewport.YOffset = row
	}
	if bottom := m.viewport.YOffset + m.viewport.Height - 1; row > bottom {
		m.viewport.YOffset = row - m.viewport.Height + 1
	}
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.mode == modeForm && m.form != nil {
		return m.form.form.View()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Timebox") + "  " + m.day.Format("Mon 2006-01-02"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.mode == modeConflict {
		prompt := fmt.Sprintf("%s overlaps another box.  f force save  s next free slot  esc discard",
			m.pending.Start.Format("15:04")+"-"+m.pending.End.Format("15:04"))
		b.WriteString(promptStyle.Render(prompt))
	} else {
		b.WriteString(m.helpLine())
	}
	b.WriteString("\n")
	b.WriteString(statusLineStyle.Render(m.status))

	return b.String()
}

func (m Model) helpLine() string {
	if m.mode == modeDrag {
		return helpStyle.Render("j/k move  enter save  esc cancel")
	}
	return helpStyle.Render("j/k select  space start/finish  x split  s shift  g move  r resize  n new  d delete  m missed  tab day  q quit")
}

// renderTimeline draws the day as one row per 15 minutes between the
// display window bounds.
func (m Model) renderTimeline() string {
	var b strings.Builder

	draft := m.gesture
	if m.mode == modeConflict {
		draft = m.pending
	}

	for row := 0; row < m.mapper.HeightPx()/rowPx; row++ {
		rowStart := m.mapper.WindowStart().Add(time.Duration(row*rowMinutes) * time.Minute)
		rowEnd := rowStart.Add(rowMinutes * time.Minute)

		gutter := "      "
		if rowStart.Minute() == 0 {
			gutter = gutterStyle.Render(rowStart.Format("15:04")) + " "
		}
		b.WriteString(gutter)
		b.WriteString(hourRuleStyle.Render("│"))

		if draft.Active() && timebox.RangesOverlap(draft.Start, draft.End, rowStart, rowEnd) {
			b.WriteString(" " + m.renderDraftRow(draft, rowStart))
		} else if box, ok := m.boxAt(rowStart, rowEnd, draft); ok {
			b.WriteString(" " + m.renderBoxRow(box, rowStart))
		}

		b.WriteString("\n")
	}

	return b.String()
}

// boxAt finds the box covering the row, skipping the dragged box so the
// draft is the only rendering of it.
func (m Model) boxAt(rowStart, rowEnd time.Time, draft Gesture) (timebox.Box, bool) {
	for _, box := range m.boxes {
		if draft.Active() && box.ID == draft.BoxID {
			continue
		}
		if timebox.RangesOverlap(box.Start, box.End, rowStart, rowEnd) {
			return box, true
		}
	}
	return timebox.Box{}, false
}

func (m Model) renderBoxRow(box timebox.Box, rowStart time.Time) string {
	style := boxStyle(box)
	if sel, ok := m.selectedBox(); ok && sel.ID == box.ID && m.mode == modeBrowse {
		style = selectedStyle
	}

	// First row carries the label; continuation rows a bare edge.
	if !box.Start.Before(rowStart) || m.mapper.TimeToY(box.Start) == m.mapper.TimeToY(rowStart) {
		label := fmt.Sprintf("%s-%s %s", box.Start.Format("15:04"), box.End.Format("15:04"), box.Title)
		if box.Status == timebox.StatusActive {
			label += " " + activeBadge.Render("●")
		}
		if box.Status == timebox.StatusMissed {
			label += " !"
		}
		return style.Render(label)
	}
	return style.Render("┆")
}

func (m Model) renderDraftRow(draft Gesture, rowStart time.Time) string {
	style := draftStyle
	if draft.Conflict {
		style = conflictStyle
	}

	if m.mapper.TimeToY(draft.Start) == m.mapper.TimeToY(rowStart) || !draft.Start.Before(rowStart) {
		label := fmt.Sprintf("%s-%s (moving)", draft.Start.Format("15:04"), draft.End.Format("15:04"))
		if draft.Conflict {
			label += " overlaps!"
		}
		return style.Render(label)
	}
	return style.Render("┆")
}
