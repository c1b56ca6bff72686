package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/repositories"
	"github.com/desertthunder/wrlog/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ChangelistView ViewState = iota
	DetailView
	UpdateView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	store    repositories.Store
	engine   *tasks.UpdateEngine
	width    int
	height   int
	list     list.Model
	entries  models.Changelist
	selected *models.ChangelistEntry
	progress tasks.ProgressUpdate
	updates  chan tasks.ProgressUpdate
	done     chan Msg
	result   *tasks.UpdateResult
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model. A nil engine disables update runs.
func NewModel(ctx context.Context, store repositories.Store, engine *tasks.UpdateEngine) *Model {
	m := &Model{
		ctx:    ctx,
		view:   ChangelistView,
		store:  store,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
	m.list = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.list.Title = "World Record Changes"
	return m
}

// Init loads the changelist from the store.
func (m *Model) Init() tea.Cmd {
	return m.loadChangelist()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ChangelistView:
			return m.handleChangelistKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case UpdateView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == ChangelistView {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgChangelistLoaded:
		data := msg.data.(changelistLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.entries = data.entries
		return m, m.list.SetItems(entryItems(m.entries))

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgUpdateComplete:
		data := msg.data.(updateComplete)
		m.result = data.result
		m.err = data.err
		m.updates = nil
		m.done = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleChangelistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			entry := item.entry
			m.selected = &entry
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.loadChangelist()
	case key.Matches(msg, m.keys.update):
		if m.engine == nil {
			return m, nil
		}
		m.view = UpdateView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startUpdate()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ChangelistView
		m.selected = nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = ChangelistView
		m.result = nil
		m.err = nil
		return m, m.loadChangelist()
	}
	return m, nil
}

func (m *Model) loadChangelist() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.store.LoadChangelist()
		if err != nil && !repositories.IsNotFound(err) {
			return changelistLoadedMsg(nil, err)
		}
		return changelistLoadedMsg(entries.Recent(0), nil)
	}
}

func (m *Model) startUpdate() tea.Cmd {
	updates := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.updates = updates
	m.done = done

	engine, ctx := m.engine, m.ctx
	go func() {
		result, err := engine.Run(ctx, updates)
		done <- updateCompleteMsg(result, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	updates, done := m.updates, m.done
	return func() tea.Msg {
		if done == nil {
			return updateCompleteMsg(m.result, m.err)
		}
		select {
		case update := <-updates:
			return progressUpdateMsg(update)
		case msg := <-done:
			return msg
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == ChangelistView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to reload, q to quit", m.err))
	}

	switch m.view {
	case ChangelistView:
		return m.renderChangelist()
	case DetailView:
		return m.renderDetail()
	case UpdateView:
		return m.renderUpdate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) renderChangelist() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.reload}
	if m.engine != nil {
		helpKeys = append(helpKeys, m.keys.update)
	}
	helpKeys = append(helpKeys, m.keys.quit)
	return fmt.Sprintf("%s\n\n%s", m.list.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	e := m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s (%s)", e.MapName, e.Mode)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Mode:           "), styles.Mode(e.Mode))
	fmt.Fprintf(&b, "Record:          %s\n", styles.record.Render(e.RecordNew))
	fmt.Fprintf(&b, "Holder:          %s (%s)\n", e.NewRecordholder, e.SteamIDNewRecordholder)
	if e.RecordOld != nil {
		fmt.Fprintf(&b, "Previous record: %s\n", *e.RecordOld)
	}
	if e.OldRecordholder != nil {
		fmt.Fprintf(&b, "Previous holder: %s (%s)\n", *e.OldRecordholder, models.Deref(e.SteamIDOldRecordholder))
	}
	if e.WorkshopItemID != nil {
		fmt.Fprintf(&b, "Workshop item:   %s\n", *e.WorkshopItemID)
	}
	if e.MapAuthor != nil {
		fmt.Fprintf(&b, "Author:          %s (%s)\n", *e.MapAuthor, models.Deref(e.SteamIDAuthor))
	}
	if e.MapPreview != nil {
		fmt.Fprintf(&b, "Preview:         %s\n", *e.MapPreview)
	}
	fmt.Fprintf(&b, "Fetched:         %s\n", e.FetchTime)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func (m *Model) renderUpdate() string {
	title := styles.title.Render("Updating World Records")

	var phase string
	switch m.progress.Phase {
	case tasks.LoadState:
		phase = "Loading previous state..."
	case tasks.FetchLevels:
		phase = fmt.Sprintf("Fetching leaderboards (%d)", m.progress.Step)
	case tasks.ReconcileSnapshots:
		phase = "Reconciling snapshots..."
	case tasks.DiffChangelist:
		phase = "Computing changelist..."
	case tasks.SaveState:
		phase = fmt.Sprintf("Saving state (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Update failed: %v", m.err)) + "\n\n" + helpView
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	r := m.result
	fetched := r.Fetch
	if fetched == nil {
		fetched = &tasks.FetchResult{}
	}
	title := styles.ok.Render("✓ Update Complete!")
	info := fmt.Sprintf(
		"\nOfficial levels: %d\nCommunity levels: %d\nSnapshots: %d\nNew records: %d\nChangelist size: %d\nDuration: %s",
		fetched.Official,
		fetched.Community,
		r.Reconciled,
		len(r.Appended),
		r.ChangelistSize,
		r.Duration.Round(time.Millisecond),
	)

	var notes string
	if fetched.Dropped > 0 {
		notes += "\n" + styles.warn.Render(fmt.Sprintf("Dropped %d failed community fetches", fetched.Dropped))
	}
	if fetched.Truncated {
		notes += "\n" + styles.warn.Render("Fetch was cut short by the step timeout")
	}
	if r.FirstRun {
		notes += "\n" + styles.help.Render("First run: records are logged from the next update on")
	}

	var appended string
	for _, e := range r.Appended {
		appended += fmt.Sprintf("\n  • %s %s: %s by %s", styles.Mode(e.Mode), e.MapName, e.RecordNew, e.NewRecordholder)
	}

	return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, info, notes, appended, helpView)
}
