package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tracktop/tracktop/internal/api"
	"github.com/tracktop/tracktop/internal/config"
	"github.com/tracktop/tracktop/internal/core/eventsync"
	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/core/nowmarker"
	"github.com/tracktop/tracktop/internal/core/registry"
	"github.com/tracktop/tracktop/internal/core/stopwatch"
	"github.com/tracktop/tracktop/internal/presentation/display"
	"github.com/tracktop/tracktop/internal/presentation/interaction"
	"github.com/tracktop/tracktop/internal/util"
)

const nudgeStep = 15 * time.Minute

// Orchestrator coordinates all components for the top command.
type Orchestrator struct {
	config *Config

	// Core components
	client      *api.Client
	registry    *registry.Registry
	sync        *eventsync.Synchronizer
	stopwatch   *stopwatch.Stopwatch
	refreshCtrl *RefreshController

	stateManager *StateManager

	// UI components
	display  *display.TerminalDisplay
	keyboard *interaction.KeyboardReader
	selector *interaction.EventSelector

	// Monitoring
	watcher *ConfigWatcher

	runCtx context.Context

	// Stopwatch project cycling
	projectCursor int

	messageExpiry time.Time
}

// NewOrchestrator creates a new Orchestrator instance.
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := api.NewClient(cfg.ServerURL, cfg.Token)
	reg := registry.New(client)
	sync := eventsync.New(client)

	displayConfig := &display.Config{
		Timezone:   cfg.Timezone,
		TimeFormat: cfg.TimeFormat,
	}

	o := &Orchestrator{
		config:       cfg,
		client:       client,
		registry:     reg,
		sync:         sync,
		stopwatch:    stopwatch.New(),
		refreshCtrl:  NewRefreshController(reg, sync),
		stateManager: NewStateManager(),
		display:      display.NewTerminalDisplay(displayConfig),
		selector:     interaction.NewEventSelector(),
	}

	sync.SetRevertHook(func(model.TimeEntry) {
		o.setStatus("change reverted")
	})

	return o, nil
}

// Run starts the orchestrator main loop.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting tracktop dashboard...")
	o.runCtx = ctx

	defer o.Close()

	if err := util.InitializeTimeProvider(o.config.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard
	defer o.keyboard.Close()

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	tp := util.GetTimeProvider()
	o.stateManager.SetWeekStart(tp.StartOfWeek(tp.Now(), o.config.WeekStart))

	o.stateManager.SetLoadingState(true, "Fetching projects and events...")
	o.updateDisplay()

	if err := o.refreshData(ctx); err != nil {
		return fmt.Errorf("initial fetch failed: %w", err)
	}
	o.stateManager.SetLoadingState(false, "")

	if o.config.ConfigPath != "" {
		watcher, err := NewConfigWatcher(o.config.ConfigPath)
		if err != nil {
			util.LogWarnf("Config watching disabled: %v", err)
		} else {
			o.watcher = watcher
		}
	}

	swTicker := time.NewTicker(time.Second)
	defer swTicker.Stop()

	uiTicker := time.NewTicker(time.Second)
	defer uiTicker.Stop()

	dataTicker := time.NewTicker(o.config.DataRefreshInterval)
	defer dataTicker.Stop()

	watcherEvents := o.watcherEvents()

	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down tracktop dashboard...")
			return nil

		case <-swTicker.C:
			if o.stopwatch.Running() {
				o.stopwatch.Tick()
			}

		case <-uiTicker.C:
			o.updateDisplay()

		case <-dataTicker.C:
			state := o.stateManager.GetInteractionState()
			if !state.IsPaused || state.ForceRefresh {
				if err := o.refreshData(ctx); err != nil {
					util.LogErrorf("Background refresh failed: %v", err)
				}
				o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
					s.ForceRefresh = false
				})
			}

		case <-watcherEvents:
			o.handleConfigChange(ctx)

		case keyEvent := <-o.keyboard.Events():
			if o.handleKeyboard(keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

func (o *Orchestrator) watcherEvents() <-chan struct{} {
	if o.watcher == nil {
		return nil
	}
	return o.watcher.Events()
}

// refreshData refetches projects and events and publishes them to the
// state manager.
func (o *Orchestrator) refreshData(ctx context.Context) error {
	projects, entries, err := o.refreshCtrl.RefreshAll(ctx)
	if err != nil {
		return err
	}
	o.stateManager.SetProjects(projects)
	o.stateManager.SetEntries(entries)
	return nil
}

// handleConfigChange reloads the watched config file and applies the
// settings that can change at runtime.
func (o *Orchestrator) handleConfigChange(ctx context.Context) {
	cfg, err := config.Load(o.config.ConfigPath)
	if err != nil {
		util.LogWarnf("Config reload failed: %v", err)
		return
	}

	if cfg.ServerURL != o.config.ServerURL || cfg.Token != o.config.Token {
		util.LogWarn("server_url/token changed; restart to apply")
	}
	if cfg.Timezone != o.config.Timezone {
		if err := util.GetTimeProvider().SetTimezone(cfg.Timezone); err != nil {
			util.LogWarnf("Invalid timezone %q: %v", cfg.Timezone, err)
		} else {
			o.config.Timezone = cfg.Timezone
		}
	}
	o.config.WeekStart = cfg.WeekStart

	tp := util.GetTimeProvider()
	o.stateManager.SetWeekStart(tp.StartOfWeek(tp.Now(), o.config.WeekStart))

	util.LogInfo("Config reloaded, refetching data")
	if err := o.refreshData(ctx); err != nil {
		util.LogErrorf("Refetch after config reload failed: %v", err)
	}
	o.updateDisplay()
}

// visibleEntries returns the entries overlapping the displayed week, in
// start order.
func (o *Orchestrator) visibleEntries() []model.TimeEntry {
	weekStart := o.stateManager.WeekStart()
	weekEnd := weekStart.AddDate(0, 0, 7)

	var visible []model.TimeEntry
	for _, e := range o.stateManager.GetEntries() {
		if e.End.After(weekStart) && e.Start.Before(weekEnd) {
			visible = append(visible, e)
		}
	}
	return visible
}

// updateDisplay builds a frame from current state and renders it.
func (o *Orchestrator) updateDisplay() {
	tp := util.GetTimeProvider()
	now := tp.Now()
	weekStart := o.stateManager.WeekStart()

	visible := o.visibleEntries()
	o.selector.SetCount(len(visible))
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.SelectedEvent = o.selector.Current()
		if !o.messageExpiry.IsZero() && now.After(o.messageExpiry) {
			s.StatusMessage = ""
			s.ErrorMessage = ""
		}
	})

	gridW, gridH := o.display.GridSize()
	marker := nowmarker.Compute(now, weekStart, gridW, gridH)

	state := o.stateManager.GetInteractionState()
	isLoading, loadingMsg := o.stateManager.GetLoadingState()

	var detail *model.TimeEntry
	if state.DetailEventID != "" {
		if entry, ok := o.sync.Find(state.DetailEventID); ok {
			detail = &entry
		}
	}

	o.display.Render(display.RenderState{
		Stopwatch:   o.stopwatch.Snapshot(),
		Projects:    o.stateManager.GetProjects(),
		Entries:     visible,
		WeekStart:   weekStart,
		Marker:      marker,
		Interaction: state,
		IsLoading:   isLoading,
		LoadingMsg:  loadingMsg,
		DetailEntry: detail,
	})
}

func (o *Orchestrator) setStatus(msg string) {
	o.messageExpiry = util.GetTimeProvider().Now().Add(5 * time.Second)
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = msg
		s.ErrorMessage = ""
	})
}

func (o *Orchestrator) setError(err error) {
	o.messageExpiry = util.GetTimeProvider().Now().Add(5 * time.Second)
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.ErrorMessage = userMessage(err)
		s.StatusMessage = ""
	})
}

// userMessage maps an operation failure to the text shown in the footer.
// Server detail is surfaced verbatim; transport failures collapse to a
// generic message.
func userMessage(err error) string {
	var rejection *api.RemoteRejection
	if errors.As(err, &rejection) {
		return rejection.UserMessage()
	}
	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}
	var conn *api.ConnectionError
	if errors.As(err, &conn) {
		return api.GenericConnectionMessage
	}
	return err.Error()
}

// handleKeyboard handles keyboard events. Returns true when the user
// requested exit.
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	state := o.stateManager.GetInteractionState()

	if state.ConfirmDialog != nil {
		o.handleDialogKey(event, state.ConfirmDialog)
		return false
	}
	if state.Form != nil {
		o.handleFormKey(event)
		return false
	}

	switch event.Type {
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q', 3: // 'q', 'Q', or Ctrl+C
			return true
		case 's':
			o.stopwatch.Toggle()
		case 'S':
			o.saveTimerEntry()
		case 'R':
			o.stopwatch.Reset()
			o.setStatus("stopwatch reset")
		case 'p':
			o.cycleStopwatchProject()
		case 'n':
			o.openNowMarkerPrompt()
		case 'a':
			o.openManualEntryForm()
		case 'd':
			o.deleteSelectedEntry()
		case 'H':
			o.nudgeSelectedEntry(-nudgeStep, -nudgeStep)
		case 'L':
			o.nudgeSelectedEntry(nudgeStep, nudgeStep)
		case 'J':
			o.nudgeSelectedEntry(0, nudgeStep)
		case 'K':
			o.nudgeSelectedEntry(0, -nudgeStep)
		case 'w':
			tp := util.GetTimeProvider()
			o.stateManager.SetWeekStart(tp.StartOfWeek(tp.Now(), o.config.WeekStart))
			o.selector.Clear()
		case 'r':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ForceRefresh = true
			})
			if err := o.refreshData(o.runCtx); err != nil {
				o.setError(err)
			} else {
				o.setStatus("refreshed")
			}
			// The refresh already happened, so the flag must not survive
			// into the next data tick while paused.
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ForceRefresh = false
			})
		case 'P':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.IsPaused = !s.IsPaused
			})
		case 'h':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = !s.ShowHelp
			})
		case 't', 'T':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.LayoutStyle = (s.LayoutStyle + 1) % 2
			})
		}

	case interaction.KeyEnter:
		o.toggleDetail()

	case interaction.KeyUp:
		o.selector.Prev()
	case interaction.KeyDown:
		o.selector.Next()
	case interaction.KeyLeft:
		o.stateManager.SetWeekStart(o.stateManager.WeekStart().AddDate(0, 0, -7))
		o.selector.Clear()
	case interaction.KeyRight:
		o.stateManager.SetWeekStart(o.stateManager.WeekStart().AddDate(0, 0, 7))
		o.selector.Clear()

	case interaction.KeyEscape:
		if state.ShowHelp {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = false
			})
		} else if state.DetailEventID != "" {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.DetailEventID = ""
			})
		} else if o.selector.Current() >= 0 {
			o.selector.Clear()
		} else {
			return true
		}
	}

	return false
}

func (o *Orchestrator) handleDialogKey(event interaction.KeyEvent, dialog *model.ConfirmDialog) {
	confirm := func() {
		if dialog.OnConfirm != nil {
			dialog.OnConfirm()
		}
		o.display.ClearScreen()
	}
	cancel := func() {
		if dialog.OnCancel != nil {
			dialog.OnCancel()
		}
		o.display.ClearScreen()
	}

	switch event.Type {
	case interaction.KeyChar:
		switch event.Key {
		case 'y', 'Y':
			confirm()
		case 'n', 'N':
			cancel()
		}
	case interaction.KeyEscape:
		cancel()
	}
}

func (o *Orchestrator) closeDialog() {
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.ConfirmDialog = nil
	})
}

func (o *Orchestrator) selectedEntry() (model.TimeEntry, bool) {
	visible := o.visibleEntries()
	idx := o.selector.Current()
	if idx < 0 || idx >= len(visible) {
		return model.TimeEntry{}, false
	}
	return visible[idx], true
}

func (o *Orchestrator) toggleDetail() {
	entry, ok := o.selectedEntry()
	if !ok {
		return
	}
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		if s.DetailEventID == entry.ID {
			s.DetailEventID = ""
		} else {
			s.DetailEventID = entry.ID
		}
	})
}

// saveTimerEntry submits the current stopwatch as a timer event. The
// stopwatch is only cleared after the server accepts it so a failed save
// can be retried without losing elapsed time.
func (o *Orchestrator) saveTimerEntry() {
	view := o.stopwatch.Snapshot()
	if err := o.stopwatch.ValidateSave(); err != nil {
		o.setError(err)
		return
	}
	if err := o.sync.SaveTimer(o.runCtx, view); err != nil {
		o.setError(err)
		return
	}
	o.stopwatch.FinishSave()
	o.stateManager.SetEntries(o.sync.Entries())
	o.setStatus("entry saved")
}

func (o *Orchestrator) cycleStopwatchProject() {
	projects := o.stateManager.GetProjects()
	if len(projects) == 0 {
		o.setStatus("no projects defined")
		return
	}
	o.projectCursor = (o.projectCursor + 1) % len(projects)
	o.stopwatch.SetProject(projects[o.projectCursor].Name)
}

// openNowMarkerPrompt mirrors clicking the current-time marker in a
// calendar UI: pick a project, then start a fresh timer.
func (o *Orchestrator) openNowMarkerPrompt() {
	if len(o.stateManager.GetProjects()) == 0 {
		o.setStatus("no projects defined")
		return
	}
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.Form = &model.EntryForm{
			Title:        "Start timer now",
			ProjectIndex: o.projectCursor,
			Field:        model.FieldProject,
			StartTimer:   true,
		}
	})
}

func (o *Orchestrator) openManualEntryForm() {
	if len(o.stateManager.GetProjects()) == 0 {
		o.setStatus("no projects defined")
		return
	}
	tp := util.GetTimeProvider()
	start := tp.Now().Truncate(time.Hour)
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.Form = &model.EntryForm{
			Title:        "Add entry",
			ProjectIndex: o.projectCursor,
			Start:        start,
			End:          start.Add(time.Hour),
			Field:        model.FieldProject,
		}
	})
}

func (o *Orchestrator) handleFormKey(event interaction.KeyEvent) {
	closeForm := func() {
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.Form = nil
		})
		o.display.ClearScreen()
	}

	projects := o.stateManager.GetProjects()

	switch event.Type {
	case interaction.KeyEscape:
		closeForm()

	case interaction.KeyEnter:
		state := o.stateManager.GetInteractionState()
		form := state.Form
		if form == nil {
			return
		}
		if form.ProjectIndex < 0 || form.ProjectIndex >= len(projects) {
			o.setError(model.NewValidationError("project", "a project is required"))
			return
		}
		project := projects[form.ProjectIndex].Name
		if form.StartTimer {
			o.stopwatch.StartFresh(project, form.Description)
			o.projectCursor = form.ProjectIndex
			closeForm()
			o.setStatus("timer started")
			return
		}
		draft := model.EventDraft{
			Project:     project,
			Description: form.Description,
			Start:       form.Start,
			End:         form.End,
		}
		if err := o.sync.CreateManual(o.runCtx, draft); err != nil {
			o.setError(err)
			return
		}
		o.stateManager.SetEntries(o.sync.Entries())
		closeForm()
		o.setStatus("entry added")

	case interaction.KeyUp, interaction.KeyDown:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			if s.Form == nil {
				return
			}
			last := model.FieldEnd
			if s.Form.StartTimer {
				last = model.FieldDescription
			}
			if event.Type == interaction.KeyDown && s.Form.Field < last {
				s.Form.Field++
			}
			if event.Type == interaction.KeyUp && s.Form.Field > model.FieldProject {
				s.Form.Field--
			}
		})

	case interaction.KeyLeft, interaction.KeyRight:
		step := nudgeStep
		delta := 1
		if event.Type == interaction.KeyLeft {
			step = -step
			delta = -1
		}
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			if s.Form == nil {
				return
			}
			switch s.Form.Field {
			case model.FieldProject:
				if len(projects) > 0 {
					s.Form.ProjectIndex = (s.Form.ProjectIndex + delta + len(projects)) % len(projects)
				}
			case model.FieldStart:
				s.Form.Start = s.Form.Start.Add(step)
			case model.FieldEnd:
				s.Form.End = s.Form.End.Add(step)
			}
		})

	case interaction.KeyBackspace:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			if s.Form == nil || s.Form.Field != model.FieldDescription {
				return
			}
			runes := []rune(s.Form.Description)
			if len(runes) > 0 {
				s.Form.Description = string(runes[:len(runes)-1])
			}
		})

	case interaction.KeyChar:
		if event.Key < 32 {
			return
		}
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			if s.Form == nil || s.Form.Field != model.FieldDescription {
				return
			}
			s.Form.Description += string(event.Key)
		})
	}
}

// nudgeSelectedEntry moves or resizes the selected entry and submits the
// change. The synchronizer applies it optimistically and rolls back if
// the server rejects it.
func (o *Orchestrator) nudgeSelectedEntry(startDelta, endDelta time.Duration) {
	entry, ok := o.selectedEntry()
	if !ok {
		return
	}
	newStart := entry.Start.Add(startDelta)
	newEnd := entry.End.Add(endDelta)
	if err := o.sync.UpdateDates(o.runCtx, entry.ID, newStart, newEnd); err != nil {
		o.setError(err)
	}
	o.stateManager.SetEntries(o.sync.Entries())
}

func (o *Orchestrator) deleteSelectedEntry() {
	entry, ok := o.selectedEntry()
	if !ok {
		return
	}
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.ConfirmDialog = &model.ConfirmDialog{
			Title: "Delete entry",
			Message: fmt.Sprintf("Delete %q (%s)? This cannot be undone.",
				entry.Project, util.FormatClock(int64(entry.Duration().Seconds()))),
			OnConfirm: func() {
				if err := o.sync.Delete(o.runCtx, entry.ID); err != nil {
					o.setError(err)
				} else {
					o.setStatus("entry deleted")
					// Drop the detail pane if it was showing this entry,
					// otherwise the next Escape closes a view of nothing.
					o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
						if s.DetailEventID == entry.ID {
							s.DetailEventID = ""
						}
					})
				}
				o.stateManager.SetEntries(o.sync.Entries())
				o.closeDialog()
			},
			OnCancel: func() {
				o.closeDialog()
			},
		}
	})
}

// Close cleans up all resources.
func (o *Orchestrator) Close() error {
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close config watcher: %w", err)
		}
	}
	return nil
}
