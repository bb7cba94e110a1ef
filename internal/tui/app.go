package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nikbrunner/vidlib/internal/catalog"
	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/session"
	"github.com/nikbrunner/vidlib/internal/tui/layout"
)

// MessageType controls how the message line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// loadedMsg carries the result of an asynchronous category load.
type loadedMsg struct {
	token  catalog.LoadToken
	videos []model.Video
	err    error
}

// mutatedMsg carries the result of a store mutation.
type mutatedMsg struct {
	verb  string
	video model.Video
	err   error
}

// App is the main bubbletea model for the video catalog.
type App struct {
	ctx     context.Context
	view    *catalog.View
	store   *catalog.Store
	session session.Context
	logger  *zap.Logger

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	copyText     func(string) error

	categories  []string
	categoryIdx int
	loading     bool

	mode        Mode
	cursor      int
	lastKeyWasG bool
	form        FormState
	searchInput textinput.Model
	deleteID    string

	messageText string
	messageType MessageType

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context      context.Context // optional, defaults to context.Background
	View         *catalog.View
	Categories   []string // optional, defaults to model.KnownCategories
	Category     string   // initial category; defaults to the first one
	Session      session.Context
	Logger       *zap.Logger          // optional
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, derived from the session theme if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Clipboard    func(string) error   // optional, defaults to the system clipboard
}

// NewApp creates a new App with the given parameters.
// The first category load starts from Init.
func NewApp(params AppParams) App {
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := ThemeStyles(params.Session.Theme)
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	copyText := params.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	categories := params.Categories
	if len(categories) == 0 {
		categories = model.KnownCategories
	}
	categories = slices.Clone(categories)

	categoryIdx := 0
	if params.Category != "" {
		categoryIdx = slices.Index(categories, params.Category)
		if categoryIdx < 0 {
			categories = append(categories, params.Category)
			categoryIdx = len(categories) - 1
		}
	}

	return App{
		ctx:          ctx,
		view:         params.View,
		store:        params.View.Store(),
		session:      params.Session,
		logger:       logger,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		copyText:     copyText,
		categories:   categories,
		categoryIdx:  categoryIdx,
		loading:      true,
		form:         NewFormState(layoutCfg),
		searchInput:  NewSearchInput(layoutCfg),
		width:        80,
		height:       24,
	}
}

// WithDimensions returns a copy of the App sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Category returns the category being browsed.
func (a App) Category() string {
	return a.categories[a.categoryIdx]
}

// Loading reports whether a category load is outstanding.
func (a App) Loading() bool {
	return a.loading
}

// Message returns the current message line text.
func (a App) Message() string {
	return a.messageText
}

// Items returns the projected videos shown in the list.
func (a App) Items() []model.Video {
	return a.view.Items()
}

// Selected returns the video under the cursor.
func (a App) Selected() (model.Video, bool) {
	items := a.view.Items()
	if a.cursor < 0 || a.cursor >= len(items) {
		return model.Video{}, false
	}
	return items[a.cursor], true
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.loadCategory(a.Category())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case loadedMsg:
		return a.handleLoaded(msg)

	case mutatedMsg:
		return a.handleMutated(msg)

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.handleSearchKey(msg)
		case ModeAdd, ModeEdit:
			return a.handleFormKey(msg)
		case ModeConfirmDelete:
			return a.handleConfirmDeleteKey(msg)
		case ModeHelp:
			return a.handleHelpKey(msg)
		default:
			return a.handleNormalKey(msg)
		}
	}

	// Forward cursor blink and other input messages to the focused input
	switch a.mode {
	case ModeSearch:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	case ModeAdd, ModeEdit:
		return a, a.form.UpdateFocused(msg)
	}
	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

// loadCategory supersedes any outstanding load and fetches category in the background.
func (a App) loadCategory(category string) tea.Cmd {
	store, ctx := a.store, a.ctx
	token := store.BeginLoad(category)
	return func() tea.Msg {
		videos, err := store.Fetch(ctx, category)
		return loadedMsg{token: token, videos: videos, err: err}
	}
}

// runMutation runs fn in the background and reports the outcome as a mutatedMsg.
func (a App) runMutation(verb string, fn func(ctx context.Context) (model.Video, error)) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		video, err := fn(ctx)
		return mutatedMsg{verb: verb, video: video, err: err}
	}
}

func (a App) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if !a.store.FinishLoad(msg.token, msg.videos, msg.err) {
		return a, nil
	}

	a.loading = false
	a.cursor = 0
	if err := a.store.Err(); err != nil {
		a.setMessage(MessageError, err.Error())
	}
	return a, nil
}

func (a App) handleMutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if catalog.IsUserError(msg.err) {
			a.logger.Debug("Mutation rejected", zap.String("verb", msg.verb), zap.Error(msg.err))
		} else {
			a.logger.Error("Mutation failed", zap.String("verb", msg.verb), zap.Error(msg.err))
		}
		if errors.Is(msg.err, model.ErrBusy) {
			a.setMessage(MessageWarning, msg.err.Error())
		} else {
			a.setMessage(MessageError, msg.err.Error())
		}
		a.clampCursor()
		return a, nil
	}

	a.setMessage(MessageSuccess, fmt.Sprintf("%s %q", msg.verb, msg.video.Title))

	// Follow the record that changed when it is still projected
	if i := slices.IndexFunc(a.view.Items(), func(v model.Video) bool { return v.ID == msg.video.ID }); i >= 0 {
		a.cursor = i
	}
	a.clampCursor()
	return a, nil
}

func (a App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	items := a.view.Items()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(items) > 0 {
			a.cursor = len(items) - 1
		}

	case key.Matches(msg, a.keys.NextCategory):
		return a.switchCategory(1)

	case key.Matches(msg, a.keys.PrevCategory):
		return a.switchCategory(-1)

	case key.Matches(msg, a.keys.Reload):
		a.loading = true
		return a, a.loadCategory(a.Category())

	case key.Matches(msg, a.keys.Sort):
		next := a.view.Query().Sort.Next()
		a.view.SetSortKey(next)
		a.setMessage(MessageInfo, "Sort: "+next.Label())

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.searchInput.SetValue(a.view.Query().Term)
		a.searchInput.CursorEnd()
		return a, a.searchInput.Focus()

	case key.Matches(msg, a.keys.ClearSearch):
		if a.view.Query().Term != "" {
			a.view.SetSearchTerm("")
			a.cursor = 0
		}

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.Add):
		a.form.Reset()
		a.mode = ModeAdd
		return a, a.form.FocusField(fieldTitle)

	case key.Matches(msg, a.keys.Edit):
		if v, ok := a.Selected(); ok {
			a.form.Fill(v)
			a.mode = ModeEdit
			return a, a.form.FocusField(fieldTitle)
		}

	case key.Matches(msg, a.keys.Delete):
		if v, ok := a.Selected(); ok {
			a.deleteID = v.ID
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Feature):
		if v, ok := a.Selected(); ok {
			verb := "Featured"
			if v.Featured {
				verb = "Unfeatured"
			}
			id := v.ID
			return a, a.runMutation(verb, func(ctx context.Context) (model.Video, error) {
				return a.store.ToggleFeatured(ctx, id)
			})
		}

	case key.Matches(msg, a.keys.Visible):
		if v, ok := a.Selected(); ok {
			verb := "Hid"
			if !v.Visible {
				verb = "Showed"
			}
			id := v.ID
			return a, a.runMutation(verb, func(ctx context.Context) (model.Video, error) {
				return a.store.ToggleVisible(ctx, id)
			})
		}

	case key.Matches(msg, a.keys.YankThumb):
		a.yankThumbnail()
	}

	return a, nil
}

func (a App) switchCategory(delta int) (tea.Model, tea.Cmd) {
	n := len(a.categories)
	a.categoryIdx = (a.categoryIdx + delta + n) % n
	a.cursor = 0
	a.loading = true
	a.messageText = ""
	return a, a.loadCategory(a.Category())
}

func (a *App) yankThumbnail() {
	v, ok := a.Selected()
	if !ok {
		return
	}
	if v.ThumbnailURL == "" {
		a.setMessage(MessageWarning, "No thumbnail URL")
		return
	}
	if err := a.copyText(v.ThumbnailURL); err != nil {
		a.setMessage(MessageError, "Copy failed: "+err.Error())
		return
	}
	a.setMessage(MessageSuccess, "Copied thumbnail URL")
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.searchInput.Blur()
		a.searchInput.Reset()
		a.view.SetSearchTerm("")
		a.mode = ModeNormal
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		a.searchInput.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if term := a.searchInput.Value(); term != a.view.Query().Term {
		a.view.SetSearchTerm(term)
		a.cursor = 0
	}
	return a, cmd
}

func (a App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.form.Reset()
		a.mode = ModeNormal
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		return a.submitForm()

	case key.Matches(msg, a.keys.NextField):
		return a, a.form.FocusField(a.form.Focus + 1)

	case key.Matches(msg, a.keys.PrevField):
		return a, a.form.FocusField(a.form.Focus - 1)

	case key.Matches(msg, a.keys.Toggle):
		if a.form.ToggleFocused() {
			return a, nil
		}
	}

	return a, a.form.UpdateFocused(msg)
}

// submitForm validates locally so common mistakes keep the form open,
// then hands the change to the store.
func (a App) submitForm() (tea.Model, tea.Cmd) {
	in, err := a.form.Input()
	if err == nil {
		err = model.NewVideo(a.Category(), in).Validate()
	}
	if err != nil {
		a.setMessage(MessageError, err.Error())
		return a, nil
	}

	var cmd tea.Cmd
	if a.mode == ModeAdd {
		cmd = a.runMutation("Added", func(ctx context.Context) (model.Video, error) {
			return a.store.Add(ctx, in)
		})
	} else {
		patch, _ := a.form.Patch()
		id := a.form.EditID
		cmd = a.runMutation("Saved", func(ctx context.Context) (model.Video, error) {
			return a.store.Edit(ctx, id, patch)
		})
	}

	a.form.Reset()
	a.mode = ModeNormal
	return a, cmd
}

func (a App) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		v, ok := a.store.Get(a.deleteID)
		if !ok {
			v = model.Video{ID: a.deleteID}
		}
		a.mode = ModeNormal
		a.deleteID = ""
		return a, a.runMutation("Deleted", func(ctx context.Context) (model.Video, error) {
			return v, a.store.Remove(ctx, v.ID)
		})

	case "n", "N", "esc", "q":
		a.mode = ModeNormal
		a.deleteID = ""
	}
	return a, nil
}

func (a App) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "q", "esc":
		a.mode = ModeNormal
	}
	return a, nil
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) clampCursor() {
	n := len(a.view.Items())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}
