package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/tui/layout"
)

// Mode is the current interaction mode of the App.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeAdd
	ModeEdit
	ModeConfirmDelete
	ModeHelp
)

// Form field indexes. Text inputs come first, then the two toggles.
const (
	fieldTitle = iota
	fieldThumbnail
	fieldLength
	fieldPrice
	fieldFeatured
	fieldVisible
	fieldCount
)

const textFieldCount = fieldPrice + 1

// FormState holds the add/edit video form.
type FormState struct {
	Inputs   [textFieldCount]textinput.Model
	Featured bool
	Visible  bool
	Focus    int
	EditID   string // empty when adding
}

// NewFormState creates a FormState with initialized inputs.
func NewFormState(cfg layout.LayoutConfig) FormState {
	newInput := func(placeholder string, limit int) textinput.Model {
		input := textinput.New()
		input.Placeholder = placeholder
		input.CharLimit = limit
		input.Width = cfg.Input.StandardWidth
		return input
	}

	return FormState{
		Inputs: [textFieldCount]textinput.Model{
			fieldTitle:     newInput("Title", cfg.Input.TitleCharLimit),
			fieldThumbnail: newInput("https://... (empty = placeholder)", cfg.Input.URLCharLimit),
			fieldLength:    newInput("45:00", cfg.Input.LengthCharLimit),
			fieldPrice:     newInput("0.00", cfg.Input.PriceCharLimit),
		},
		Visible: true,
	}
}

// Reset clears the form for adding a new video.
func (f *FormState) Reset() {
	for i := range f.Inputs {
		f.Inputs[i].Reset()
		f.Inputs[i].Blur()
	}
	f.Featured = false
	f.Visible = true
	f.Focus = fieldTitle
	f.EditID = ""
}

// Fill loads v into the form for editing.
func (f *FormState) Fill(v model.Video) {
	f.Reset()
	f.EditID = v.ID
	f.Inputs[fieldTitle].SetValue(v.Title)
	f.Inputs[fieldThumbnail].SetValue(v.ThumbnailURL)
	f.Inputs[fieldLength].SetValue(v.Length)
	f.Inputs[fieldPrice].SetValue(strconv.FormatFloat(v.Price, 'f', 2, 64))
	f.Featured = v.Featured
	f.Visible = v.Visible
}

// FocusField moves focus to field i, wrapping around.
func (f *FormState) FocusField(i int) tea.Cmd {
	f.Focus = (i + fieldCount) % fieldCount
	for j := range f.Inputs {
		f.Inputs[j].Blur()
	}
	if f.Focus < textFieldCount {
		return f.Inputs[f.Focus].Focus()
	}
	return nil
}

// ToggleFocused flips the focused checkbox. Returns false on text fields.
func (f *FormState) ToggleFocused() bool {
	switch f.Focus {
	case fieldFeatured:
		f.Featured = !f.Featured
	case fieldVisible:
		f.Visible = !f.Visible
	default:
		return false
	}
	return true
}

// UpdateFocused forwards msg to the focused text input.
func (f *FormState) UpdateFocused(msg tea.Msg) tea.Cmd {
	if f.Focus >= textFieldCount {
		return nil
	}
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return cmd
}

// Input reads the form into a VideoInput. An unparsable price is a validation error.
func (f *FormState) Input() (model.VideoInput, error) {
	price, err := parsePrice(f.Inputs[fieldPrice].Value())
	if err != nil {
		return model.VideoInput{}, err
	}
	return model.VideoInput{
		Title:        strings.TrimSpace(f.Inputs[fieldTitle].Value()),
		ThumbnailURL: strings.TrimSpace(f.Inputs[fieldThumbnail].Value()),
		Length:       strings.TrimSpace(f.Inputs[fieldLength].Value()),
		Price:        price,
		Featured:     f.Featured,
		Visible:      f.Visible,
	}, nil
}

// Patch reads the form into a full VideoPatch for Edit.
func (f *FormState) Patch() (model.VideoPatch, error) {
	in, err := f.Input()
	if err != nil {
		return model.VideoPatch{}, err
	}
	return model.VideoPatch{
		Title:        &in.Title,
		ThumbnailURL: &in.ThumbnailURL,
		Length:       &in.Length,
		Price:        &in.Price,
		Featured:     &in.Featured,
		Visible:      &in.Visible,
	}, nil
}

// parsePrice accepts "19.99", "$19.99" or empty (zero).
func parsePrice(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "price", Reason: "must be a number"}
	}
	return price, nil
}

// NewSearchInput creates the search input shown in ModeSearch.
func NewSearchInput(cfg layout.LayoutConfig) textinput.Model {
	input := textinput.New()
	input.Placeholder = "Search titles..."
	input.Prompt = "/"
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return input
}
