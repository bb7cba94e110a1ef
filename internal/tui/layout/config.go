package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds the list/detail split configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (2) + query line (1) + pane borders (2) + message (1) + help bar (2) = 9
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// ListWidthPercent is the share of the width given to the video list.
	ListWidthPercent int

	// MinListWidth is the narrowest usable list pane.
	MinListWidth int

	// MinDetailWidth hides the detail pane when it would be narrower.
	MinDetailWidth int

	// SplitOffset is subtracted from the terminal width before splitting.
	// Accounts for app padding and the borders of both panes.
	SplitOffset int

	// ContentPadding is subtracted from pane width for row rendering.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit  int
	URLCharLimit    int
	LengthCharLimit int
	PriceCharLimit  int
	SearchCharLimit int

	// StandardWidth is the display width of form inputs.
	StandardWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  9,
			MinHeight:        5,
			ListWidthPercent: 60,
			MinListWidth:     30,
			MinDetailWidth:   24,
			SplitOffset:      8,
			ContentPadding:   4,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     44,
			MaxWidth:     72,
		},
		Input: InputConfig{
			TitleCharLimit:  120,
			URLCharLimit:    500,
			LengthCharLimit: 8,
			PriceCharLimit:  10,
			SearchCharLimit: 100,
			StandardWidth:   40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
