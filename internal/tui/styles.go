package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/vidlib/internal/storage"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Header       lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	QueryLine    lipgloss.Style
	Pane         lipgloss.Style
	PaneActive   lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemHidden   lipgloss.Style // soft-hidden videos render dimmed
	FeaturedMark lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Action       lipgloss.Style
	Empty        lipgloss.Style
	Message      lipgloss.Style
	Error        lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
}

type palette struct {
	primary lipgloss.Color // main text
	subtle  lipgloss.Color // secondary text
	dim     lipgloss.Color // hidden videos
	accent  lipgloss.Color // selection and titles
	star    lipgloss.Color // featured marker
	border  lipgloss.Color // inactive borders
	danger  lipgloss.Color // errors
	onFill  lipgloss.Color // text on accent background
}

var (
	darkPalette = palette{
		primary: "#C8C8C8",
		subtle:  "#7A7A7A",
		dim:     "#4E4E4E",
		accent:  "#5F8787",
		star:    "#D7AF5F",
		border:  "#505050",
		danger:  "#D75F5F",
		onFill:  "#1A1A1A",
	}
	lightPalette = palette{
		primary: "#303030",
		subtle:  "#707070",
		dim:     "#B0B0B0",
		accent:  "#4A7070",
		star:    "#AF8700",
		border:  "#A0A0A0",
		danger:  "#AF0000",
		onFill:  "#FFFFFF",
	}
)

// ThemeStyles returns the styles for theme. Unknown themes fall back to dark.
func ThemeStyles(theme string) Styles {
	p := darkPalette
	if theme == storage.ThemeLight {
		p = lightPalette
	}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent),

		Tab: lipgloss.NewStyle().
			Foreground(p.subtle).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(p.onFill).
			Background(p.accent).
			Padding(0, 1),

		QueryLine: lipgloss.NewStyle().
			Foreground(p.subtle),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),

		Item: lipgloss.NewStyle().
			Foreground(p.primary),

		ItemSelected: lipgloss.NewStyle().
			Background(p.accent).
			Foreground(p.onFill),

		ItemHidden: lipgloss.NewStyle().
			Foreground(p.dim).
			Italic(true),

		FeaturedMark: lipgloss.NewStyle().
			Foreground(p.star),

		Label: lipgloss.NewStyle().
			Foreground(p.subtle),

		Value: lipgloss.NewStyle().
			Foreground(p.primary),

		Action: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.onFill).
			Background(p.accent).
			Padding(0, 1),

		Empty: lipgloss.NewStyle().
			Foreground(p.subtle),

		Message: lipgloss.NewStyle().
			Foreground(p.accent),

		Error: lipgloss.NewStyle().
			Foreground(p.danger),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),

		ModalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			MarginBottom(1),

		HintKey: lipgloss.NewStyle().
			Foreground(p.primary),

		HintDesc: lipgloss.NewStyle().
			Foreground(p.subtle),
	}
}
