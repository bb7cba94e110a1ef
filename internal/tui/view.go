package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/tui/layout"
)

func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeAdd, ModeEdit, ModeConfirmDelete:
		return a.renderModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	split := layout.CalculateSplit(a.width, a.layoutConfig.Pane)

	columns := a.renderListPane(split.ListWidth, paneHeight)
	if split.ShowDetail() {
		columns = lipgloss.JoinHorizontal(
			lipgloss.Top,
			columns,
			a.renderDetailPane(split.DetailWidth, paneHeight),
		)
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderHeader(),
			a.renderQueryLine(),
			columns,
			a.renderHelpBar(),
		),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the library title and the category tabs.
func (a App) renderHeader() string {
	title := a.styles.Header.Render(model.CategoryTitle(a.Category()) + " Video Library")

	tabs := make([]string, len(a.categories))
	for i, c := range a.categories {
		if i == a.categoryIdx {
			tabs[i] = a.styles.TabActive.Render(c)
		} else {
			tabs[i] = a.styles.Tab.Render(c)
		}
	}

	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderQueryLine shows the sort key, the search term and the counts.
func (a App) renderQueryLine() string {
	q := a.view.Query()

	var line strings.Builder
	line.WriteString("Sort: " + q.Sort.Label())

	if a.mode == ModeSearch {
		line.WriteString("  " + a.searchInput.View())
	} else if q.Term != "" {
		line.WriteString("  Search: " + q.Term)
	}

	shown, total := len(a.view.Items()), len(a.store.Snapshot())
	if shown != total {
		line.WriteString(fmt.Sprintf("  (%d of %d)", shown, total))
	} else {
		line.WriteString(fmt.Sprintf("  (%d)", total))
	}

	return a.styles.QueryLine.Render(line.String())
}

func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	visibleHeight := layout.CalculateVisibleHeight(height, 0)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	items := a.view.Items()

	switch {
	case a.loading:
		content.WriteString(a.styles.Empty.Render("Loading..."))
	case len(items) == 0 && a.view.Query().Term != "":
		content.WriteString(a.styles.Empty.Render("(no matches)"))
	case len(items) == 0:
		content.WriteString(a.styles.Empty.Render("(no videos)"))
	default:
		offset := layout.CalculateViewportOffset(a.cursor, len(items), visibleHeight)
		for i := offset; i < len(items) && i < offset+visibleHeight; i++ {
			content.WriteString(a.renderRow(items[i], i == a.cursor, itemWidth) + "\n")
		}
	}

	return a.styles.PaneActive.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderRow renders one video as "★ Title ... 45:00  $19.99".
func (a App) renderRow(v model.Video, isCursor bool, maxWidth int) string {
	mark := "  "
	if v.Featured {
		mark = "★ "
	}

	right := v.Length
	if right != "" {
		right += "  "
	}
	right += formatPrice(v.Price)

	line := mark + layout.SpreadColumns(v.Title, right, max(maxWidth-2, 1), a.layoutConfig.Text)

	switch {
	case isCursor:
		return a.styles.ItemSelected.Render(line)
	case !v.Visible:
		return a.styles.ItemHidden.Render(line)
	case v.Featured:
		return a.styles.FeaturedMark.Render(mark) + a.styles.Item.Render(strings.TrimPrefix(line, mark))
	default:
		return a.styles.Item.Render(line)
	}
}

func (a App) renderDetailPane(width, height int) string {
	var content strings.Builder

	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if v, ok := a.Selected(); ok {
		title, _ := layout.TruncateText(v.Title, itemWidth, a.layoutConfig.Text)
		content.WriteString(a.styles.Header.Render(title) + "\n\n")

		thumb := "(placeholder)"
		if v.ThumbnailURL != "" {
			thumb = v.ThumbnailURL
		}
		content.WriteString(a.renderField("Thumbnail", thumb, itemWidth))

		length := v.Length
		if length == "" {
			length = "-"
		}
		content.WriteString(a.renderField("Length", length, itemWidth))
		content.WriteString(a.renderField("Price", formatPrice(v.Price), itemWidth))
		content.WriteString(a.renderField("Featured", yesNo(v.Featured), itemWidth))
		content.WriteString(a.renderField("Visible", yesNo(v.Visible), itemWidth))
		content.WriteString(a.renderField("Added", v.CreatedAt.Format("2006-01-02"), itemWidth))
		content.WriteString("\n" + a.styles.Action.Render(a.session.ActionLabel()))
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderField renders "Label: value" truncated to maxWidth.
func (a App) renderField(label, value string, maxWidth int) string {
	label += ": "
	value, _ = layout.TruncateText(value, max(maxWidth-len(label), 1), a.layoutConfig.Text)
	return a.styles.Label.Render(label) + a.styles.Value.Render(value) + "\n"
}

func (a App) renderModal() string {
	var title, content strings.Builder

	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)
	modalStyle := a.styles.Modal.Width(modalWidth)

	switch a.mode {
	case ModeAdd, ModeEdit:
		if a.mode == ModeAdd {
			title.WriteString("Add Video to " + model.CategoryTitle(a.Category()))
		} else {
			title.WriteString("Edit Video")
		}

		labels := [textFieldCount]string{
			fieldTitle:     "Title:",
			fieldThumbnail: "Thumbnail URL:",
			fieldLength:    "Length:",
			fieldPrice:     "Price:",
		}
		for i, input := range a.form.Inputs {
			content.WriteString(labels[i] + "\n")
			content.WriteString(input.View() + "\n\n")
		}
		content.WriteString(a.renderCheckbox("Featured", a.form.Featured, a.form.Focus == fieldFeatured) + "\n")
		content.WriteString(a.renderCheckbox("Visible", a.form.Visible, a.form.Focus == fieldVisible) + "\n")

		if a.messageType == MessageError && a.messageText != "" {
			content.WriteString("\n" + a.renderMessageLine() + "\n")
		}

	case ModeConfirmDelete:
		title.WriteString("Delete Video")
		name := a.deleteID
		if v, ok := a.store.Get(a.deleteID); ok {
			name = v.Title
		}
		content.WriteString(fmt.Sprintf("Delete %q?\n", name))
	}

	content.WriteString("\n" + a.renderHintsInline(a.getContextualHints().All()))

	modal := modalStyle.Render(a.styles.ModalTitle.Render(title.String()) + "\n" + content.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a App) renderCheckbox(label string, checked, focused bool) string {
	box := "[ ] "
	if checked {
		box = "[x] "
	}
	if focused {
		return a.styles.ItemSelected.Render(box + label)
	}
	return a.styles.Item.Render(box + label)
}

func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	// Left column: navigation and query
	var left strings.Builder
	left.WriteString(a.styles.Header.Render("nav") + "\n")
	left.WriteString("j/k     move\n")
	left.WriteString("gg      top\n")
	left.WriteString("G       bottom\n")
	left.WriteString("tab/]   next category\n")
	left.WriteString("S-tab/[ prev category\n")
	left.WriteString("r       reload\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Header.Render("query") + "\n")
	left.WriteString("/       search titles\n")
	left.WriteString("Esc     clear search\n")
	left.WriteString("o       cycle sort\n")

	// Right column: editing
	var right strings.Builder
	right.WriteString(a.styles.Header.Render("edit") + "\n")
	right.WriteString("a       add video\n")
	right.WriteString("e       edit video\n")
	right.WriteString("*/f     toggle featured\n")
	right.WriteString("v       toggle visible\n")
	right.WriteString("d       delete\n")
	right.WriteString("Y       yank thumbnail url\n")
	right.WriteString("\n")
	right.WriteString(a.styles.HintDesc.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(28).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(28).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}

func (a App) renderHelpBar() string {
	var lines []string

	// Message replaces the gap line
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	if hints := a.renderHints(a.getContextualHints()); hints != "" {
		lines = append(lines, hints)
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the message with a prefix icon based on type.
func (a App) renderMessageLine() string {
	var prefix string
	msgStyle := a.styles.Message.Bold(true)

	switch a.messageType {
	case MessageError:
		msgStyle = a.styles.Error.Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = msgStyle.Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"})
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = msgStyle.Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"})
		prefix = "✓ "
	}

	return msgStyle.Render(prefix + a.messageText)
}

func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
