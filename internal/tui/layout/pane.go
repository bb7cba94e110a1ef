package layout

// Split holds the list and detail pane widths.
type Split struct {
	ListWidth   int
	DetailWidth int // 0 when the detail pane is hidden
}

// ShowDetail reports whether the detail pane fits.
func (s Split) ShowDetail() bool {
	return s.DetailWidth > 0
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	return max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
}

// CalculateSplit divides the terminal width between list and detail panes.
// Narrow terminals drop the detail pane and give the list everything.
func CalculateSplit(terminalWidth int, cfg PaneConfig) Split {
	usable := terminalWidth - cfg.SplitOffset
	list := usable * cfg.ListWidthPercent / 100
	detail := usable - list

	if list < cfg.MinListWidth {
		list = cfg.MinListWidth
		detail = usable - list
	}
	if detail < cfg.MinDetailWidth {
		// Single pane: only one set of borders to pay for
		return Split{ListWidth: max(terminalWidth-cfg.SplitOffset/2, cfg.MinListWidth)}
	}

	return Split{ListWidth: list, DetailWidth: detail}
}

// CalculateItemWidth computes the width available for row content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return max(paneWidth-cfg.ContentPadding, 1)
}

// CalculateVisibleHeight computes the visible row count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	return max(paneHeight-headerLines, 1)
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, clamped to the valid range
	offset := max(selected-viewportHeight/2, 0)
	return min(offset, total-viewportHeight)
}
