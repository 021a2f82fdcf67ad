package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/bracket-wrap/pkg/navigation"
)

// Element IDs used for hit testing.
const (
	elemRoot     = "root"
	elemProgress = "progress"
	elemSlide    = "slide"
	elemShare    = "share"
	elemHelp     = "help"
)

const shareLabel = "[ s  share ]"

// screen rows: progress bar, a spacer, the slide, the share row, the help bar
const (
	progressRow  = 0
	slideTop     = 2
	chromeHeight = 4
)

func slideHeight(height int) int {
	return max(height-chromeHeight, 1)
}

func shareRow(height int) int {
	return height - 2
}

func shareButtonX(width int) int {
	return max((width-lipgloss.Width(shareLabel))/2, 0)
}

// buildLayout mirrors what View draws so mouse events can be hit tested.
func buildLayout(width, height int, share bool) *navigation.Element {
	root := &navigation.Element{
		ID:     elemRoot,
		Kind:   navigation.KindBox,
		Bounds: navigation.Rect{W: width, H: height},
	}
	root.Add(&navigation.Element{
		ID:     elemProgress,
		Kind:   navigation.KindBox,
		Bounds: navigation.Rect{Y: progressRow, W: width, H: 1},
	})
	slide := root.Add(&navigation.Element{
		ID:     elemSlide,
		Kind:   navigation.KindBox,
		Bounds: navigation.Rect{Y: slideTop, W: width, H: slideHeight(height)},
	})
	slide.Add(&navigation.Element{
		ID:     elemSlide + "-text",
		Kind:   navigation.KindText,
		Bounds: slide.Bounds,
	})
	if share {
		root.Add(&navigation.Element{
			ID:     elemShare,
			Kind:   navigation.KindButton,
			Bounds: navigation.Rect{X: shareButtonX(width), Y: shareRow(height), W: lipgloss.Width(shareLabel), H: 1},
		})
	}
	root.Add(&navigation.Element{
		ID:     elemHelp,
		Kind:   navigation.KindText,
		Role:   "toolbar",
		Bounds: navigation.Rect{Y: height - 1, W: width, H: 1},
	})
	return root
}
