package gesture

// Minimum travel, in pixels, before a touch counts as a gesture.
const (
	SwipeThreshold = 50
	PullThreshold  = 100
)

// Action is what the storefront does in response to a touch.
type Action string

const (
	None      Action = "none"
	NextImage Action = "next-image"
	PrevImage Action = "prev-image"
	Refresh   Action = "refresh"
)

// Swipe classifies a horizontal touch on a product image. Moving left
// (start > end) shows the next image.
func Swipe(startX, endX float64) Action {
	diff := startX - endX
	switch {
	case diff > SwipeThreshold:
		return NextImage
	case diff < -SwipeThreshold:
		return PrevImage
	default:
		return None
	}
}

// Pull classifies a vertical drag. It only refreshes when the page is
// scrolled to the top.
func Pull(scrollY, startY, endY float64) Action {
	if scrollY == 0 && endY-startY > PullThreshold {
		return Refresh
	}
	return None
}
