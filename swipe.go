package main

// Intent is the classified outcome of a drag gesture.
type Intent string

const (
	IntentNone    Intent = "none"
	IntentLike    Intent = "like"
	IntentPass    Intent = "pass"
	IntentDetails Intent = "details"
)

// Drag thresholds in pixels, matching the frontend card component.
const (
	swipeThreshold = 80  // horizontal, like/pass
	upThreshold    = 100 // vertical, details
)

// ClassifyGesture maps the final offset of a released drag to an intent.
// The vertical check wins over horizontal, right over left. Anything under
// the thresholds is a no-op and the card animates back to rest.
func ClassifyGesture(dx, dy float64) Intent {
	switch {
	case dy < -upThreshold:
		return IntentDetails
	case dx > swipeThreshold:
		return IntentLike
	case dx < -swipeThreshold:
		return IntentPass
	default:
		return IntentNone
	}
}

// PreviewIntent classifies an in-flight drag at half the release
// thresholds. Purely cosmetic, used for the card overlay hint.
func PreviewIntent(dx, dy float64) Intent {
	switch {
	case dy < -upThreshold/2:
		return IntentDetails
	case dx > swipeThreshold/2:
		return IntentLike
	case dx < -swipeThreshold/2:
		return IntentPass
	default:
		return IntentNone
	}
}
