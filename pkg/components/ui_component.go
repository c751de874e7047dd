package components

// UIState represents the current state of a UI element (e.g., button).
type UIState int

const (
	// UINormal indicates the UI element is in its default state.
	UINormal UIState = iota
	// UIHovered indicates the mouse cursor is hovering over the UI element.
	UIHovered
	// UIClicked indicates the UI element is being clicked.
	UIClicked
)

// String returns a readable state name for logs.
func (s UIState) String() string {
	switch s {
	case UINormal:
		return "Normal"
	case UIHovered:
		return "Hovered"
	case UIClicked:
		return "Clicked"
	default:
		return "Unknown"
	}
}
