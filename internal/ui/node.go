package ui

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Node is a single UI element: a panel or label with optional class and id for CSS
// matching, and bounds.
type Node struct {
	Type   string // "panel", "label", etc.
	Class  string // e.g. "hierarchy" for .hierarchy
	ID     string // e.g. "main" for #main
	Bounds Rect
	Text   string
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}
