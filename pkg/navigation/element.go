package navigation

// Kind is the kind of a screen element.
type Kind int

const (
	KindBox Kind = iota
	KindText
	KindButton
	KindLink
	KindInput
)

// Rect is a screen rectangle in cells. X and Y are the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Element is a node in the on-screen layout. Clicks landing on an element
// that is interactive, or on any descendant of one, are left to the element.
type Element struct {
	ID       string
	Kind     Kind
	Role     string
	Bounds   Rect
	Parent   *Element
	Children []*Element

	// NoNavigate opts an element and its subtree out of click navigation.
	NoNavigate bool
}

// Add appends child to e and returns the child.
func (e *Element) Add(child *Element) *Element {
	child.Parent = e
	e.Children = append(e.Children, child)
	return child
}

// Interactive reports whether e itself handles clicks.
func (e *Element) Interactive() bool {
	switch e.Kind {
	case KindButton, KindLink, KindInput:
		return true
	}
	return e.Role != "" || e.NoNavigate
}

// IsInteractive walks from e up through its ancestors and reports whether
// any of them is interactive. A nil element is not interactive.
func IsInteractive(e *Element) bool {
	for ; e != nil; e = e.Parent {
		if e.Interactive() {
			return true
		}
	}
	return false
}

// HitTest returns the innermost element under the point, or nil when the
// point is outside root. Later children are drawn on top of earlier ones.
func HitTest(root *Element, x, y int) *Element {
	if root == nil || !root.Bounds.Contains(x, y) {
		return nil
	}
	for i := len(root.Children) - 1; i >= 0; i-- {
		if hit := HitTest(root.Children[i], x, y); hit != nil {
			return hit
		}
	}
	return root
}
