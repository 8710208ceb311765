package state

// Picker tracks the highlighted row of the connection picker and the first
// row shown when the list is taller than the overlay.
type Picker struct {
	Selected       int
	ViewportOffset int
}

// Move shifts the selection by delta over a list of n entries, wrapping at
// both ends. With n == 0 nothing changes. It reports whether the selection
// moved.
func (p *Picker) Move(delta, n int) bool {
	if n <= 0 {
		return false
	}
	old := p.Selected
	p.Selected = ((p.Selected+delta)%n + n) % n
	return p.Selected != old
}

// Clamp keeps the selection inside a list that now has n entries. An empty
// list resets it to 0.
func (p *Picker) Clamp(n int) {
	if n <= 0 {
		p.Selected = 0
		p.ViewportOffset = 0
		return
	}
	if p.Selected < 0 {
		p.Selected = 0
	}
	if p.Selected >= n {
		p.Selected = n - 1
	}
}

// EnsureVisible adjusts the viewport offset so the selection stays inside a
// window of maxVisible rows over n entries.
func (p *Picker) EnsureVisible(n, maxVisible int) {
	if n <= 0 {
		p.Selected = 0
		p.ViewportOffset = 0
		return
	}
	p.Clamp(n)
	if maxVisible <= 0 {
		p.ViewportOffset = 0
		return
	}
	maxOffset := n - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.ViewportOffset > maxOffset {
		p.ViewportOffset = maxOffset
	}
	if p.ViewportOffset < 0 {
		p.ViewportOffset = 0
	}
	if p.Selected < p.ViewportOffset {
		p.ViewportOffset = p.Selected
	}
	if upper := p.ViewportOffset + maxVisible - 1; p.Selected > upper {
		p.ViewportOffset = p.Selected - maxVisible + 1
	}
}

// Window returns the half-open range of rows to draw.
func (p *Picker) Window(n, maxVisible int) (int, int) {
	p.EnsureVisible(n, maxVisible)
	if maxVisible <= 0 || maxVisible > n {
		return 0, n
	}
	return p.ViewportOffset, p.ViewportOffset + maxVisible
}
