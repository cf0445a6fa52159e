package plan

// DragSession gives live reordering during a drag gesture: every pointer-over
// event moves the dragged step immediately instead of waiting for the drop.
type DragSession struct {
	plan   *Plan
	index  int
	active bool
}

// NewDragSession starts tracking drags on p.
func NewDragSession(p *Plan) *DragSession {
	return &DragSession{plan: p, index: -1}
}

// Begin picks up the step at index. Out-of-range indices are ignored.
func (d *DragSession) Begin(index int) {
	if index < 0 || index >= d.plan.Len() {
		d.active = false
		d.index = -1
		return
	}
	d.index = index
	d.active = true
}

// Over moves the dragged step to index and tracks it there.
func (d *DragSession) Over(index int) {
	if !d.active {
		return
	}
	index = clamp(index, 0, d.plan.Len()-1)
	d.plan.Reorder(d.index, index)
	d.index = index
}

// End finishes the gesture. The plan already holds the final order.
func (d *DragSession) End() {
	d.active = false
	d.index = -1
}

// Index returns the current position of the dragged step, or -1.
func (d *DragSession) Index() int {
	return d.index
}
