package explore

// DragState records an in-progress drag gesture. ImageID identifies the
// dragged image; SourceIndex is where it currently sits.
type DragState struct {
	ImageID     string `json:"image_id"`
	SourceIndex int    `json:"source_index"`
}

// DragController reorders an ImageSet live while a pointer drag is in
// progress. It is Idle when no DragState is held.
type DragController struct {
	set   *ImageSet
	state *DragState
}

// NewDragController binds a controller to set.
func NewDragController(set *ImageSet) *DragController {
	return &DragController{set: set}
}

// State returns the active drag, if any.
func (c *DragController) State() (DragState, bool) {
	if c.state == nil {
		return DragState{}, false
	}
	return *c.state, true
}

// StartDrag begins a gesture on the image at index. A second start while a
// drag is active, or an index outside the set, is ignored.
func (c *DragController) StartDrag(index int) bool {
	if c.state != nil || index < 0 || index >= c.set.Len() {
		return false
	}
	c.state = &DragState{
		ImageID:     c.set.items[index].ID,
		SourceIndex: index,
	}
	return true
}

// Hover moves the dragged image to target and makes target the new source,
// so the next hover composes against the updated order. Hovering over the
// image's own slot, or outside the set, does nothing.
func (c *DragController) Hover(target int) bool {
	if c.state == nil {
		return false
	}
	source := c.set.IndexOf(c.state.ImageID)
	if source < 0 {
		// The dragged image left the set; the gesture has nothing to move.
		c.state = nil
		return false
	}
	c.state.SourceIndex = source
	if !c.set.Move(source, target) {
		return false
	}
	c.state.SourceIndex = target
	return true
}

// EndDrag returns the controller to Idle regardless of where the pointer was
// released. The order reached by the last hover stands.
func (c *DragController) EndDrag() {
	c.state = nil
}

// Forget ends the gesture when the image it is dragging is removed.
func (c *DragController) Forget(imageID string) {
	if c.state != nil && c.state.ImageID == imageID {
		c.state = nil
	}
}
