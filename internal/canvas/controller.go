// Package canvas turns raw pointer and wheel input on the floor plan into
// geometry operations. It owns the transient view state (zoom, pan,
// selection) which is never persisted.
package canvas

import (
	"math"

	"github.com/shelfmap/shelfmapgo/internal/geometry"
	"github.com/shelfmap/shelfmapgo/internal/models"
)

// State is the interaction mode of the floor plan
type State int

const (
	StateIdle State = iota
	StateSelected
	StateDragging
	StateTransforming
	StatePanning
)

const (
	MinScale   = 0.25
	MaxScale   = 3.0
	zoomFactor = 1.05
)

// Vec is a 2D point in screen coordinates
type Vec struct {
	X float64
	Y float64
}

// ViewState is the transient camera and selection state of one session
type ViewState struct {
	Scale           float64
	Position        Vec
	SelectedShelfID string
}

// ShelfService is the geometry collaborator the controller mutates through.
// All writes are optimistic; a polling refresh reconciles other sessions.
type ShelfService interface {
	Shelf(id string) (*models.Shelf, error)
	Move(id string, x, y int) (*models.Shelf, error)
	ApplyTransform(id string, t geometry.Transform) (*models.Shelf, error)
	Delete(id string) error
}

// InventoryPanel follows the shelf selection: it opens scoped to the
// selected shelf and closes on deselect or deletion.
type InventoryPanel interface {
	Open(shelfID string)
	Close()
}

// Target describes what a pointer-down event landed on
type Target struct {
	ShelfID string
	// Handle is true when the press hit a transform handle of the
	// selected shelf rather than its body.
	Handle bool
}

// Controller is the floor plan input state machine. It is single-session
// and not safe for concurrent use; one instance serves one client view.
type Controller struct {
	shelves ShelfService
	panel   InventoryPanel

	state State
	view  ViewState

	// drag bookkeeping, valid while state is Dragging or Panning
	pressPoint  Vec
	shelfAnchor Vec
	panAnchor   Vec
	moved       bool
}

// NewController creates a controller at zoom 1.0 with nothing selected
func NewController(shelves ShelfService, panel InventoryPanel) *Controller {
	return &Controller{
		shelves: shelves,
		panel:   panel,
		state:   StateIdle,
		view:    ViewState{Scale: 1.0},
	}
}

// State returns the current interaction mode
func (c *Controller) State() State { return c.state }

// View returns a copy of the transient view state
func (c *Controller) View() ViewState { return c.view }

// PointerDown starts a drag, transform or pan depending on the target.
// Pressing a shelf selects it; pressing empty canvas deselects.
func (c *Controller) PointerDown(target Target, at Vec) error {
	if target.ShelfID == "" {
		c.deselect()
		c.state = StatePanning
		c.pressPoint = at
		c.panAnchor = c.view.Position
		c.moved = false
		return nil
	}

	if target.Handle && target.ShelfID == c.view.SelectedShelfID {
		c.state = StateTransforming
		return nil
	}

	if err := c.selectShelf(target.ShelfID); err != nil {
		return err
	}

	shelf, err := c.shelves.Shelf(target.ShelfID)
	if err != nil {
		return err
	}
	c.state = StateDragging
	c.pressPoint = at
	c.shelfAnchor = Vec{X: float64(shelf.PositionX), Y: float64(shelf.PositionY)}
	c.moved = false
	return nil
}

// PointerMove updates the in-flight drag or pan. Movement is scaled by the
// current zoom so a shelf tracks the cursor at any zoom level.
func (c *Controller) PointerMove(at Vec) {
	switch c.state {
	case StateDragging:
		c.moved = true
	case StatePanning:
		c.moved = true
		c.view.Position = Vec{
			X: c.panAnchor.X + at.X - c.pressPoint.X,
			Y: c.panAnchor.Y + at.Y - c.pressPoint.Y,
		}
	}
}

// PointerUp commits the gesture. A shelf drag persists the new position; a
// pan only updates local view state.
func (c *Controller) PointerUp(at Vec) error {
	switch c.state {
	case StateDragging:
		c.state = StateSelected
		if !c.moved {
			return nil
		}
		x := c.shelfAnchor.X + (at.X-c.pressPoint.X)/c.view.Scale
		y := c.shelfAnchor.Y + (at.Y-c.pressPoint.Y)/c.view.Scale
		_, err := c.shelves.Move(c.view.SelectedShelfID, int(math.Round(x)), int(math.Round(y)))
		return err
	case StatePanning:
		c.state = StateIdle
	case StateTransforming:
		// kept until TransformEnd delivers the gesture result
	}
	return nil
}

// TransformEnd commits a resize/rotate gesture from the transform handles.
// Scale factors near 1.0 mean a pure rotate and leave dimensions alone.
func (c *Controller) TransformEnd(x, y int, scaleX, scaleY, rotation float64) error {
	if c.state != StateTransforming {
		return nil
	}
	c.state = StateSelected

	shelf, err := c.shelves.Shelf(c.view.SelectedShelfID)
	if err != nil {
		return err
	}
	t := geometry.TransformFromScale(x, y, shelf.Width, shelf.Depth, scaleX, scaleY, rotation)
	_, err = c.shelves.ApplyTransform(shelf.ID, t)
	return err
}

// Wheel zooms multiplicatively toward the cursor, clamped to [0.25, 3.0].
// The point under the cursor stays fixed on screen.
func (c *Controller) Wheel(at Vec, deltaY float64) {
	oldScale := c.view.Scale
	newScale := oldScale * zoomFactor
	if deltaY > 0 {
		newScale = oldScale / zoomFactor
	}
	newScale = math.Min(math.Max(newScale, MinScale), MaxScale)
	if newScale == oldScale {
		return
	}

	c.view.Position = Vec{
		X: at.X - (at.X-c.view.Position.X)/oldScale*newScale,
		Y: at.Y - (at.Y-c.view.Position.Y)/oldScale*newScale,
	}
	c.view.Scale = newScale
}

// KeyDelete removes the selected shelf and returns to Idle
func (c *Controller) KeyDelete() error {
	if c.view.SelectedShelfID == "" {
		return nil
	}
	id := c.view.SelectedShelfID
	c.deselect()
	c.state = StateIdle
	return c.shelves.Delete(id)
}

func (c *Controller) selectShelf(id string) error {
	if c.view.SelectedShelfID == id {
		c.state = StateSelected
		return nil
	}
	c.view.SelectedShelfID = id
	c.state = StateSelected
	c.panel.Open(id)
	return nil
}

func (c *Controller) deselect() {
	if c.view.SelectedShelfID != "" {
		c.view.SelectedShelfID = ""
		c.panel.Close()
	}
	c.state = StateIdle
}
