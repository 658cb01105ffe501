package canvas

import (
	"math"
	"testing"

	"github.com/shelfmap/shelfmapgo/internal/geometry"
	"github.com/shelfmap/shelfmapgo/internal/models"
)

// fakeShelfService records geometry calls without a database
type fakeShelfService struct {
	shelves    map[string]*models.Shelf
	moves      []string
	transforms []geometry.Transform
	deleted    []string
}

func newFakeShelfService(shelves ...*models.Shelf) *fakeShelfService {
	s := &fakeShelfService{shelves: map[string]*models.Shelf{}}
	for _, shelf := range shelves {
		s.shelves[shelf.ID] = shelf
	}
	return s
}

func (s *fakeShelfService) Shelf(id string) (*models.Shelf, error) {
	shelf, ok := s.shelves[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "shelf"}
	}
	return shelf, nil
}

func (s *fakeShelfService) Move(id string, x, y int) (*models.Shelf, error) {
	shelf, err := s.Shelf(id)
	if err != nil {
		return nil, err
	}
	shelf.PositionX = x
	shelf.PositionY = y
	s.moves = append(s.moves, id)
	return shelf, nil
}

func (s *fakeShelfService) ApplyTransform(id string, t geometry.Transform) (*models.Shelf, error) {
	shelf, err := s.Shelf(id)
	if err != nil {
		return nil, err
	}
	s.transforms = append(s.transforms, t)
	return shelf, nil
}

func (s *fakeShelfService) Delete(id string) error {
	delete(s.shelves, id)
	s.deleted = append(s.deleted, id)
	return nil
}

// fakePanel records open/close transitions
type fakePanel struct {
	openID string
	closes int
}

func (p *fakePanel) Open(shelfID string) { p.openID = shelfID }
func (p *fakePanel) Close()              { p.openID = ""; p.closes++ }

func testShelf(id string, x, y int) *models.Shelf {
	return &models.Shelf{ID: id, WarehouseID: "w1", PositionX: x, PositionY: y, Width: 100, Depth: 50}
}

func TestSelectAndDeselect(t *testing.T) {
	panel := &fakePanel{}
	c := NewController(newFakeShelfService(testShelf("s1", 100, 100)), panel)

	if c.State() != StateIdle {
		t.Fatalf("Initial state: got %v, want Idle", c.State())
	}

	if err := c.PointerDown(Target{ShelfID: "s1"}, Vec{X: 110, Y: 110}); err != nil {
		t.Fatal(err)
	}
	if c.View().SelectedShelfID != "s1" {
		t.Errorf("Selection: got %q, want s1", c.View().SelectedShelfID)
	}
	if panel.openID != "s1" {
		t.Errorf("Panel should open for s1, got %q", panel.openID)
	}
	if err := c.PointerUp(Vec{X: 110, Y: 110}); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateSelected {
		t.Errorf("After click: got %v, want Selected", c.State())
	}

	// Clicking empty canvas deselects and closes the panel
	if err := c.PointerDown(Target{}, Vec{X: 5, Y: 5}); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerUp(Vec{X: 5, Y: 5}); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateIdle || c.View().SelectedShelfID != "" {
		t.Errorf("Empty click: state=%v selected=%q", c.State(), c.View().SelectedShelfID)
	}
	if panel.closes != 1 {
		t.Errorf("Panel closes: got %d, want 1", panel.closes)
	}
}

func TestDragMovesShelf(t *testing.T) {
	svc := newFakeShelfService(testShelf("s1", 100, 100))
	c := NewController(svc, &fakePanel{})

	if err := c.PointerDown(Target{ShelfID: "s1"}, Vec{X: 110, Y: 110}); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateDragging {
		t.Fatalf("Got %v, want Dragging", c.State())
	}
	c.PointerMove(Vec{X: 140, Y: 160})
	if err := c.PointerUp(Vec{X: 140, Y: 160}); err != nil {
		t.Fatal(err)
	}

	shelf := svc.shelves["s1"]
	if shelf.PositionX != 130 || shelf.PositionY != 150 {
		t.Errorf("Position: got (%d,%d), want (130,150)", shelf.PositionX, shelf.PositionY)
	}
	if c.State() != StateSelected {
		t.Errorf("After drag: got %v, want Selected", c.State())
	}
}

func TestDragScalesWithZoom(t *testing.T) {
	svc := newFakeShelfService(testShelf("s1", 100, 100))
	c := NewController(svc, &fakePanel{})

	// Zoom in so screen deltas shrink in world units
	for c.View().Scale < 2.0 {
		c.Wheel(Vec{}, -1)
	}
	scale := c.View().Scale

	if err := c.PointerDown(Target{ShelfID: "s1"}, Vec{X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	c.PointerMove(Vec{X: 100, Y: 0})
	if err := c.PointerUp(Vec{X: 100, Y: 0}); err != nil {
		t.Fatal(err)
	}

	want := 100 + int(math.Round(100/scale))
	if got := svc.shelves["s1"].PositionX; got != want {
		t.Errorf("Zoomed drag: got x=%d, want %d", got, want)
	}
}

func TestClickWithoutMoveDoesNotPersist(t *testing.T) {
	svc := newFakeShelfService(testShelf("s1", 100, 100))
	c := NewController(svc, &fakePanel{})

	if err := c.PointerDown(Target{ShelfID: "s1"}, Vec{X: 110, Y: 110}); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerUp(Vec{X: 110, Y: 110}); err != nil {
		t.Fatal(err)
	}
	if len(svc.moves) != 0 {
		t.Errorf("Plain click issued %d move calls, want 0", len(svc.moves))
	}
}

func TestTransformGesture(t *testing.T) {
	svc := newFakeShelfService(testShelf("s1", 100, 100))
	c := NewController(svc, &fakePanel{})

	if err := c.PointerDown(Target{ShelfID: "s1"}, Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerUp(Vec{}); err != nil {
		t.Fatal(err)
	}

	// Grabbing a handle of the selected shelf enters Transforming
	if err := c.PointerDown(Target{ShelfID: "s1", Handle: true}, Vec{}); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateTransforming {
		t.Fatalf("Got %v, want Transforming", c.State())
	}

	// Pure rotate: scale ~1, dimensions stay nil
	if err := c.TransformEnd(100, 100, 1.0, 1.0, 90); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateSelected {
		t.Errorf("After transform: got %v, want Selected", c.State())
	}
	if len(svc.transforms) != 1 {
		t.Fatalf("Got %d transforms, want 1", len(svc.transforms))
	}
	if tr := svc.transforms[0]; tr.Width != nil || tr.Depth != nil || tr.Rotation != 90 {
		t.Errorf("Rotate transform: %+v", tr)
	}

	// Real resize: dimensions computed from scale
	if err := c.PointerDown(Target{ShelfID: "s1", Handle: true}, Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := c.TransformEnd(100, 100, 2.0, 1.0, 0); err != nil {
		t.Fatal(err)
	}
	tr := svc.transforms[1]
	if tr.Width == nil || *tr.Width != 200 {
		t.Errorf("Resize width: %+v", tr.Width)
	}
}

func TestWheelZoomClampAndAnchor(t *testing.T) {
	c := NewController(newFakeShelfService(), &fakePanel{})

	// Zooming far out hits the floor
	for i := 0; i < 100; i++ {
		c.Wheel(Vec{X: 200, Y: 150}, 1)
	}
	if got := c.View().Scale; got != MinScale {
		t.Errorf("Scale floor: got %v, want %v", got, MinScale)
	}

	// Zooming far in hits the ceiling
	for i := 0; i < 200; i++ {
		c.Wheel(Vec{X: 200, Y: 150}, -1)
	}
	if got := c.View().Scale; got != MaxScale {
		t.Errorf("Scale ceiling: got %v, want %v", got, MaxScale)
	}
}

func TestWheelZoomKeepsCursorFixed(t *testing.T) {
	c := NewController(newFakeShelfService(), &fakePanel{})
	cursor := Vec{X: 320, Y: 240}

	// The world point under the cursor must not change across a zoom step
	before := c.View()
	worldBefore := Vec{
		X: (cursor.X - before.Position.X) / before.Scale,
		Y: (cursor.Y - before.Position.Y) / before.Scale,
	}
	c.Wheel(cursor, -1)
	after := c.View()
	worldAfter := Vec{
		X: (cursor.X - after.Position.X) / after.Scale,
		Y: (cursor.Y - after.Position.Y) / after.Scale,
	}

	if math.Abs(worldBefore.X-worldAfter.X) > 1e-9 || math.Abs(worldBefore.Y-worldAfter.Y) > 1e-9 {
		t.Errorf("World point drifted: before=%+v after=%+v", worldBefore, worldAfter)
	}
}

func TestPanUpdatesPosition(t *testing.T) {
	c := NewController(newFakeShelfService(), &fakePanel{})

	if err := c.PointerDown(Target{}, Vec{X: 100, Y: 100}); err != nil {
		t.Fatal(err)
	}
	if c.State() != StatePanning {
		t.Fatalf("Got %v, want Panning", c.State())
	}
	c.PointerMove(Vec{X: 130, Y: 80})
	if err := c.PointerUp(Vec{X: 130, Y: 80}); err != nil {
		t.Fatal(err)
	}

	pos := c.View().Position
	if pos.X != 30 || pos.Y != -20 {
		t.Errorf("Pan: got (%v,%v), want (30,-20)", pos.X, pos.Y)
	}
}

func TestKeyDeleteRemovesSelection(t *testing.T) {
	svc := newFakeShelfService(testShelf("s1", 100, 100))
	panel := &fakePanel{}
	c := NewController(svc, panel)

	// Delete with nothing selected is a no-op
	if err := c.KeyDelete(); err != nil {
		t.Fatal(err)
	}
	if len(svc.deleted) != 0 {
		t.Fatal("Delete fired without a selection")
	}

	if err := c.PointerDown(Target{ShelfID: "s1"}, Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerUp(Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := c.KeyDelete(); err != nil {
		t.Fatal(err)
	}

	if len(svc.deleted) != 1 || svc.deleted[0] != "s1" {
		t.Errorf("Deleted: %v, want [s1]", svc.deleted)
	}
	if c.State() != StateIdle || c.View().SelectedShelfID != "" {
		t.Errorf("After delete: state=%v selected=%q", c.State(), c.View().SelectedShelfID)
	}
	if panel.openID != "" {
		t.Errorf("Panel still open for %q", panel.openID)
	}
}

func TestSwitchingSelectionReopensPanel(t *testing.T) {
	svc := newFakeShelfService(testShelf("s1", 0, 0), testShelf("s2", 200, 0))
	panel := &fakePanel{}
	c := NewController(svc, panel)

	if err := c.PointerDown(Target{ShelfID: "s1"}, Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerUp(Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerDown(Target{ShelfID: "s2"}, Vec{}); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerUp(Vec{}); err != nil {
		t.Fatal(err)
	}

	if panel.openID != "s2" {
		t.Errorf("Panel: got %q, want s2", panel.openID)
	}
	if c.View().SelectedShelfID != "s2" {
		t.Errorf("Selection: got %q, want s2", c.View().SelectedShelfID)
	}
}
