package suggest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shelfmap/shelfmapgo/internal/hierarchy"
	"github.com/shelfmap/shelfmapgo/internal/models"
)

func contained(name string) *string { return &name }

func names(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Name
	}
	return out
}

func TestOrderGroupsChildrenUnderContainers(t *testing.T) {
	input := []Suggestion{
		{Name: "Mug", ContainedIn: contained("Box")},
		{Name: "Box", IsContainer: true},
		{Name: "Lamp"},
		{Name: "Plate", ContainedIn: contained("Box")},
	}

	got := names(Order(input))
	want := []string{"Box", "Mug", "Plate", "Lamp"}
	if len(got) != len(want) {
		t.Fatalf("Got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Got %v, want %v", got, want)
		}
	}
}

func TestOrderOrphanAppendedOnce(t *testing.T) {
	input := []Suggestion{
		{Name: "Lamp"},
		{Name: "Mug", ContainedIn: contained("Ghost")},
	}

	got := Order(input)
	if len(got) != 2 {
		t.Fatalf("Got %d suggestions, want 2 (orphan kept, not duplicated)", len(got))
	}
	if got[1].Name != "Mug" {
		t.Errorf("Orphan should be appended last, got %v", names(got))
	}

	count := 0
	for _, s := range got {
		if s.Name == "Mug" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Orphan appears %d times, want 1", count)
	}
}

func TestRemoveContainerClearsReferences(t *testing.T) {
	input := []Suggestion{
		{Name: "Box", IsContainer: true},
		{Name: "Mug", ContainedIn: contained("Box")},
		{Name: "Crate", IsContainer: true},
		{Name: "Plate", ContainedIn: contained("Crate")},
	}

	got := Remove(input, 0)
	if len(got) != 3 {
		t.Fatalf("Got %d suggestions, want 3", len(got))
	}
	for _, s := range got {
		switch s.Name {
		case "Mug":
			if s.ContainedIn != nil {
				t.Errorf("Mug still references %q", *s.ContainedIn)
			}
		case "Plate":
			if s.ContainedIn == nil || *s.ContainedIn != "Crate" {
				t.Errorf("Plate lost its valid reference")
			}
		}
	}
}

func TestRemoveNonContainerKeepsReferences(t *testing.T) {
	input := []Suggestion{
		{Name: "Box", IsContainer: true},
		{Name: "Mug", ContainedIn: contained("Box")},
		{Name: "Lamp"},
	}

	got := Remove(input, 2)
	if len(got) != 2 {
		t.Fatalf("Got %d suggestions, want 2", len(got))
	}
	if got[1].ContainedIn == nil || *got[1].ContainedIn != "Box" {
		t.Errorf("Removing a leaf must not touch references")
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	input := []Suggestion{{Name: "Box"}}
	if got := Remove(input, 5); len(got) != 1 {
		t.Errorf("Out-of-range remove changed the list: %v", names(got))
	}
	if got := Remove(input, -1); len(got) != 1 {
		t.Errorf("Negative remove changed the list: %v", names(got))
	}
}

// lockedStore is a concurrency-safe in-memory item store; Commit inserts
// leaf items from multiple goroutines.
type lockedStore struct {
	mu    sync.Mutex
	items map[string]*models.Item
	seq   int
}

func newLockedStore() *lockedStore {
	return &lockedStore{items: map[string]*models.Item{}}
}

func (s *lockedStore) ItemByID(id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "item"}
	}
	copied := *item
	return &copied, nil
}

func (s *lockedStore) ItemsByShelf(shelfID string) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Item
	for _, item := range s.items {
		if item.ShelfID == shelfID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *lockedStore) Create(item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		s.seq++
		item.ID = fmt.Sprintf("item-%d", s.seq)
	}
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *lockedStore) Save(item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *lockedStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *lockedStore) InTransaction(fn func(hierarchy.ItemStore) error) error {
	return fn(s)
}

func TestCommitNestsChildrenUnderContainers(t *testing.T) {
	store := newLockedStore()
	committer := NewCommitter(hierarchy.NewEngine(store))

	result, err := committer.Commit("s1", []Suggestion{
		{Name: "Box", IsContainer: true, Included: true},
		{Name: "Mug", Quantity: 2, ContainedIn: contained("Box"), Included: true},
		{Name: "Skipped", Included: false},
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if result.Created != 2 || result.Total != 2 {
		t.Errorf("Result: %+v, want created=2 total=2", result)
	}

	items, _ := store.ItemsByShelf("s1")
	if len(items) != 2 {
		t.Fatalf("Got %d items, want 2", len(items))
	}
	byName := map[string]models.Item{}
	for _, item := range items {
		byName[item.Name] = item
	}
	box, mug := byName["Box"], byName["Mug"]
	if mug.ParentID == nil || *mug.ParentID != box.ID {
		t.Errorf("Mug should be nested under Box")
	}
	if mug.Depth != 1 || mug.Path != "/"+box.ID+"/" {
		t.Errorf("Mug: path=%q depth=%d", mug.Path, mug.Depth)
	}
	if mug.Quantity != 2 {
		t.Errorf("Quantity: got %d, want 2", mug.Quantity)
	}
}

func TestCommitBestEffort(t *testing.T) {
	store := newLockedStore()
	committer := NewCommitter(hierarchy.NewEngine(store))

	// The unnamed suggestion fails validation; the rest still land
	result, err := committer.Commit("s1", []Suggestion{
		{Name: "Lamp", Included: true},
		{Name: "", Included: true},
		{Name: "Plate", Included: true},
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if result.Created != 2 || result.Total != 3 {
		t.Errorf("Result: %+v, want created=2 total=3", result)
	}
}

func TestCommitOrphanChildBecomesRoot(t *testing.T) {
	store := newLockedStore()
	committer := NewCommitter(hierarchy.NewEngine(store))

	result, err := committer.Commit("s1", []Suggestion{
		{Name: "Mug", ContainedIn: contained("Ghost"), Included: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 {
		t.Fatalf("Result: %+v, want created=1", result)
	}

	items, _ := store.ItemsByShelf("s1")
	if items[0].ParentID != nil || items[0].Depth != 0 {
		t.Errorf("Orphan child should land at the root: %+v", items[0])
	}
}

func TestCommitRequiresShelf(t *testing.T) {
	committer := NewCommitter(hierarchy.NewEngine(newLockedStore()))
	if _, err := committer.Commit("", nil); !models.IsValidation(err) {
		t.Errorf("Got %v, want ValidationError", err)
	}
}
