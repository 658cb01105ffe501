package hierarchy

import (
	"math/rand"
	"testing"

	"github.com/shelfmap/shelfmapgo/internal/models"
)

func flatItem(id, parentID string, sortOrder int) models.Item {
	item := models.Item{ID: id, ShelfID: "s1", Name: id, SortOrder: sortOrder, Path: "/"}
	if parentID != "" {
		item.ParentID = &parentID
	}
	return item
}

func TestBuildTreeBasic(t *testing.T) {
	items := []models.Item{
		flatItem("A", "", 0),
		flatItem("B", "A", 0),
		flatItem("D", "", 1),
	}

	roots := BuildTree(items)
	if len(roots) != 2 {
		t.Fatalf("Got %d roots, want 2", len(roots))
	}
	if roots[0].ID != "A" || roots[1].ID != "D" {
		t.Errorf("Root order: got %s,%s, want A,D", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != "B" {
		t.Errorf("A should have exactly child B")
	}
}

func TestBuildTreeOrderIndependent(t *testing.T) {
	items := []models.Item{
		flatItem("A", "", 1),
		flatItem("B", "A", 2),
		flatItem("C", "A", 0),
		flatItem("D", "", 0),
		flatItem("E", "C", 0),
	}

	render := func(nodes []*TreeNode) string {
		out := ""
		var walk func([]*TreeNode)
		walk = func(ns []*TreeNode) {
			for _, n := range ns {
				out += n.ID + "("
				walk(n.Children)
				out += ")"
			}
		}
		walk(nodes)
		return out
	}

	want := render(BuildTree(items))
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Item, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := render(BuildTree(shuffled)); got != want {
			t.Fatalf("Permutation %d: got %s, want %s", i, got, want)
		}
	}
}

func TestBuildTreeDanglingParent(t *testing.T) {
	items := []models.Item{
		flatItem("A", "", 0),
		flatItem("B", "ghost", 1),
	}

	roots := BuildTree(items)
	if len(roots) != 2 {
		t.Fatalf("Got %d roots, want 2 (dangling parent falls back to root)", len(roots))
	}

	seen := map[string]int{}
	var count func([]*TreeNode)
	count = func(ns []*TreeNode) {
		for _, n := range ns {
			seen[n.ID]++
			count(n.Children)
		}
	}
	count(roots)
	if seen["B"] != 1 {
		t.Errorf("B appears %d times, want exactly once", seen["B"])
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	if roots := BuildTree(nil); len(roots) != 0 {
		t.Errorf("Empty input: got %d roots, want 0", len(roots))
	}
}
