package hierarchy

import (
	"sort"

	"github.com/shelfmap/shelfmapgo/internal/models"
)

// TreeNode is an item with its resolved children
type TreeNode struct {
	models.Item
	Children []*TreeNode `json:"children"`
}

// BuildTree reconstructs the item forest from a flat record list. Input order
// is irrelevant: nodes are indexed by id, linked through ParentID and sorted
// by SortOrder at every level. An item whose parent id does not resolve is
// promoted to a root so the tree stays renderable with partial data.
func BuildTree(items []models.Item) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(items))
	for i := range items {
		nodes[items[i].ID] = &TreeNode{Item: items[i], Children: []*TreeNode{}}
	}

	roots := []*TreeNode{}
	for i := range items {
		node := nodes[items[i].ID]
		if items[i].ParentID != nil {
			if parent, ok := nodes[*items[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortForest(roots)
	return roots
}

func sortForest(nodes []*TreeNode) {
	sort.Slice(nodes, func(a, b int) bool {
		if nodes[a].SortOrder != nodes[b].SortOrder {
			return nodes[a].SortOrder < nodes[b].SortOrder
		}
		// Tie-break on id so any input permutation yields the same order
		return nodes[a].ID < nodes[b].ID
	})
	for _, node := range nodes {
		if len(node.Children) > 0 {
			sortForest(node.Children)
		}
	}
}
