// Package suggest shapes AI photo-analysis output into a reviewable item
// list and commits the approved subset into a shelf's item hierarchy.
package suggest

import (
	"sync"

	"github.com/samber/lo"
	"github.com/shelfmap/shelfmapgo/internal/hierarchy"
	"github.com/shelfmap/shelfmapgo/internal/models"
)

// Suggestion is one AI-proposed item. ContainedIn names another suggestion
// by its display name, not by id; the classifier has no ids to give.
type Suggestion struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	IsContainer bool    `json:"isContainer"`
	ContainedIn *string `json:"containedIn"`
	Included    bool    `json:"included"`
}

// Order arranges suggestions for review: top-level entries in input order,
// each container immediately followed by the children that name it. Children
// whose named container does not exist are appended at the end so nothing
// the classifier produced is silently dropped.
func Order(suggestions []Suggestion) []Suggestion {
	topLevel, children := lo.FilterReject(suggestions, func(s Suggestion, _ int) bool {
		return s.ContainedIn == nil || *s.ContainedIn == ""
	})

	ordered := make([]Suggestion, 0, len(suggestions))
	placed := make([]bool, len(children))
	for _, top := range topLevel {
		ordered = append(ordered, top)
		if !top.IsContainer {
			continue
		}
		for i, child := range children {
			if !placed[i] && *child.ContainedIn == top.Name {
				ordered = append(ordered, child)
				placed[i] = true
			}
		}
	}

	// Orphan fallback
	for i, child := range children {
		if !placed[i] {
			ordered = append(ordered, child)
		}
	}
	return ordered
}

// Remove drops the suggestion at index and nulls out ContainedIn on any
// suggestion that referenced the removed entry by name, so the list never
// holds a reference to a name that no longer exists.
func Remove(suggestions []Suggestion, index int) []Suggestion {
	if index < 0 || index >= len(suggestions) {
		return suggestions
	}
	removed := suggestions[index]
	remaining := append(suggestions[:index:index], suggestions[index+1:]...)

	if !removed.IsContainer {
		return remaining
	}
	return lo.Map(remaining, func(s Suggestion, _ int) Suggestion {
		if s.ContainedIn != nil && *s.ContainedIn == removed.Name {
			s.ContainedIn = nil
		}
		return s
	})
}

// CommitResult reports how many of the attempted inserts succeeded
type CommitResult struct {
	Created int `json:"created"`
	Total   int `json:"total"`
}

// Committer inserts reviewed suggestions into a shelf's item hierarchy.
type Committer struct {
	engine *hierarchy.Engine
}

// NewCommitter creates a committer backed by the given hierarchy engine
func NewCommitter(engine *hierarchy.Engine) *Committer {
	return &Committer{engine: engine}
}

// Commit creates the included suggestions on the shelf. Containers go in
// first so children can resolve their parent by name; each insert is
// independent and one failure never rolls back the others.
func (c *Committer) Commit(shelfID string, suggestions []Suggestion) (CommitResult, error) {
	if shelfID == "" {
		return CommitResult{}, &models.ValidationError{Reason: "shelfId is required"}
	}

	included := lo.Filter(suggestions, func(s Suggestion, _ int) bool { return s.Included })
	result := CommitResult{Total: len(included)}

	containers, plain := lo.FilterReject(included, func(s Suggestion, _ int) bool {
		return s.IsContainer
	})

	// Phase one: containers, serially, collecting name -> id for the children
	containerIDs := make(map[string]string, len(containers))
	for _, s := range containers {
		item, err := c.engine.Insert(c.insertInput(shelfID, s, nil))
		if err != nil {
			continue
		}
		result.Created++
		containerIDs[s.Name] = item.ID
	}

	// Phase two: remaining items concurrently, best effort
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for _, s := range plain {
		var parentID *string
		if s.ContainedIn != nil {
			if id, ok := containerIDs[*s.ContainedIn]; ok {
				parentID = &id
			}
		}
		wg.Add(1)
		go func(s Suggestion, parentID *string) {
			defer wg.Done()
			if _, err := c.engine.Insert(c.insertInput(shelfID, s, parentID)); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(s, parentID)
	}
	wg.Wait()

	result.Created += created
	return result, nil
}

func (c *Committer) insertInput(shelfID string, s Suggestion, parentID *string) hierarchy.InsertInput {
	quantity := s.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return hierarchy.InsertInput{
		ShelfID:     shelfID,
		ParentID:    parentID,
		Name:        s.Name,
		Description: s.Description,
		IsContainer: s.IsContainer,
		Quantity:    quantity,
	}
}
