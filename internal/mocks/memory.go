package mocks

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
)

// Memory is the shared in-memory state behind the recipe and label fakes.
// Recipe and label stores created from the same Memory see each other's
// rows, which ReplaceForRecipe needs to check ownership.
type Memory struct {
	mu     sync.Mutex
	nextID int64

	recipes map[int64]*domain.Recipe
	labels  map[domain.LabelKind]map[int64]*domain.Label
	// links[kind][recipeID] is the set of label IDs associated with the recipe.
	links map[domain.LabelKind]map[int64]map[int64]struct{}
}

// NewMemory creates empty shared state.
func NewMemory() *Memory {
	return &Memory{
		recipes: make(map[int64]*domain.Recipe),
		labels: map[domain.LabelKind]map[int64]*domain.Label{
			domain.LabelKindTag:        {},
			domain.LabelKindIngredient: {},
		},
		links: map[domain.LabelKind]map[int64]map[int64]struct{}{
			domain.LabelKindTag:        {},
			domain.LabelKindIngredient: {},
		},
	}
}

func (m *Memory) newID() int64 {
	m.nextID++
	return m.nextID
}

// LabelCount returns how many labels of kind userID owns.
func (m *Memory) LabelCount(userID uuid.UUID, kind domain.LabelKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, l := range m.labels[kind] {
		if l.UserID == userID {
			n++
		}
	}
	return n
}

// LinkedLabelIDs returns the IDs of labels of kind linked to recipeID, ascending.
func (m *Memory) LinkedLabelIDs(kind domain.LabelKind, recipeID int64) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.links[kind][recipeID]))
	for id := range m.links[kind][recipeID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func copyRecipe(r *domain.Recipe) *domain.Recipe {
	c := *r
	c.Tags = []*domain.Tag{}
	c.Ingredients = []*domain.Ingredient{}
	return &c
}

func copyLabel(l *domain.Label) *domain.Label {
	c := *l
	return &c
}

func sortLabels(labels []*domain.Label) {
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Name != labels[j].Name {
			return labels[i].Name > labels[j].Name
		}
		return labels[i].ID > labels[j].ID
	})
}
