package service

import (
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// IDDiff lists the ids added, removed and changed between two collections
type IDDiff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed"`
}

// IsEmpty reports whether nothing differs
func (d IDDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// ContentDiff is the difference between two revision contents. Statements are
// identified by "taxonId/characterId".
type ContentDiff struct {
	Taxa       IDDiff `json:"taxa"`
	Characters IDDiff `json:"characters"`
	Statements IDDiff `json:"statements"`
}

// IsEmpty reports whether the contents are equivalent
func (d ContentDiff) IsEmpty() bool {
	return d.Taxa.IsEmpty() && d.Characters.IsEmpty() && d.Statements.IsEmpty()
}

var diffOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmpopts.IgnoreFields(models.Statement{}, "ID"),
}

// DiffContent compares base with next on the semantic model. Taxa are compared
// flattened so that moving a taxon counts as a change of that taxon only.
func DiffContent(base, next models.RevisionContent) ContentDiff {
	return ContentDiff{
		Taxa:       diffByID(models.FlattenTaxa(base.Taxa), models.FlattenTaxa(next.Taxa), func(t models.Taxon) string { return t.ID }),
		Characters: diffByID(base.Characters, next.Characters, func(c models.Character) string { return c.ID }),
		Statements: diffByID(base.Statements, next.Statements, func(s models.Statement) string { return s.Key() }),
	}
}

func diffByID[T any](base, next []T, id func(T) string) IDDiff {
	before := make(map[string]T, len(base))
	for _, item := range base {
		before[id(item)] = item
	}
	after := make(map[string]bool, len(next))

	d := IDDiff{Added: []string{}, Removed: []string{}, Changed: []string{}}
	for _, item := range next {
		key := id(item)
		after[key] = true
		old, ok := before[key]
		switch {
		case !ok:
			d.Added = append(d.Added, key)
		case !cmp.Equal(old, item, diffOptions...):
			d.Changed = append(d.Changed, key)
		}
	}
	for _, item := range base {
		if key := id(item); !after[key] {
			d.Removed = append(d.Removed, key)
		}
	}
	return d
}
