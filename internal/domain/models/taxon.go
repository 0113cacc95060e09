package models

// Taxon is a node of the key's taxon tree. The tree is carried either through
// nested Children or through ParentID references; helpers accept both.
type Taxon struct {
	ID             string       `json:"id"`
	ScientificName string       `json:"scientificName"`
	VernacularName Translations `json:"vernacularName,omitempty"`
	ParentID       string       `json:"parentId,omitempty"`
	Children       []Taxon      `json:"children,omitempty"`
	Description    Translations `json:"description,omitempty"`
	Media          []string     `json:"media,omitempty"`
}

// Clone returns a deep copy of the taxon and its subtree
func (t Taxon) Clone() Taxon {
	out := t
	out.VernacularName = t.VernacularName.Clone()
	out.Description = t.Description.Clone()
	if t.Media != nil {
		out.Media = append([]string(nil), t.Media...)
	}
	if t.Children != nil {
		out.Children = make([]Taxon, len(t.Children))
		for i := range t.Children {
			out.Children[i] = t.Children[i].Clone()
		}
	}
	return out
}

// FlattenTaxa walks the tree depth first and returns every taxon without its
// children, with ParentID filled in from the nesting when it was not set.
func FlattenTaxa(taxa []Taxon) []Taxon {
	var out []Taxon
	var walk func(nodes []Taxon, parentID string)
	walk = func(nodes []Taxon, parentID string) {
		for _, n := range nodes {
			flat := n
			flat.Children = nil
			if flat.ParentID == "" {
				flat.ParentID = parentID
			}
			out = append(out, flat)
			walk(n.Children, n.ID)
		}
	}
	walk(taxa, "")
	return out
}

// FindTaxon searches the tree for id
func FindTaxon(taxa []Taxon, id string) (*Taxon, bool) {
	for i := range taxa {
		if taxa[i].ID == id {
			return &taxa[i], true
		}
		if found, ok := FindTaxon(taxa[i].Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// TaxonIndex answers hierarchy questions over a flattened tree
type TaxonIndex struct {
	parent   map[string]string
	children map[string][]string
}

// NewTaxonIndex indexes taxa
func NewTaxonIndex(taxa []Taxon) *TaxonIndex {
	idx := &TaxonIndex{
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
	for _, t := range FlattenTaxa(taxa) {
		idx.parent[t.ID] = t.ParentID
		if t.ParentID != "" {
			idx.children[t.ParentID] = append(idx.children[t.ParentID], t.ID)
		}
	}
	return idx
}

// Contains reports whether id is part of the tree
func (x *TaxonIndex) Contains(id string) bool {
	_, ok := x.parent[id]
	return ok
}

// Ancestors returns the ids from the parent of id up to the root
func (x *TaxonIndex) Ancestors(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	for p := x.parent[id]; p != "" && !seen[p]; p = x.parent[p] {
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Descendants returns every id below id, breadth first
func (x *TaxonIndex) Descendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	queue := append([]string(nil), x.children[id]...)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		queue = append(queue, x.children[c]...)
	}
	return out
}

// Related returns the ancestors and descendants of id
func (x *TaxonIndex) Related(id string) []string {
	return append(x.Ancestors(id), x.Descendants(id)...)
}
