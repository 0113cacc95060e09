package models

// Collection groups keys for publication
type Collection struct {
	ID          string       `json:"id"`
	Name        Translations `json:"name"`
	Description Translations `json:"description,omitempty"`
	WorkgroupID string       `json:"workgroupId,omitempty"`
	Keys        []string     `json:"keys,omitempty"`
}

// Group is a node in the key group hierarchy
type Group struct {
	ID          string       `json:"id"`
	Name        Translations `json:"name"`
	Description Translations `json:"description,omitempty"`
	ParentID    string       `json:"parentId,omitempty"`
}

// Workgroup controls edit and share permissions on keys
type Workgroup struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Users       []WorkgroupUser `json:"users,omitempty"`
}

// WorkgroupUser is a member of a workgroup
type WorkgroupUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Organization owns users and workgroups
type Organization struct {
	ID   string       `json:"id"`
	Name Translations `json:"name"`
}

// GroupCreatesCycle reports whether making parentID the parent of groupID would
// create a cycle in groups.
func GroupCreatesCycle(groups []Group, groupID, parentID string) bool {
	if parentID == "" {
		return false
	}
	if groupID != "" && parentID == groupID {
		return true
	}
	parents := make(map[string]string, len(groups))
	for _, g := range groups {
		parents[g.ID] = g.ParentID
	}
	seen := make(map[string]bool)
	for p := parentID; p != ""; p = parents[p] {
		if p == groupID || seen[p] {
			return true
		}
		seen[p] = true
	}
	return false
}
