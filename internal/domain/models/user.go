package models

// User is the authenticated identity returned by the key API's /auth endpoint
type User struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Role           string   `json:"role,omitempty"`
	RoleName       string   `json:"roleName,omitempty"`
	OrganizationID string   `json:"organizationId,omitempty"`
	Workgroups     []string `json:"workgroups"`
	Permissions    []string `json:"permissions"`
}

// IsMember reports whether the user belongs to workgroupID
func (u *User) IsMember(workgroupID string) bool {
	if u == nil {
		return false
	}
	for _, w := range u.Workgroups {
		if w == workgroupID {
			return true
		}
	}
	return false
}

// IsPermitted reports whether the user holds every permission and, when
// workgroupID is set, is a member of that workgroup. A nil user is never permitted.
func (u *User) IsPermitted(permissions []string, workgroupID string) bool {
	if u == nil {
		return false
	}
	if workgroupID != "" && !u.IsMember(workgroupID) {
		return false
	}
	held := make(map[string]struct{}, len(u.Permissions))
	for _, p := range u.Permissions {
		held[p] = struct{}{}
	}
	for _, p := range permissions {
		if _, ok := held[p]; !ok {
			return false
		}
	}
	return true
}
