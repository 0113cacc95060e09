package models

import "github.com/artsapp/builder/pkg/constants"

// AppState is the per-session application state: the selected language and the
// signed-in user. Values are immutable; every setter returns a new snapshot.
type AppState struct {
	language string
	user     *User
}

// NewAppState creates a state with the given language and no user
func NewAppState(language string) AppState {
	if !constants.IsSupportedLanguage(language) {
		language = constants.DefaultLanguage
	}
	return AppState{language: language}
}

// Language returns the selected language
func (s AppState) Language() string {
	if s.language == "" {
		return constants.DefaultLanguage
	}
	return s.language
}

// User returns a copy of the signed-in user, or nil
func (s AppState) User() *User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Workgroups = append([]string(nil), s.user.Workgroups...)
	u.Permissions = append([]string(nil), s.user.Permissions...)
	return &u
}

// SignedIn reports whether a user is attached
func (s AppState) SignedIn() bool {
	return s.user != nil
}

// WithLanguage returns a snapshot with language selected. Unsupported codes are ignored.
func (s AppState) WithLanguage(language string) AppState {
	if !constants.IsSupportedLanguage(language) {
		return s
	}
	s.language = language
	return s
}

// WithUser returns a snapshot with user signed in
func (s AppState) WithUser(user *User) AppState {
	if user == nil {
		s.user = nil
		return s
	}
	u := *user
	u.Workgroups = append([]string(nil), user.Workgroups...)
	u.Permissions = append([]string(nil), user.Permissions...)
	s.user = &u
	return s
}

// SignedOut returns a snapshot without a user, keeping the language
func (s AppState) SignedOut() AppState {
	s.user = nil
	return s
}

// IsPermitted applies the permission gate to the signed-in user
func (s AppState) IsPermitted(permissions []string, workgroupID string) bool {
	return s.user.IsPermitted(permissions, workgroupID)
}
