// Package constants defines system-wide constants for the ArtsApp key builder service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Key Status Constants
// ================================================================================

// KeyStatus represents the publication status of an identification key
type KeyStatus string

const (
	// KeyStatusPrivate indicates the key is only visible to its workgroup
	KeyStatusPrivate KeyStatus = "PRIVATE"

	// KeyStatusBeta indicates the key is published as a beta version
	KeyStatusBeta KeyStatus = "BETA"

	// KeyStatusPublished indicates the key is publicly available
	KeyStatusPublished KeyStatus = "PUBLISHED"

	// KeyStatusHidden marks a soft-deleted key
	KeyStatusHidden KeyStatus = "HIDDEN"
)

// Valid reports whether the status is one of the known key statuses
func (s KeyStatus) Valid() bool {
	switch s {
	case KeyStatusPrivate, KeyStatusBeta, KeyStatusPublished, KeyStatusHidden:
		return true
	}
	return false
}

// ================================================================================
// Revision Constants
// ================================================================================

// RevisionStatus represents the review workflow status of a revision
type RevisionStatus string

const (
	// RevisionStatusDraft is the initial status; an absent status is treated as draft
	RevisionStatusDraft RevisionStatus = "DRAFT"

	// RevisionStatusReview indicates the revision awaits review
	RevisionStatusReview RevisionStatus = "REVIEW"

	// RevisionStatusAccepted indicates the revision is canonical published content
	RevisionStatusAccepted RevisionStatus = "ACCEPTED"
)

// Valid reports whether the status is one of the known revision statuses
func (s RevisionStatus) Valid() bool {
	switch s {
	case RevisionStatusDraft, RevisionStatusReview, RevisionStatusAccepted:
		return true
	}
	return false
}

// RevisionMode selects between single and double decision mode
type RevisionMode int

const (
	// RevisionModeSingle presents one character at a time
	RevisionModeSingle RevisionMode = 1

	// RevisionModeDouble presents characters pairwise
	RevisionModeDouble RevisionMode = 2
)

// ================================================================================
// Character Constants
// ================================================================================

// CharacterType represents the kind of values a character takes
type CharacterType string

const (
	// CharacterTypeExclusive allows exactly one state per taxon
	CharacterTypeExclusive CharacterType = "EXCLUSIVE"

	// CharacterTypeMultistate allows several states per taxon
	CharacterTypeMultistate CharacterType = "MULTISTATE"

	// CharacterTypeNumerical holds a numeric range instead of discrete states
	CharacterTypeNumerical CharacterType = "NUMERICAL"
)

// Categorical reports whether the character type uses discrete states
func (t CharacterType) Categorical() bool {
	return t == CharacterTypeExclusive || t == CharacterTypeMultistate
}

// Valid reports whether the type is one of the known character types
func (t CharacterType) Valid() bool {
	return t.Categorical() || t == CharacterTypeNumerical
}

// ================================================================================
// Logical Premise Constants
// ================================================================================

// PremiseOperator is the boolean operator joining premise groups or leaves
type PremiseOperator string

const (
	// OperatorAnd requires every operand to hold
	OperatorAnd PremiseOperator = "AND"

	// OperatorOr requires at least one operand to hold
	OperatorOr PremiseOperator = "OR"
)

// Complement returns the opposite operator
func (o PremiseOperator) Complement() PremiseOperator {
	if o == OperatorAnd {
		return OperatorOr
	}
	return OperatorAnd
}

// Valid reports whether the operator is AND or OR
func (o PremiseOperator) Valid() bool {
	return o == OperatorAnd || o == OperatorOr
}

// Comparator is the comparison applied by a premise leaf
type Comparator string

const (
	// ComparatorEqual holds when the state is present
	ComparatorEqual Comparator = "=="

	// ComparatorNotEqual holds when the state is absent
	ComparatorNotEqual Comparator = "!="

	// ComparatorGreaterOrEqual bounds a numeric range from below
	ComparatorGreaterOrEqual Comparator = ">="

	// ComparatorLessOrEqual bounds a numeric range from above
	ComparatorLessOrEqual Comparator = "<="
)

// Valid reports whether the comparator is known
func (c Comparator) Valid() bool {
	switch c {
	case ComparatorEqual, ComparatorNotEqual, ComparatorGreaterOrEqual, ComparatorLessOrEqual:
		return true
	}
	return false
}

// ================================================================================
// Permission Constants
// ================================================================================

// Permission names as issued by the key API in the user's permission set
const (
	PermissionCreateKey        = "CREATE_KEY"
	PermissionEditKey          = "EDIT_KEY"
	PermissionPublishKey       = "PUBLISH_KEY"
	PermissionDeleteKey        = "DELETE_KEY"
	PermissionCreateRevision   = "CREATE_REVISION"
	PermissionReviewRevision   = "REVIEW_REVISION"
	PermissionCreateGroup      = "CREATE_GROUP"
	PermissionEditGroup        = "EDIT_GROUP"
	PermissionCreateWorkgroup  = "CREATE_WORKGROUP"
	PermissionEditWorkgroup    = "EDIT_WORKGROUP"
	PermissionCreateCollection = "CREATE_COLLECTION"
	PermissionEditCollection   = "EDIT_COLLECTION"
	PermissionUploadMedia      = "UPLOAD_MEDIA"
)

// ================================================================================
// Language Constants
// ================================================================================

const (
	// LanguageNorwegian is the Norwegian language code
	LanguageNorwegian = "no"

	// LanguageEnglish is the English language code
	LanguageEnglish = "en"

	// DefaultLanguage is used when no language has been selected
	DefaultLanguage = LanguageNorwegian
)

// SupportedLanguages lists the content and UI languages in display order
var SupportedLanguages = []string{LanguageNorwegian, LanguageEnglish}

// IsSupportedLanguage reports whether code is a supported language
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// ================================================================================
// Audit Event Types
// ================================================================================

// AuditEventType represents the type of builder action recorded in the audit trail
type AuditEventType string

const (
	AuditEventKeyCreated            AuditEventType = "key.created"
	AuditEventKeyUpdated            AuditEventType = "key.updated"
	AuditEventKeyHidden             AuditEventType = "key.hidden"
	AuditEventRevisionCreated       AuditEventType = "revision.created"
	AuditEventRevisionStatusChanged AuditEventType = "revision.status_changed"
	AuditEventRevisionModeChanged   AuditEventType = "revision.mode_changed"
	AuditEventCharacterChanged      AuditEventType = "character.changed"
	AuditEventStatesChanged         AuditEventType = "character.states_changed"
	AuditEventPremiseUpdated        AuditEventType = "premise.updated"
	AuditEventPremiseCleanup        AuditEventType = "premise.cleanup"
	AuditEventTaxonChanged          AuditEventType = "taxon.changed"
	AuditEventCollectionChanged     AuditEventType = "collection.changed"
	AuditEventGroupChanged          AuditEventType = "group.changed"
	AuditEventWorkgroupChanged      AuditEventType = "workgroup.changed"
	AuditEventMediaChanged          AuditEventType = "media.changed"
	AuditEventSignedOut             AuditEventType = "session.signed_out"
)

// ================================================================================
// Session Constants
// ================================================================================

const (
	// SessionCookieName is the name of the builder session cookie
	SessionCookieName = "builder_session"

	// UpstreamSessionCookieName is the session cookie of the key API
	UpstreamSessionCookieName = "connect.sid"

	// SessionDefaultTTL is the default lifetime of a builder session
	SessionDefaultTTL = 7 * 24 * time.Hour

	// SessionKeyPrefix is the redis key prefix for session state
	SessionKeyPrefix = "builder:session:"

	// SessionTokenIssuer is the issuer claim of session tokens
	SessionTokenIssuer = "artsapp-builder"
)

// ================================================================================
// Service Configuration Constants
// ================================================================================

const (
	// DefaultServicePort is the default HTTP service port
	DefaultServicePort = 8080

	// DefaultAPITimeout is the default timeout for a single key API call
	DefaultAPITimeout = 30 * time.Second

	// DefaultMaxUploadSize is the default upload limit in human-readable form
	DefaultMaxUploadSize = "10MB"

	// RequestIDHeader carries the request ID
	RequestIDHeader = "X-Request-ID"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeySessionID is the key for the builder session ID
	ContextKeySessionID ContextKey = "session_id"

	// ContextKeyAppState is the key for the session's AppState snapshot
	ContextKeyAppState ContextKey = "app_state"

	// ContextKeyUpstreamCookies is the key for cookies forwarded to the key API
	ContextKeyUpstreamCookies ContextKey = "upstream_cookies"
)
