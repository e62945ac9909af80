package constants

// ContextKeyUserID is the key used to store the authenticated user ID in both
// the session and the gin context.
const ContextKeyUserID = "user_id"

// Context keys for entities preloaded by middleware.
const (
	ContextKeyOrganization = "organization"
	ContextKeyOrgMember    = "organization_member"
	ContextKeyCommunity    = "community"
)

// Pagination bounds.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SessionName is the cookie name for the platform session.
const SessionName = "community_session"
