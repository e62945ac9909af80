package permissions

import (
	"errors"
	"fmt"

	"community-api/internal/models"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// CommunityRoleRecord is one community membership in a snapshot, annotated
// with the owning organization of that community.
type CommunityRoleRecord struct {
	CommunityID uint64
	Role        models.CommunityRole
	OrgID       *uint64
}

// Snapshot is the per-request view of a user's roles across all three
// scopes. It is immutable once built and must be rebuilt for each logical
// request: role membership can change between calls, so snapshots are never
// cached.
type Snapshot struct {
	user           models.User
	orgRole        models.OrgRole
	communityRoles map[uint64]CommunityRoleRecord
}

// Resolve loads a user's app role, org role, and all community roles in one
// pass. Returns ErrUserNotFound when the user id does not resolve to a row.
func Resolve(db *gorm.DB, userID uint64) (*Snapshot, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	snap := &Snapshot{
		user:           user,
		communityRoles: make(map[uint64]CommunityRoleRecord),
	}

	if user.OrgID != nil {
		var member models.OrgMember
		err := db.Where("org_id = ? AND user_id = ?", *user.OrgID, userID).First(&member).Error
		switch {
		case err == nil:
			snap.orgRole = member.Role
		case errors.Is(err, gorm.ErrRecordNotFound):
			snap.orgRole = models.OrgRoleUser
		default:
			return nil, fmt.Errorf("failed to load org membership: %w", err)
		}
		// An app admin who belongs to an org is treated as that org's admin.
		if user.AppRole == models.AppRoleAdmin {
			snap.orgRole = models.OrgRoleAdmin
		}
	}

	var rows []CommunityRoleRecord
	err := db.Table("community_members").
		Select("community_members.community_id AS community_id, community_members.role AS role, communities.org_id AS org_id").
		Joins("JOIN communities ON communities.id = community_members.community_id AND communities.deleted_at IS NULL").
		Where("community_members.user_id = ? AND community_members.status = ?", userID, models.MemberStatusActive).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load community roles: %w", err)
	}
	for _, rec := range rows {
		snap.communityRoles[rec.CommunityID] = rec
	}

	return snap, nil
}

// IsAppAdmin reports whether the user's app role carries the wildcard for
// app scope.
func (s *Snapshot) IsAppAdmin() bool {
	set := RolePermissions(ScopeApp, string(s.user.AppRole))
	_, ok := set[ActionAll]
	return ok
}

// CheckAppPermission checks an app-scope action for the loaded user.
func (s *Snapshot) CheckAppPermission(action Action) bool {
	if s.IsAppAdmin() {
		return true
	}
	return HasPermission(ScopeApp, string(s.user.AppRole), action)
}

// CheckOrgPermission checks an org-scope action. App admins always pass.
func (s *Snapshot) CheckOrgPermission(action Action) bool {
	if s.IsAppAdmin() {
		return true
	}
	return HasPermission(ScopeOrg, string(s.orgRole), action)
}

// CheckCommunityPermission checks an action against one community. A zero
// community id is a programming error at the call site, not a business
// failure, and panics.
func (s *Snapshot) CheckCommunityPermission(communityID uint64, action Action) bool {
	return s.CommunityPermissions(communityID).Contains(action)
}

// CommunityPermissions returns the effective action set for one community.
//
// Resolution order: app admin gets the wildcard outright. A user holding a
// role in the community gets that role's set unioned with their org role's
// set; when the user is admin of the org that owns the community, the
// community role is upgraded to admin before the union. A user with no role
// record gets the empty set, which callers treat as the normal
// no-access-in-this-scope case rather than an error.
func (s *Snapshot) CommunityPermissions(communityID uint64) Set {
	if communityID == 0 {
		panic("permissions: community id is required for a community-scope check")
	}
	if s.IsAppAdmin() {
		return newSet(ActionAll)
	}

	rec, ok := s.communityRoles[communityID]
	if !ok {
		return Set{}
	}

	communityRole := rec.Role
	if s.orgRole == models.OrgRoleAdmin && s.sameOrg(rec.OrgID) {
		communityRole = models.CommunityRoleAdmin
	}

	union := Set{}
	for a := range RolePermissions(ScopeCommunity, string(communityRole)) {
		union[a] = struct{}{}
	}
	for a := range RolePermissions(ScopeOrg, string(s.orgRole)) {
		union[a] = struct{}{}
	}
	return union
}

// sameOrg reports whether the community's owning org matches the user's org.
// Org-admin override never crosses organization boundaries.
func (s *Snapshot) sameOrg(communityOrgID *uint64) bool {
	return communityOrgID != nil && s.user.OrgID != nil && *communityOrgID == *s.user.OrgID
}

// AppRole returns the user's application-wide role.
func (s *Snapshot) AppRole() models.AppRole {
	return s.user.AppRole
}

// OrgRole returns the user's role within their organization; empty when the
// user belongs to no org.
func (s *Snapshot) OrgRole() models.OrgRole {
	return s.orgRole
}

// CommunityRole returns the user's role in one community, if any.
func (s *Snapshot) CommunityRole(communityID uint64) (models.CommunityRole, bool) {
	rec, ok := s.communityRoles[communityID]
	if !ok {
		return "", false
	}
	return rec.Role, true
}

// HasCommunityRole reports whether the user holds any role in the community.
func (s *Snapshot) HasCommunityRole(communityID uint64) bool {
	_, ok := s.communityRoles[communityID]
	return ok
}

// CommunityRoles returns every community role the user holds.
func (s *Snapshot) CommunityRoles() []CommunityRoleRecord {
	out := make([]CommunityRoleRecord, 0, len(s.communityRoles))
	for _, rec := range s.communityRoles {
		out = append(out, rec)
	}
	return out
}

// User returns the loaded user row.
func (s *Snapshot) User() models.User {
	return s.user
}
