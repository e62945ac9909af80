package permissions

import "community-api/internal/models"

// roleRank orders community roles. Rank comparisons live here and nowhere
// else so the "same-or-higher-rank" exclusion is defined exactly once.
var roleRank = map[models.CommunityRole]int{
	models.CommunityRoleMember:    1,
	models.CommunityRoleModerator: 2,
	models.CommunityRoleAdmin:     3,
}

// Rank returns the numeric rank of a community role; unknown roles rank 0.
func Rank(role models.CommunityRole) int {
	return roleRank[role]
}

// MeetsMinRole reports whether role is at least min in the community role
// order (member < moderator < admin).
func MeetsMinRole(role, min models.CommunityRole) bool {
	return Rank(role) >= Rank(min)
}

// CanManageMember reports whether an actor with the given community role may
// manage (promote, demote, kick) a target with the given role. Moderators
// manage plain members only; admins manage members and moderators; no one
// manages an equal-or-higher rank through this path.
func CanManageMember(actor, target models.CommunityRole) bool {
	if Rank(actor) < roleRank[models.CommunityRoleModerator] {
		return false
	}
	return Rank(actor) > Rank(target)
}

// CanKickMember applies CanManageMember plus creator protection: the
// community creator can only be removed or demoted by an app admin.
func CanKickMember(actor, target models.CommunityRole, targetIsCreator, actorIsAppAdmin bool) bool {
	if actorIsAppAdmin {
		return true
	}
	if targetIsCreator {
		return false
	}
	return CanManageMember(actor, target)
}
