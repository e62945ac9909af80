package repository

import (
	"time"

	"community-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// UpdateAppRole changes a user's application-wide role
	UpdateAppRole(id uint64, role models.AppRole) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// CreateWithAdmin creates an organization and its first admin member
	// within a single transaction.
	CreateWithAdmin(org *models.Organization, member *models.OrgMember) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// AddMember adds a member to an organization and stamps the user's org id
	AddMember(member *models.OrgMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(orgID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(orgID, userID uint64) (*models.OrgMember, error)

	// ListMembers lists all members of an organization
	ListMembers(orgID uint64) ([]models.OrgMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrgMember, error)
}

// CommunityRepository defines the interface for community, membership,
// request, and invite data access
type CommunityRepository interface {
	// CreateWithAdmin creates a community and its creator's admin membership
	// within a single transaction.
	CreateWithAdmin(community *models.Community, member *models.CommunityMember) error

	// FindByID finds a community by ID
	FindByID(id uint64) (*models.Community, error)

	// FindBySlug finds a community by slug
	FindBySlug(slug string) (*models.Community, error)

	// ListByOrg lists the communities of one organization
	ListByOrg(orgID uint64) ([]models.Community, error)

	// Update updates a community
	Update(community *models.Community) error

	// UpsertMember creates or updates the membership row for (community, user)
	UpsertMember(member *models.CommunityMember) error

	// AddMembersIdempotent bulk-inserts member rows, silently skipping pairs
	// that already have one. Returns the number of rows actually inserted.
	AddMembersIdempotent(members []models.CommunityMember) (int64, error)

	// FindMember finds a specific community member
	FindMember(communityID, userID uint64) (*models.CommunityMember, error)

	// ListMembers lists all members of a community
	ListMembers(communityID uint64) ([]models.CommunityMember, error)

	// RemoveMember deletes the membership row
	RemoveMember(communityID, userID uint64) error

	// UpdateMemberRole changes a member's community role
	UpdateMemberRole(communityID, userID uint64, role models.CommunityRole) error

	// CreateRequest creates a join/follow request
	CreateRequest(req *models.CommunityMemberRequest) error

	// FindRequestByID finds a request by ID
	FindRequestByID(id uint64) (*models.CommunityMemberRequest, error)

	// FindPendingRequest finds the pending request of one type for a
	// (community, user) pair, if any
	FindPendingRequest(communityID, userID uint64, reqType models.RequestType) (*models.CommunityMemberRequest, error)

	// ListPendingRequests lists a community's pending requests
	ListPendingRequests(communityID uint64) ([]models.CommunityMemberRequest, error)

	// ReviewRequest stamps the request's review fields and, when member is
	// non-nil, materializes the membership row in the same transaction.
	ReviewRequest(req *models.CommunityMemberRequest, member *models.CommunityMember) error

	// CreateInvite creates a community invite
	CreateInvite(invite *models.CommunityInvite) error

	// FindInviteByCode finds an invite by code
	FindInviteByCode(code string) (*models.CommunityInvite, error)

	// ConsumeInvite stamps the invite used and materializes the membership
	// row in one transaction.
	ConsumeInvite(invite *models.CommunityInvite, usedBy uint64, usedAt time.Time, member *models.CommunityMember) error
}

// PostRepository defines the interface for post/comment/reaction data access
type PostRepository interface {
	// Create creates a new post
	Create(post *models.Post) error

	// FindByID finds a post by ID, comments included
	FindByID(id uint64) (*models.Post, error)

	// ListByCommunity lists a community's posts, newest first
	ListByCommunity(communityID uint64, offset, limit int) ([]models.Post, int64, error)

	// MarkDeleted soft-deletes a post via the IsDeleted flag; the comment
	// thread survives
	MarkDeleted(id uint64) error

	// SetPinned pins or unpins a post
	SetPinned(id uint64, pinned bool) error

	// CreateComment creates a comment
	CreateComment(comment *models.Comment) error

	// FindReaction finds a user's reaction of one kind on a post
	FindReaction(postID, userID uint64, kind string) (*models.Reaction, error)

	// CreateReaction adds a reaction
	CreateReaction(reaction *models.Reaction) error

	// DeleteReaction removes a reaction
	DeleteReaction(postID, userID uint64, kind string) error
}

// NotificationRepository defines the interface for in-app notifications
type NotificationRepository interface {
	// Create creates a notification
	Create(n *models.Notification) error

	// ListByUser lists a user's notifications, newest first
	ListByUser(userID uint64, offset, limit int) ([]models.Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(userID uint64) (int64, error)

	// MarkAllRead stamps every unread notification for the user
	MarkAllRead(userID uint64, at time.Time) error
}

// MessageRepository defines the interface for direct messages
type MessageRepository interface {
	// FindOrCreateConversation returns the conversation for an unordered
	// user pair, creating it when absent
	FindOrCreateConversation(userA, userB uint64) (*models.Conversation, error)

	// CreateMessage appends a message to a conversation
	CreateMessage(msg *models.Message) error

	// ListMessages lists a conversation's messages, oldest first
	ListMessages(conversationID uint64, offset, limit int) ([]models.Message, error)

	// ListConversations lists the conversations a user participates in
	ListConversations(userID uint64) ([]models.Conversation, error)
}
