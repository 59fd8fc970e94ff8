package domain

// Aura actions form the closed set of events that can move a wallet's points.
const (
	ActionPostCreated     = "post_created"
	ActionLikeReceived    = "like_received"
	ActionCommentMade     = "comment_made"
	ActionCommentReceived = "comment_received"
	ActionFollowerGained  = "follower_gained"
	ActionPostShared      = "post_shared"
	ActionFollowGiven     = "follow_given"
)

// DefaultGrant is the starting balance for a wallet never seen by any store.
const DefaultGrant = 100

// PointSchedule maps each aura action to the points it awards.
var PointSchedule = map[string]int64{
	ActionPostCreated:     50,
	ActionLikeReceived:    5,
	ActionCommentMade:     10,
	ActionCommentReceived: 15,
	ActionFollowerGained:  20,
	ActionPostShared:      25,
	ActionFollowGiven:     10,
}

// ValidAction reports whether s is one of the aura actions.
func ValidAction(s string) bool {
	_, ok := PointSchedule[s]
	return ok
}

const (
	NotifTypeLike    = "like"
	NotifTypeComment = "comment"
	NotifTypeFollow  = "follow"
	NotifTypeShare   = "share"
	NotifTypeMention = "mention"
	NotifTypeSystem  = "system"
)

// Pub/sub channels and event types for the realtime refresh protocol.
const (
	ChannelPosts         = "posts"
	ChannelNotifications = "notifications"

	EventNew     = "new"
	EventUpdated = "updated"
)
