package models

import "time"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsOnline bool   `json:"isOnline"`
}

// Message is one entry in a conversation. Optimistic entries carry a locally
// generated temporary id until the server echo supersedes them with the
// authoritative record.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	Delivered  bool      `json:"delivered"`
	Seen       bool      `json:"seen"`
	Optimistic bool      `json:"optimistic,omitempty"`
}

type GroupMemberRole string

const (
	GroupRoleAdmin  GroupMemberRole = "admin"
	GroupRoleMember GroupMemberRole = "member"
)

type GroupMember struct {
	UserID   string          `json:"userId"`
	Role     GroupMemberRole `json:"role"`
	JoinedAt time.Time       `json:"joinedAt"`
	User     *User           `json:"user,omitempty"`
}

type Group struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CreatorID   string        `json:"creatorId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	Members     []GroupMember `json:"members,omitempty"`
}
