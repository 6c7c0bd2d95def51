// Package models defines the data structures exchanged with the reddit backend.
package models

// User represents an account as returned by /rest-auth/user/ and the
// public profile endpoints.
type User struct {
	// ID is the numeric identifier assigned by the backend.
	ID int64 `json:"id"`
	// Username is the unique handle of the user.
	Username string `json:"username"`
	// Email is the address the user signed up with.
	Email string `json:"email"`
	// FirstName and LastName come from the registration form.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// Bio is the optional profile description.
	Bio string `json:"bio,omitempty"`
	// Avatar is the URL of the profile picture, if set.
	Avatar string `json:"avatar,omitempty"`
	// Karma is the aggregate vote score of the user's content.
	Karma int64 `json:"karma,omitempty"`
}

// Post is a top-level submission. Posts are addressed by UUID in the API,
// the numeric ID is internal to the backend.
type Post struct {
	ID      int64  `json:"id"`
	UUID    string `json:"uuid"`
	Title   string `json:"title"`
	Content string `json:"content"`
	// Author is the user ID of the post owner.
	Author int64 `json:"author"`
	// Group is the containing group ID, nil for ungrouped posts.
	Group   *int64 `json:"group"`
	Created string `json:"created,omitempty"`
}

// Comment is a reply attached to a post, optionally nested under a parent
// comment.
type Comment struct {
	ID      int64  `json:"id"`
	Comment string `json:"comment"`
	// User is the user ID of the comment author.
	User int64 `json:"user"`
	// MentionedUsers holds the IDs of users referenced in the body.
	MentionedUsers     []int64 `json:"mentioned_users,omitempty"`
	IsNestingPermitted bool    `json:"is_nesting_permitted"`
	// Parent is the enclosing comment ID for nested replies.
	Parent  *int64 `json:"parent,omitempty"`
	Created string `json:"created,omitempty"`
}

// Group is a community that posts can be filed under.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Owner is the user ID of the group creator.
	Owner int64 `json:"owner,omitempty"`
}
