// Package forms validates content drafts client-side. An invalid draft
// blocks submission entirely: no network call is made for it.
package forms

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/atinyakov/reddish/internal/models"
)

// Comment body length bounds enforced before submission.
const (
	CommentMinLen = 2
	CommentMaxLen = 2000
)

// ValidationError collects per-field validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// validation accumulates field checks.
type validation struct {
	fields map[string]string
}

func newValidation() *validation {
	return &validation{fields: map[string]string{}}
}

func (v *validation) require(name, value string) {
	if _, seen := v.fields[name]; seen {
		return
	}
	if strings.TrimSpace(value) == "" {
		v.fields[name] = "required"
	}
}

func (v *validation) email(name, value string) {
	if _, seen := v.fields[name]; seen {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.fields[name] = "must be a valid email address"
	}
}

func (v *validation) length(name, value string, min, max int) {
	if _, seen := v.fields[name]; seen {
		return
	}
	n := utf8.RuneCountInString(value)
	if n < min {
		v.fields[name] = fmt.Sprintf("must be at least %d characters", min)
	} else if n > max {
		v.fields[name] = fmt.Sprintf("must be at most %d characters", max)
	}
}

func (v *validation) result() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// SignIn is the login draft.
type SignIn struct {
	Email    string
	Password string
}

// Validate checks that the email is present and well-formed and the
// password is present.
func (f *SignIn) Validate() error {
	v := newValidation()
	v.require("email", f.Email)
	v.email("email", f.Email)
	v.require("password", f.Password)
	return v.result()
}

// SignUp is the registration draft. Password confirmation matching is
// left to the server.
type SignUp struct {
	FirstName string
	LastName  string
	Email     string
	Password1 string
	Password2 string
}

// Validate checks that all fields are present and the email is well-formed.
func (f *SignUp) Validate() error {
	v := newValidation()
	v.require("first_name", f.FirstName)
	v.require("last_name", f.LastName)
	v.require("email", f.Email)
	v.email("email", f.Email)
	v.require("password1", f.Password1)
	v.require("password2", f.Password2)
	return v.result()
}

// Reset clears the draft after a successful registration.
func (f *SignUp) Reset() {
	*f = SignUp{}
}

// Post is the post create-or-edit draft.
type Post struct {
	Title   string
	Content string
}

// Validate checks that title and content are present.
func (f *Post) Validate() error {
	v := newValidation()
	v.require("title", f.Title)
	v.require("content", f.Content)
	return v.result()
}

// Comment is the comment create-or-edit draft. Mentions are held as user
// records and resolved to identifiers only at submission time.
type Comment struct {
	Body     string
	Mentions []models.User
	// Parent is the enclosing comment ID for nested replies.
	Parent *int64
	// Nested marks whether replies under this comment are permitted.
	Nested bool
}

// Validate checks that the body is present and within length bounds.
func (f *Comment) Validate() error {
	v := newValidation()
	v.require("comment", f.Body)
	v.length("comment", f.Body, CommentMinLen, CommentMaxLen)
	return v.result()
}

// MentionIDs resolves the mention list to user identifiers.
func (f *Comment) MentionIDs() []int64 {
	ids := make([]int64, 0, len(f.Mentions))
	for _, u := range f.Mentions {
		ids = append(ids, u.ID)
	}
	return ids
}

// Group is the group creation draft.
type Group struct {
	Name        string
	Description string
}

// Validate checks that the name is present.
func (f *Group) Validate() error {
	v := newValidation()
	v.require("name", f.Name)
	return v.result()
}
