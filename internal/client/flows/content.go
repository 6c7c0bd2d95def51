package flows

import (
	"context"

	"github.com/atinyakov/reddish/internal/client/api"
	"github.com/atinyakov/reddish/internal/client/forms"
	"github.com/atinyakov/reddish/internal/models"
	"go.uber.org/zap"
)

// ContentAPI is the content-mutation surface the flows need. *api.Client
// satisfies it.
type ContentAPI interface {
	CreatePost(ctx context.Context, payload api.PostPayload) (*models.Post, error)
	UpdatePost(ctx context.Context, postUUID string, payload api.PostPayload) (*models.Post, error)
	CreateComment(ctx context.Context, postUUID string, payload api.CommentPayload) (*models.Comment, error)
	UpdateComment(ctx context.Context, postUUID string, commentID int64, payload api.CommentPayload) (*models.Comment, error)
	CreateGroup(ctx context.Context, payload api.GroupPayload) (*models.Group, error)
}

// CurrentUserSource yields the session's current user.
type CurrentUserSource interface {
	Current() *models.User
}

// Content glues validated drafts to the content endpoints, embedding the
// session user as author/owner. Created and updated records are returned
// to the caller; only top-level post creation navigates, to the new
// record's detail view.
type Content struct {
	api     ContentAPI
	session CurrentUserSource
	nav     Navigator
	log     *zap.Logger
}

// NewContent constructs the content flows. log may be nil.
func NewContent(api ContentAPI, session CurrentUserSource, nav Navigator, log *zap.Logger) *Content {
	if log == nil {
		log = zap.NewNop()
	}
	return &Content{api: api, session: session, nav: nav, log: log}
}

// CreatePost submits a new post with the current user as author and an
// optional group, then navigates to the created record's view.
func (c *Content) CreatePost(ctx context.Context, form forms.Post, group *int64) (*models.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	user := c.session.Current()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	post, err := c.api.CreatePost(ctx, api.PostPayload{
		Title:   form.Title,
		Content: form.Content,
		Author:  user.ID,
		Group:   group,
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("post created", zap.String("uuid", post.UUID))
	c.nav.NavigateTo(post.UUID)
	return post, nil
}

// UpdatePost replaces an existing post, keeping the current user as
// author. The updated record is returned to the caller.
func (c *Content) UpdatePost(ctx context.Context, postUUID string, form forms.Post, group *int64) (*models.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	user := c.session.Current()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	return c.api.UpdatePost(ctx, postUUID, api.PostPayload{
		Title:   form.Title,
		Content: form.Content,
		Author:  user.ID,
		Group:   group,
	})
}

// SubmitComment creates a comment on the given post, or updates existing
// when non-nil. Mentions are resolved to identifiers here, at submission
// time, and only for new comments.
func (c *Content) SubmitComment(ctx context.Context, postUUID string, form forms.Comment, existing *models.Comment) (*models.Comment, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	user := c.session.Current()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	payload := api.CommentPayload{
		Comment:            form.Body,
		User:               user.ID,
		IsNestingPermitted: form.Nested,
		Parent:             form.Parent,
	}

	if existing == nil {
		payload.MentionedUsers = form.MentionIDs()
		return c.api.CreateComment(ctx, postUUID, payload)
	}

	payload.ID = &existing.ID
	return c.api.UpdateComment(ctx, postUUID, existing.ID, payload)
}

// CreateGroup submits a new group owned by the current user. The created
// record is returned to the caller.
func (c *Content) CreateGroup(ctx context.Context, form forms.Group) (*models.Group, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	user := c.session.Current()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	return c.api.CreateGroup(ctx, api.GroupPayload{
		Name:        form.Name,
		Description: form.Description,
		Owner:       user.ID,
	})
}
