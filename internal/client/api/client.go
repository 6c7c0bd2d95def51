// Package api implements the REST client for the reddit backend: the
// rest-auth authentication endpoints and the /api/v1 content endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atinyakov/reddish/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the backend over the credentialed HTTP client built by
// the transport package. All methods take a context and return either a
// decoded record, an *Error for structured rejections, or a wrapped
// transport error.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New constructs a Client. httpClient and log may be nil.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// do issues a single JSON request. payload and out may be nil. Non-2xx
// responses are decoded into *Error.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := decodeError(resp)
		c.log.Debug("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login authenticates with email and password and returns the bearer
// credential issued by the backend.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	var out struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/rest-auth/login/", payload, &out); err != nil {
		return "", err
	}
	return out.Key, nil
}

// Registration is the payload for account creation. Password confirmation
// matching is validated by the server.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// Register creates a new account. Registration does not authenticate;
// the caller is expected to log in afterwards.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, http.MethodPost, "/rest-auth/registration/", reg, nil)
}

// Logout asks the server to invalidate the session. Callers clear local
// state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/rest-auth/logout/", map[string]string{}, nil)
}

// AuthUser fetches the currently authenticated user.
func (c *Client) AuthUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/rest-auth/user/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByUsername fetches a public profile.
func (c *Client) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	path := "/api/v1/users/" + url.PathEscape(username) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// userScoped fetches one of the user collections
// (/api/v1/users/{username}/{resource}/).
func (c *Client) userScoped(ctx context.Context, username, resource string, out any) error {
	path := "/api/v1/users/" + url.PathEscape(username) + "/" + resource + "/"
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Invitations lists groups the user has been invited to.
func (c *Client) Invitations(ctx context.Context, username string) ([]models.Group, error) {
	var groups []models.Group
	err := c.userScoped(ctx, username, "invitations", &groups)
	return groups, err
}

// RequestedGroups lists groups the user has asked to join.
func (c *Client) RequestedGroups(ctx context.Context, username string) ([]models.Group, error) {
	var groups []models.Group
	err := c.userScoped(ctx, username, "requested_groups", &groups)
	return groups, err
}

// UserInvites lists invites issued by the user.
func (c *Client) UserInvites(ctx context.Context, username string) ([]models.Group, error) {
	var groups []models.Group
	err := c.userScoped(ctx, username, "user_invites", &groups)
	return groups, err
}

// Upvotes lists posts the user has upvoted.
func (c *Client) Upvotes(ctx context.Context, username string) ([]models.Post, error) {
	var posts []models.Post
	err := c.userScoped(ctx, username, "user_upvotes", &posts)
	return posts, err
}

// Downvotes lists posts the user has downvoted.
func (c *Client) Downvotes(ctx context.Context, username string) ([]models.Post, error) {
	var posts []models.Post
	err := c.userScoped(ctx, username, "user_downvotes", &posts)
	return posts, err
}

// Bookmarks lists posts the user has bookmarked.
func (c *Client) Bookmarks(ctx context.Context, username string) ([]models.Post, error) {
	var posts []models.Post
	err := c.userScoped(ctx, username, "bookmarks", &posts)
	return posts, err
}

// PostPayload is the create/update body for posts. Author is the owning
// user's ID; Group is nil for ungrouped posts.
type PostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  int64  `json:"author"`
	Group   *int64 `json:"group"`
}

// CreatePost submits a new post and returns the created record.
func (c *Client) CreatePost(ctx context.Context, payload PostPayload) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts/", payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces an existing post identified by its UUID.
func (c *Client) UpdatePost(ctx context.Context, postUUID string, payload PostPayload) (*models.Post, error) {
	if err := validatePostID(postUUID); err != nil {
		return nil, err
	}
	var post models.Post
	if err := c.do(ctx, http.MethodPut, "/api/v1/posts/"+postUUID+"/", payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Post fetches a single post by UUID.
func (c *Client) Post(ctx context.Context, postUUID string) (*models.Post, error) {
	if err := validatePostID(postUUID); err != nil {
		return nil, err
	}
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+postUUID+"/", nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// SearchPosts queries posts matching the given term.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	var posts []models.Post
	path := "/api/v1/posts/?search=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CommentPayload is the create/update body for comments. ID is set only
// on updates; Parent only for nested replies.
type CommentPayload struct {
	ID                 *int64  `json:"id"`
	Comment            string  `json:"comment"`
	User               int64   `json:"user"`
	MentionedUsers     []int64 `json:"mentioned_users"`
	IsNestingPermitted bool    `json:"is_nesting_permitted"`
	Parent             *int64  `json:"parent,omitempty"`
}

// CreateComment attaches a new comment to the post with the given UUID.
func (c *Client) CreateComment(ctx context.Context, postUUID string, payload CommentPayload) (*models.Comment, error) {
	if err := validatePostID(postUUID); err != nil {
		return nil, err
	}
	var comment models.Comment
	path := "/api/v1/posts/" + postUUID + "/comments/"
	if err := c.do(ctx, http.MethodPost, path, payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces an existing comment on the given post.
func (c *Client) UpdateComment(ctx context.Context, postUUID string, commentID int64, payload CommentPayload) (*models.Comment, error) {
	if err := validatePostID(postUUID); err != nil {
		return nil, err
	}
	var comment models.Comment
	path := fmt.Sprintf("/api/v1/posts/%s/comments/%d/", postUUID, commentID)
	if err := c.do(ctx, http.MethodPut, path, payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GroupPayload is the create body for groups.
type GroupPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       int64  `json:"owner"`
}

// CreateGroup submits a new group and returns the created record.
func (c *Client) CreateGroup(ctx context.Context, payload GroupPayload) (*models.Group, error) {
	var group models.Group
	if err := c.do(ctx, http.MethodPost, "/api/v1/groups/", payload, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// validatePostID rejects malformed post identifiers before they are
// interpolated into record-scoped URLs.
func validatePostID(postUUID string) error {
	if _, err := uuid.Parse(postUUID); err != nil {
		return fmt.Errorf("invalid post id %q: %w", postUUID, err)
	}
	return nil
}
