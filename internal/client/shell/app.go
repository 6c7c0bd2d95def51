// Package shell implements the interactive terminal shell: top-level
// navigation state, the logout path, and the command loop that wires the
// authentication and content flows together.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/reddish/internal/client/flows"
	"github.com/atinyakov/reddish/internal/client/session"
	"github.com/atinyakov/reddish/internal/models"
	"go.uber.org/zap"
)

// API is the backend surface the shell needs. *api.Client satisfies it.
type API interface {
	flows.AuthAPI
	flows.ContentAPI

	Logout(ctx context.Context) error
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	Post(ctx context.Context, postUUID string) (*models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	Invitations(ctx context.Context, username string) ([]models.Group, error)
	RequestedGroups(ctx context.Context, username string) ([]models.Group, error)
	UserInvites(ctx context.Context, username string) ([]models.Group, error)
	Upvotes(ctx context.Context, username string) ([]models.Post, error)
	Downvotes(ctx context.Context, username string) ([]models.Post, error)
	Bookmarks(ctx context.Context, username string) ([]models.Post, error)
}

// Store is the slice of local storage the shell clears on logout.
// *storage.LocalStorage satisfies it.
type Store interface {
	RemoveUser() error
	RemoveToken() error
}

// App owns the navigation-derived UI state and dispatches commands. The
// authRoute flag mirrors whether the current view is an authentication
// view; it suppresses the chrome reserved for authenticated views.
type App struct {
	api     API
	session *session.Session
	store   Store
	log     *zap.Logger

	signIn  *flows.SignIn
	signUp  *flows.SignUp
	content *flows.Content

	path      string
	authRoute bool
	user      *models.User

	reader *bufio.Reader
	out    io.Writer
}

// New constructs the shell and its flows. tokens is the credential sink
// handed to the sign-in flow; log may be nil.
func New(backend API, sess *session.Session, store Store, tokens flows.TokenStore, log *zap.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		api:     backend,
		session: sess,
		store:   store,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
	}
	app.signIn = flows.NewSignIn(backend, tokens, sess, app, app, log)
	app.signUp = flows.NewSignUp(backend, app, app, log)
	app.content = flows.NewContent(backend, sess, app, log)
	return app
}

// Notify prints a transient user-facing message.
func (a *App) Notify(message string) {
	fmt.Fprintln(a.out, message)
}

// IsAuthRoute reports whether the path identifies an authentication view
// (sign-in, sign-up, or logout fragment).
func IsAuthRoute(path string) bool {
	return strings.Contains(path, "sign-in") ||
		strings.Contains(path, "sign-up") ||
		strings.Contains(path, "logout")
}

// NavigateTo records the new path and re-evaluates the auth-route flag.
// Leaving an auth route refreshes the session, which is how a freshly
// logged-in user's identity propagates into the shell without a restart.
func (a *App) NavigateTo(path string) {
	wasAuth := a.authRoute
	a.path = path
	a.authRoute = IsAuthRoute(path)

	if wasAuth && !a.authRoute {
		a.session.Resolve(context.Background(), func(u *models.User) {
			a.user = u
		})
	}
}

// Path returns the current navigation path.
func (a *App) Path() string { return a.path }

// AuthRoute reports whether the current view is an authentication view.
func (a *App) AuthRoute() bool { return a.authRoute }

// CurrentUser returns the shell's view of the signed-in user, falling
// back to the session when the shell has not observed one yet.
func (a *App) CurrentUser() *models.User {
	if a.user != nil {
		return a.user
	}
	return a.session.Current()
}

// Logout asks the server to invalidate the session, then clears the
// cached user, the persisted credential, and the in-memory session
// regardless of the server's answer, and navigates to the sign-in view.
func (a *App) Logout(ctx context.Context) {
	a.NavigateTo("logout")

	if err := a.api.Logout(ctx); err != nil {
		a.log.Warn("logout request failed", zap.Error(err))
	}
	if err := a.store.RemoveUser(); err != nil {
		a.log.Warn("failed to remove cached user", zap.Error(err))
	}
	if err := a.store.RemoveToken(); err != nil {
		a.log.Warn("failed to remove credential", zap.Error(err))
	}
	a.session.Clear()
	a.user = nil

	a.NavigateTo("sign-in")
	a.Notify("Logged out")
}
