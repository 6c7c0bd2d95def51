package flows

import (
	"context"
	"errors"

	"github.com/atinyakov/reddish/internal/client/api"
	"github.com/atinyakov/reddish/internal/client/forms"
	"github.com/atinyakov/reddish/internal/models"
	"go.uber.org/zap"
)

// AuthAPI is the authentication surface the flows need. *api.Client
// satisfies it.
type AuthAPI interface {
	// Login authenticates and returns the bearer credential.
	Login(ctx context.Context, email, password string) (string, error)
	// Register creates a new account.
	Register(ctx context.Context, reg api.Registration) error
}

// TokenStore persists the bearer credential. *storage.LocalStorage
// satisfies it.
type TokenStore interface {
	StoreToken(token string) error
}

// SessionResolver refreshes the current-user state after authentication.
type SessionResolver interface {
	Resolve(ctx context.Context, cb func(*models.User))
}

// SignIn runs the login flow: Idle -> Submitting -> {Success, Failure},
// returning to Idle either way. No retry is automatic.
type SignIn struct {
	api     AuthAPI
	tokens  TokenStore
	session SessionResolver
	nav     Navigator
	notify  Notifier
	log     *zap.Logger

	state State
}

// NewSignIn constructs the sign-in flow. log may be nil.
func NewSignIn(api AuthAPI, tokens TokenStore, session SessionResolver, nav Navigator, notify Notifier, log *zap.Logger) *SignIn {
	if log == nil {
		log = zap.NewNop()
	}
	return &SignIn{
		api: api, tokens: tokens, session: session,
		nav: nav, notify: notify, log: log,
		state: StateIdle,
	}
}

// State returns the current flow state.
func (f *SignIn) State() State { return f.state }

// Submit validates the draft and, if valid, authenticates. On success the
// returned credential is persisted, the session is resolved so the full
// user record propagates, and the shell navigates to the root view. On
// failure a single notification is surfaced and the session stays as it
// was.
func (f *SignIn) Submit(ctx context.Context, form forms.SignIn) {
	if err := form.Validate(); err != nil {
		f.notify.Notify(msgFillRequired)
		return
	}

	f.state = StateSubmitting
	defer func() { f.state = StateIdle }()

	key, err := f.api.Login(ctx, form.Email, form.Password)
	if err != nil {
		f.notify.Notify(loginFailureMessage(err))
		return
	}

	if key != "" {
		if err := f.tokens.StoreToken(key); err != nil {
			f.log.Warn("failed to persist credential", zap.Error(err))
		}
	}

	f.session.Resolve(ctx, func(u *models.User) {
		if u != nil {
			f.log.Info("signed in", zap.String("username", u.Username))
		}
	})

	f.notify.Notify(msgLoginOK)
	f.nav.NavigateTo("")
}

// loginFailureMessage picks the user-facing message for a failed login.
// Precedence: non-field error, then the email field error, then the
// generic fallback; transport failures get the network message.
func loginFailureMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return msgNetworkError
	}
	if msg := apiErr.FirstNonField(); msg != "" {
		return msg
	}
	if msg := apiErr.Field("email"); msg != "" {
		return msg
	}
	return msgLoginFailed
}

// SignUp runs the registration flow. Registration does not authenticate:
// on success the draft is reset and the shell navigates to sign-in.
type SignUp struct {
	api    AuthAPI
	nav    Navigator
	notify Notifier
	log    *zap.Logger

	state State
}

// NewSignUp constructs the sign-up flow. log may be nil.
func NewSignUp(api AuthAPI, nav Navigator, notify Notifier, log *zap.Logger) *SignUp {
	if log == nil {
		log = zap.NewNop()
	}
	return &SignUp{api: api, nav: nav, notify: notify, log: log, state: StateIdle}
}

// State returns the current flow state.
func (f *SignUp) State() State { return f.state }

// Submit validates the draft and, if valid, creates the account.
func (f *SignUp) Submit(ctx context.Context, form *forms.SignUp) {
	if err := form.Validate(); err != nil {
		f.notify.Notify(msgFillRequired)
		return
	}

	f.state = StateSubmitting
	defer func() { f.state = StateIdle }()

	err := f.api.Register(ctx, api.Registration{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password1: form.Password1,
		Password2: form.Password2,
	})
	if err != nil {
		f.notify.Notify(registrationFailureMessage(err))
		return
	}

	form.Reset()
	f.notify.Notify(msgRegisteredOK)
	f.nav.NavigateTo("sign-in")
}

// registrationFailureMessage picks the user-facing message for a failed
// registration. Precedence: the password1 field error (which carries the
// server's confirmation-mismatch message), then email, then non-field
// errors, then the generic fallback; transport failures get the network
// message.
func registrationFailureMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return msgNetworkError
	}
	if msg := apiErr.Field("password1"); msg != "" {
		return msg
	}
	if msg := apiErr.Field("email"); msg != "" {
		return msg
	}
	if msg := apiErr.FirstNonField(); msg != "" {
		return msg
	}
	return msgRegisterFailed
}
