package flows

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/atinyakov/reddish/internal/client/api"
	"github.com/atinyakov/reddish/internal/client/forms"
	"github.com/atinyakov/reddish/internal/client/session"
	"github.com/atinyakov/reddish/internal/models"
)

type fakeAuthAPI struct {
	LoginFunc    func(ctx context.Context, email, password string) (string, error)
	RegisterFunc func(ctx context.Context, reg api.Registration) error
	loginCalls   int
	regCalls     int
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (string, error) {
	f.loginCalls++
	return f.LoginFunc(ctx, email, password)
}

func (f *fakeAuthAPI) Register(ctx context.Context, reg api.Registration) error {
	f.regCalls++
	return f.RegisterFunc(ctx, reg)
}

type recorder struct {
	messages []string
	paths    []string
}

func (r *recorder) Notify(message string)  { r.messages = append(r.messages, message) }
func (r *recorder) NavigateTo(path string) { r.paths = append(r.paths, path) }

func (r *recorder) lastMessage() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

type fakeTokenStore struct {
	token string
	err   error
}

func (f *fakeTokenStore) StoreToken(token string) error {
	f.token = token
	return f.err
}

// fakeSessionStorage backs a real session.Session in flow tests.
type fakeSessionStorage struct {
	cached *models.User
}

func (f *fakeSessionStorage) StoreUser(u *models.User) error { f.cached = u; return nil }
func (f *fakeSessionStorage) CachedUser() *models.User       { return f.cached }
func (f *fakeSessionStorage) RemoveUser() error              { f.cached = nil; return nil }

type fakeUserFetcher struct {
	user *models.User
	err  error
}

func (f *fakeUserFetcher) AuthUser(ctx context.Context) (*models.User, error) {
	return f.user, f.err
}

func TestSignIn_EmptyFormMakesNoNetworkCall(t *testing.T) {
	backend := &fakeAuthAPI{}
	rec := &recorder{}
	sess := session.New(&fakeSessionStorage{}, &fakeUserFetcher{err: errors.New("no")}, nil)
	flow := NewSignIn(backend, &fakeTokenStore{}, sess, rec, rec, nil)

	flow.Submit(context.Background(), forms.SignIn{})

	if backend.loginCalls != 0 {
		t.Errorf("login called %d times for empty form; want 0", backend.loginCalls)
	}
	if rec.lastMessage() != "Please fill in all required fields" {
		t.Errorf("message = %q; want required-fields prompt", rec.lastMessage())
	}
	if flow.State() != StateIdle {
		t.Errorf("state = %q; want idle", flow.State())
	}
}

func TestSignIn_NonFieldErrorSurfaced(t *testing.T) {
	backend := &fakeAuthAPI{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			return "", &api.Error{
				StatusCode: http.StatusBadRequest,
				NonField:   []string{"Invalid credentials"},
				Fields:     map[string][]string{"email": {"also wrong"}},
			}
		},
	}
	rec := &recorder{}
	sess := session.New(&fakeSessionStorage{}, &fakeUserFetcher{err: errors.New("no")}, nil)
	flow := NewSignIn(backend, &fakeTokenStore{}, sess, rec, rec, nil)

	flow.Submit(context.Background(), forms.SignIn{Email: "a@b.com", Password: "x"})

	// Non-field errors win over field errors.
	if rec.lastMessage() != "Invalid credentials" {
		t.Errorf("message = %q; want %q", rec.lastMessage(), "Invalid credentials")
	}
	if sess.Current() != nil {
		t.Errorf("session state set on failed login: %+v", sess.Current())
	}
	if len(rec.paths) != 0 {
		t.Errorf("navigated on failed login: %v", rec.paths)
	}
}

func TestSignIn_ErrorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "email field error when no non-field error",
			err:  &api.Error{Fields: map[string][]string{"email": {"Enter a valid email address."}}},
			want: "Enter a valid email address.",
		},
		{
			name: "generic fallback for empty structured error",
			err:  &api.Error{StatusCode: http.StatusBadRequest, Fields: map[string][]string{}},
			want: "Login failed. Please try again.",
		},
		{
			name: "network message for transport failure",
			err:  errors.New("dial tcp: connection refused"),
			want: "Network error. Please check your connection.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loginFailureMessage(tt.err); got != tt.want {
				t.Errorf("loginFailureMessage = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestSignIn_Success(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.com"}
	backend := &fakeAuthAPI{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			return "tok1", nil
		},
	}
	tokens := &fakeTokenStore{}
	rec := &recorder{}
	sess := session.New(&fakeSessionStorage{}, &fakeUserFetcher{user: user}, nil)
	flow := NewSignIn(backend, tokens, sess, rec, rec, nil)

	flow.Submit(context.Background(), forms.SignIn{Email: "a@b.com", Password: "x"})

	if tokens.token != "tok1" {
		t.Errorf("stored credential = %q; want %q", tokens.token, "tok1")
	}
	if got := sess.Current(); got == nil || got.ID != 1 || got.Email != "a@b.com" {
		t.Errorf("session current = %+v; want the fetched user", got)
	}
	if len(rec.paths) != 1 || rec.paths[0] != "" {
		t.Errorf("navigation = %v; want root", rec.paths)
	}
	if rec.lastMessage() != "Successfully logged in" {
		t.Errorf("message = %q; want success notification", rec.lastMessage())
	}
}

func TestSignIn_NoKeyInResponse(t *testing.T) {
	backend := &fakeAuthAPI{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			return "", nil
		},
	}
	tokens := &fakeTokenStore{token: "stale"}
	rec := &recorder{}
	sess := session.New(&fakeSessionStorage{}, &fakeUserFetcher{err: errors.New("no")}, nil)
	flow := NewSignIn(backend, tokens, sess, rec, rec, nil)

	flow.Submit(context.Background(), forms.SignIn{Email: "a@b.com", Password: "x"})

	// Without a key in the response, the stored credential is untouched.
	if tokens.token != "stale" {
		t.Errorf("stored credential = %q; want unchanged", tokens.token)
	}
}

func TestSignUp_Success(t *testing.T) {
	var received api.Registration
	backend := &fakeAuthAPI{
		RegisterFunc: func(ctx context.Context, reg api.Registration) error {
			received = reg
			return nil
		},
	}
	rec := &recorder{}
	flow := NewSignUp(backend, rec, rec, nil)

	form := &forms.SignUp{
		FirstName: "Alice", LastName: "Smith", Email: "a@b.com",
		Password1: "secret", Password2: "secret",
	}
	flow.Submit(context.Background(), form)

	if received.Email != "a@b.com" || received.FirstName != "Alice" {
		t.Errorf("registration payload = %+v", received)
	}
	if *form != (forms.SignUp{}) {
		t.Errorf("form not reset after success: %+v", form)
	}
	if len(rec.paths) != 1 || rec.paths[0] != "sign-in" {
		t.Errorf("navigation = %v; want sign-in", rec.paths)
	}
	if rec.lastMessage() != "Registered successfully. Proceed to login" {
		t.Errorf("message = %q", rec.lastMessage())
	}
}

func TestSignUp_EmptyFormMakesNoNetworkCall(t *testing.T) {
	backend := &fakeAuthAPI{}
	rec := &recorder{}
	flow := NewSignUp(backend, rec, rec, nil)

	flow.Submit(context.Background(), &forms.SignUp{})

	if backend.regCalls != 0 {
		t.Errorf("register called %d times for empty form; want 0", backend.regCalls)
	}
}

func TestSignUp_ErrorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "password1 wins over email and non-field",
			err: &api.Error{
				Fields: map[string][]string{
					"password1": {"The two password fields didn't match."},
					"email":     {"Invalid email."},
				},
				NonField: []string{"Something else"},
			},
			want: "The two password fields didn't match.",
		},
		{
			name: "email second",
			err: &api.Error{
				Fields:   map[string][]string{"email": {"Invalid email."}},
				NonField: []string{"Something else"},
			},
			want: "Invalid email.",
		},
		{
			name: "non-field third",
			err:  &api.Error{NonField: []string{"Registration closed"}},
			want: "Registration closed",
		},
		{
			name: "generic fallback",
			err:  &api.Error{StatusCode: http.StatusBadRequest},
			want: "Registration failed. Please try again.",
		},
		{
			name: "network message for transport failure",
			err:  errors.New("timeout"),
			want: "Network error. Please check your connection.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registrationFailureMessage(tt.err); got != tt.want {
				t.Errorf("registrationFailureMessage = %q; want %q", got, tt.want)
			}
		})
	}
}
