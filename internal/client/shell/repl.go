package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/reddish/internal/client/forms"
	"github.com/atinyakov/reddish/internal/models"
)

// status renders the prompt suffix: the username when signed in, nothing
// on authentication views.
func (a *App) status() string {
	if a.authRoute {
		return ""
	}
	if user := a.CurrentUser(); user != nil {
		return "(" + user.Username + ") "
	}
	return ""
}

// Run starts the interactive loop. It resolves the session once at
// startup so a cached identity is available immediately, then reads and
// dispatches commands until EOF or an exit command.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to reddish (type 'help' for commands)")

	a.session.Resolve(ctx, func(u *models.User) {
		a.user = u
	})

	for {
		fmt.Fprintf(a.out, "reddish %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		args := strings.Fields(strings.TrimSpace(line))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			a.printHelp()
		case "login":
			a.cmdLogin(ctx)
		case "signup":
			a.cmdSignup(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.cmdWhoami()
		case "post":
			a.cmdPost(ctx)
		case "comment":
			if len(args) < 2 {
				a.Notify("Usage: comment <post-uuid>")
				continue
			}
			a.cmdComment(ctx, args[1])
		case "group":
			a.cmdGroup(ctx)
		case "open":
			if len(args) < 2 {
				a.Notify("Usage: open <post-uuid>")
				continue
			}
			a.cmdOpen(ctx, args[1])
		case "search":
			if len(args) < 2 {
				a.Notify("Usage: search <query>")
				continue
			}
			a.cmdSearch(ctx, strings.Join(args[1:], " "))
		case "bookmarks":
			a.cmdPostList(ctx, a.api.Bookmarks)
		case "upvotes":
			a.cmdPostList(ctx, a.api.Upvotes)
		case "downvotes":
			a.cmdPostList(ctx, a.api.Downvotes)
		case "invitations":
			a.cmdGroupList(ctx, a.api.Invitations)
		case "requested":
			a.cmdGroupList(ctx, a.api.RequestedGroups)
		case "invites":
			a.cmdGroupList(ctx, a.api.UserInvites)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye")
			return
		default:
			a.Notify("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (a *App) printHelp() {
	if a.CurrentUser() == nil {
		fmt.Fprintln(a.out, "Available commands: help, login, signup, exit")
		return
	}
	fmt.Fprintln(a.out, "Available commands: help, whoami, post, comment <post-uuid>, group, open <post-uuid>, search <query>, bookmarks, upvotes, downvotes, invitations, requested, invites, logout, exit")
}

func (a *App) cmdLogin(ctx context.Context) {
	a.NavigateTo("sign-in")

	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return
	}
	password, err := promptPassword(a.out, "Password")
	if err != nil {
		a.Notify("Could not read password")
		return
	}

	a.signIn.Submit(ctx, forms.SignIn{Email: email, Password: password})
}

func (a *App) cmdSignup(ctx context.Context) {
	a.NavigateTo("sign-up")

	form := &forms.SignUp{}
	var err error
	if form.FirstName, err = promptLine(a.reader, a.out, "First name"); err != nil {
		return
	}
	if form.LastName, err = promptLine(a.reader, a.out, "Last name"); err != nil {
		return
	}
	if form.Email, err = promptLine(a.reader, a.out, "Email"); err != nil {
		return
	}
	if form.Password1, err = promptPassword(a.out, "Password"); err != nil {
		a.Notify("Could not read password")
		return
	}
	if form.Password2, err = promptPassword(a.out, "Confirm password"); err != nil {
		a.Notify("Could not read password")
		return
	}

	a.signUp.Submit(ctx, form)
}

func (a *App) cmdWhoami() {
	user := a.CurrentUser()
	if user == nil {
		a.Notify("Not signed in")
		return
	}
	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", user.Username, user.Email, user.ID)
}

func (a *App) cmdPost(ctx context.Context) {
	title, err := promptLine(a.reader, a.out, "Title")
	if err != nil {
		return
	}
	content, err := promptMultiline(a.reader, a.out, "Content")
	if err != nil {
		return
	}
	groupStr, err := promptLine(a.reader, a.out, "Group ID (empty for none)")
	if err != nil {
		return
	}

	var group *int64
	if groupStr != "" {
		id, err := strconv.ParseInt(groupStr, 10, 64)
		if err != nil {
			a.Notify("Group ID must be a number")
			return
		}
		group = &id
	}

	post, err := a.content.CreatePost(ctx, forms.Post{Title: title, Content: content}, group)
	if err != nil {
		a.Notify(submitFailure("Could not create post", err))
		return
	}
	fmt.Fprintf(a.out, "Created post %s\n", post.UUID)
}

func (a *App) cmdComment(ctx context.Context, postUUID string) {
	body, err := promptLine(a.reader, a.out, "Comment")
	if err != nil {
		return
	}
	mentionStr, err := promptLine(a.reader, a.out, "Mention usernames (space separated, empty for none)")
	if err != nil {
		return
	}

	form := forms.Comment{Body: body}
	for _, username := range strings.Fields(mentionStr) {
		user, err := a.api.UserByUsername(ctx, username)
		if err != nil {
			a.Notify(fmt.Sprintf("Unknown user %q, skipping mention", username))
			continue
		}
		form.Mentions = append(form.Mentions, *user)
	}

	comment, err := a.content.SubmitComment(ctx, postUUID, form, nil)
	if err != nil {
		a.Notify(submitFailure("Could not create comment", err))
		return
	}
	fmt.Fprintf(a.out, "Comment %d created\n", comment.ID)
}

func (a *App) cmdGroup(ctx context.Context) {
	name, err := promptLine(a.reader, a.out, "Group name")
	if err != nil {
		return
	}
	description, err := promptLine(a.reader, a.out, "Description")
	if err != nil {
		return
	}

	group, err := a.content.CreateGroup(ctx, forms.Group{Name: name, Description: description})
	if err != nil {
		a.Notify(submitFailure("Could not create group", err))
		return
	}
	fmt.Fprintf(a.out, "Created group %q (id %d)\n", group.Name, group.ID)
}

func (a *App) cmdOpen(ctx context.Context, postUUID string) {
	post, err := a.api.Post(ctx, postUUID)
	if err != nil {
		a.Notify(submitFailure("Could not fetch post", err))
		return
	}
	a.NavigateTo(post.UUID)
	fmt.Fprintf(a.out, "%s\n\n%s\n", post.Title, post.Content)
}

func (a *App) cmdSearch(ctx context.Context, query string) {
	a.NavigateTo("search")
	posts, err := a.api.SearchPosts(ctx, query)
	if err != nil {
		a.Notify(submitFailure("Search failed", err))
		return
	}
	a.printPosts(posts)
}

// cmdPostList runs one of the user-scoped post collections for the
// signed-in user.
func (a *App) cmdPostList(ctx context.Context, fetch func(context.Context, string) ([]models.Post, error)) {
	user := a.CurrentUser()
	if user == nil {
		a.Notify("Not signed in")
		return
	}
	posts, err := fetch(ctx, user.Username)
	if err != nil {
		a.Notify(submitFailure("Could not fetch posts", err))
		return
	}
	a.printPosts(posts)
}

// cmdGroupList runs one of the user-scoped group collections for the
// signed-in user.
func (a *App) cmdGroupList(ctx context.Context, fetch func(context.Context, string) ([]models.Group, error)) {
	user := a.CurrentUser()
	if user == nil {
		a.Notify("Not signed in")
		return
	}
	groups, err := fetch(ctx, user.Username)
	if err != nil {
		a.Notify(submitFailure("Could not fetch groups", err))
		return
	}
	for _, g := range groups {
		fmt.Fprintf(a.out, "%d\t%s\n", g.ID, g.Name)
	}
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "Nothing here yet")
	}
}

func (a *App) printPosts(posts []models.Post) {
	for _, p := range posts {
		fmt.Fprintf(a.out, "%s\t%s\n", p.UUID, p.Title)
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "Nothing here yet")
	}
}

// submitFailure formats a command failure for the user, keeping the
// server's message when one exists.
func submitFailure(prefix string, err error) string {
	return fmt.Sprintf("%s: %v", prefix, err)
}
