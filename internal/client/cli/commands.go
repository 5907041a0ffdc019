package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return "", "", err
	}
	defer clear(password)

	return email, string(password), nil
}

// Register creates an account and signs in with the returned tokens. The
// activation link is delivered out of band.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	u, err := a.client.Register(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s, check your mailbox for the activation link\n", u.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	u, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s%s\n", u.Email, activationNote(u))
	return nil
}

func activationNote(u api.User) string {
	if u.IsActivated {
		return ""
	}
	return " (not activated)"
}

// Activate accepts either the bare link token or the full URL from the
// activation email.
func (a *App) Activate(ctx context.Context, link string) error {
	if _, after, ok := strings.Cut(link, common.ActivationPath); ok {
		link = after
	}
	link = strings.Trim(link, "/")

	redirect, err := a.client.Activate(ctx, link)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account activated, continue at %s\n", redirect)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.client.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Tokens refreshed")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	removed, err := a.client.Logout(ctx)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintln(a.out, "Logged out")
	} else {
		fmt.Fprintln(a.out, "Logged out (session had already ended)")
	}
	return nil
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s\t%s%s\n", u.ID, u.Email, activationNote(u))
	}
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up")
	return nil
}

// describeError turns a command failure into a line for the user.
func describeError(err error) string {
	var e *common.Error
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later"
	case errors.Is(err, client.ErrNotLoggedIn):
		return "You are not logged in"
	case errors.Is(err, common.ErrUnauthorized):
		return "Session expired, please log in again"
	case errors.As(err, &e) && e.Detail != "":
		return "Error: " + e.Detail
	default:
		return "Error: " + err.Error()
	}
}
