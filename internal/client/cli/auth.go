package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// report shows err to the user: validation details verbatim, everything
// else as a fixed message.
func (a *App) report(err error) error {
	fmt.Fprintln(a.out, "Error:", common.UserMessage(err))
	return err
}

// splash lands a returning user on the profile and everybody else on the
// login hint.
func (a *App) splash(ctx context.Context) {
	user, ok := a.facade.CurrentUser(ctx)
	if !ok {
		fmt.Fprintln(a.out, "You are not logged in. Type 'login' or 'register'.")
		return
	}
	fmt.Fprintf(a.out, "Welcome back, %s!\n", displayName(user))
}

func (a *App) readCredentials() (string, string, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)
	return username, string(password), nil
}

// Login prompts for credentials and opens a session. A session that is
// already active is replaced.
func (a *App) Login(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	user, err := a.facade.Login(ctx, username, password)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", displayName(user))
	return nil
}

// Register prompts for the account fields and creates the account. The
// user logs in afterwards as usual.
func (a *App) Register(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	reg := models.Registration{Username: username, Password: password}

	if reg.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if reg.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if reg.LastName, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	user, err := a.facade.Register(ctx, reg)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Account %s created. Type 'login' to sign in.\n", user.Username)
	return nil
}

// Logout always leaves the client logged out; a store failure is still
// reported.
func (a *App) Logout(ctx context.Context) error {
	if err := a.facade.Logout(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func displayName(u models.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}
