package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/client/session"
	"github.com/dmitrijs2005/qrtag/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errLoginFailed = errors.New("login failed")

// Login prompts for email and password and exchanges them for a session.
//
// The password byte slice is wiped before returning. A rejected login is
// reported with the server's message and returned as errLoginFailed.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.authService.Login(ctx, email, string(password))
	if !res.Success {
		printlnFn("Login failed:", res.Message)
		return errLoginFailed
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", res.User.Name))
	return nil
}

// Logout forgets the session locally. The server is not contacted.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	return nil
}

// WhoAmI prints the logged-in user and what is known about the session.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.authService.Current()
	if snap.User == nil {
		printlnFn("Not logged in")
		return nil
	}
	u := snap.User

	printlnFn(fmt.Sprintf("%s <%s>", u.Name, u.Email))
	if !u.IsEmailVerified {
		printlnFn("Email address not verified")
	}
	if saved, ok := a.session.SavedAt(ctx); ok {
		printlnFn("Logged in:", saved.Local().Format(time.RFC1123))
	}
	if info, ok := session.Inspect(a.session.Token(ctx)); ok && !info.ExpiresAt.IsZero() {
		printlnFn("Session expires:", info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// Forgot asks the server to send a password reset link.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		printlnFn("Email is required")
		return nil
	}

	msg, err := a.authService.ForgotPassword(ctx, email)
	if err != nil {
		return a.report(ctx, err)
	}
	if msg == "" {
		msg = "If the address is registered, a reset link is on its way."
	}
	printlnFn(msg)
	return nil
}
