package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

type fakeExec struct {
	loggedIn bool
	fail     error

	calls []string
	link  string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.fail
}

func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Activate(_ context.Context, link string) error {
	f.link = link
	return f.record("activate")
}
func (f *fakeExec) Refresh(context.Context) error { return f.record("refresh") }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Users(context.Context) error { return f.record("users") }
func (f *fakeExec) Ping(context.Context) error  { return f.record("ping") }

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{}
	input := "help\nregister\nlogin\nhelp\nactivate abc\nusers\nrefresh\n\nping\nlogout\nfoobar\nexit\nusers\n"

	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{"register", "login", "activate", "users", "refresh", "ping", "logout"}, exec.calls)
	assert.Equal(t, "abc", exec.link)
	assert.Contains(t, *out, "Available commands: register, login, activate <link>, ping, exit")
	assert.Contains(t, *out, "Available commands: users, refresh, logout, activate <link>, ping, exit")
	assert.Contains(t, *out, "Unknown command:foobar")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_UsageAndEOF(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(a@x.com)" }, rdr("activate\nping"))

	assert.Equal(t, []string{"ping"}, exec.calls)
	assert.Contains(t, *out, "Usage: activate <link>")
	assert.Contains(t, *out, "gauth (a@x.com)> ")
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{fail: fmt.Errorf("%w: connection refused", client.ErrUnavailable)}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("ping\nlogout\nquit\n"))

	assert.Equal(t, []string{"ping", "logout"}, exec.calls)
	assert.Contains(t, *out, "Server unavailable, try again later")
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	capturePrint(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{fail: errors.New("unused")}
	runREPL(ctx, exec, func() string { return "" }, rdr("ping\n"))

	assert.Empty(t, exec.calls)
}
