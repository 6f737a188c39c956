package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error  { return f.record("register", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Profile(context.Context) error      { return f.record("profile", nil) }
func (f *fakeExec) Details(context.Context) error      { return f.record("details", nil) }
func (f *fakeExec) Edit(context.Context) error         { return f.record("edit", nil) }
func (f *fakeExec) ShowSettings(context.Context) error { return f.record("settings", nil) }
func (f *fakeExec) SetDarkMode(_ context.Context, args []string) error {
	return f.record("dark", args)
}
func (f *fakeExec) SetNotifications(_ context.Context, args []string) error {
	return f.record("notify", args)
}
func (f *fakeExec) SetLanguage(_ context.Context, args []string) error {
	return f.record("lang", args)
}
func (f *fakeExec) ResetSettings(context.Context) error { return f.record("reset", nil) }

func silencePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrint(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"",
		"profile",
		"details",
		"edit",
		"settings",
		"dark on",
		"notify off",
		"lang fr",
		"reset",
		"register",
		"logout",
		"exit",
		"profile",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(input))

	assert.Equal(t, []string{
		"login", "profile", "details", "edit", "settings",
		"dark", "notify", "lang", "reset", "register", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"on"}, exec.args[5])
	assert.Equal(t, []string{"off"}, exec.args[6])
	assert.Equal(t, []string{"fr"}, exec.args[7])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := silencePrint(t)

	input := strings.NewReader("help\nlogin\nhelp\nquit\n")
	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, bufio.NewReader(input))

	var help []string
	for _, l := range *lines {
		if strings.HasPrefix(l, "Available commands") {
			help = append(help, l)
		}
	}
	if assert.Len(t, help, 2) {
		assert.Contains(t, help[0], "login")
		assert.NotContains(t, help[0], "logout")
		assert.Contains(t, help[1], "logout")
	}
}

func TestRunREPL_UnknownCommandAndEOF(t *testing.T) {
	lines := silencePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(s)" }, bufio.NewReader(strings.NewReader("foobar\nprofile")))

	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "pk(s)> ")
	assert.Equal(t, []string{"profile"}, exec.calls, "last line without newline still runs")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	silencePrint(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("login\n")))
	assert.Empty(t, exec.calls)
}
