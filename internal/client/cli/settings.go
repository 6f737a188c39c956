package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
)

func (a *App) ShowSettings(ctx context.Context) error {
	s, err := a.settings.Get(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "  Dark mode:     %s\n", onOff(s.DarkMode))
	fmt.Fprintf(a.out, "  Notifications: %s\n", onOff(s.NotificationsEnabled))
	fmt.Fprintf(a.out, "  Language:      %s (%s)\n", services.LanguageName(s.Language), s.Language)
	return nil
}

func (a *App) SetDarkMode(ctx context.Context, args []string) error {
	enabled, ok := parseOnOff(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: dark on|off")
		return nil
	}
	if err := a.settings.SetDarkMode(ctx, enabled); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Dark mode %s.\n", onOff(enabled))
	return nil
}

func (a *App) SetNotifications(ctx context.Context, args []string) error {
	enabled, ok := parseOnOff(args)
	if !ok {
		fmt.Fprintln(a.out, "Usage: notify on|off")
		return nil
	}
	if err := a.settings.SetNotificationsEnabled(ctx, enabled); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Notifications %s.\n", onOff(enabled))
	return nil
}

func (a *App) SetLanguage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprint(a.out, "Usage: lang <code>, one of:")
		for _, l := range services.Languages {
			fmt.Fprintf(a.out, " %s", l.Code)
		}
		fmt.Fprintln(a.out)
		return nil
	}
	if err := a.settings.SetLanguage(ctx, args[0]); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Language set to %s.\n", services.LanguageName(args[0]))
	return nil
}

func (a *App) ResetSettings(ctx context.Context) error {
	if err := a.settings.Reset(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Settings reset to defaults.")
	return nil
}

func parseOnOff(args []string) (bool, bool) {
	if len(args) != 1 {
		return false, false
	}
	switch args[0] {
	case "on":
		return true, true
	case "off":
		return false, true
	default:
		return false, false
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
