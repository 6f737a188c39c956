package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// clearValue entered at an edit prompt empties the field.
const clearValue = "-"

func (a *App) Profile(ctx context.Context) error {
	user, err := a.profile.Profile(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s (@%s)\n", displayName(user), user.Username)
	fmt.Fprintf(a.out, "  Email: %s\n", user.Email)
	return nil
}

// Details refreshes the profile from the source and prints every field.
func (a *App) Details(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	user, err := a.profile.Details(ctx)
	if err != nil {
		return a.report(err)
	}
	printDetails(a, user)
	return nil
}

func printDetails(a *App, u models.User) {
	rows := [][2]string{
		{"ID", u.ID},
		{"Username", u.Username},
		{"Email", u.Email},
		{"First name", u.FirstName},
		{"Last name", u.LastName},
		{"Phone", u.Phone},
		{"Address", u.Address},
		{"Avatar", u.Avatar},
	}
	for _, r := range rows {
		fmt.Fprintf(a.out, "  %-11s %s\n", r[0]+":", r[1])
	}
	if u.Bio != "" {
		fmt.Fprintf(a.out, "  Bio:\n    %s\n", strings.ReplaceAll(u.Bio, "\n", "\n    "))
	}
}

// Edit prompts for each editable field. An empty answer keeps the current
// value and "-" clears it.
func (a *App) Edit(ctx context.Context) error {
	current, err := a.profile.Profile(ctx)
	if err != nil {
		return a.report(err)
	}

	var upd services.ProfileUpdate
	fields := []struct {
		label string
		value string
		dst   **string
	}{
		{"Email", current.Email, &upd.Email},
		{"First name", current.FirstName, &upd.FirstName},
		{"Last name", current.LastName, &upd.LastName},
		{"Phone", current.Phone, &upd.Phone},
		{"Address", current.Address, &upd.Address},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, f.value), a.out)
		if err != nil {
			return err
		}
		*f.dst = editValue(v)
	}

	bio, err := getMultiline(a.reader, "Bio (empty keeps the current one, '-' clears it)", a.out)
	if err != nil {
		return err
	}
	upd.Bio = editValue(bio)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if _, err := a.profile.Update(ctx, upd); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

func editValue(v string) *string {
	switch v {
	case "":
		return nil
	case clearValue:
		empty := ""
		return &empty
	default:
		return &v
	}
}
