package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fortvault/internal/vault/models"
	"github.com/dmitrijs2005/fortvault/internal/vault/services"
)

func (a *App) loadEntries(ctx context.Context) ([]models.EntryResult, error) {
	key, err := a.key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked.")
		return nil, err
	}
	results, err := a.entries.GetAll(ctx, key)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load entries:", err)
		return nil, err
	}
	return results, nil
}

func (a *App) printEntryList(results []models.EntryResult) {
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No entries.")
		return
	}
	for _, r := range results {
		if r.Corrupt() {
			// Broken rows stay visible so the user knows they exist.
			fmt.Fprintf(a.out, "%s\t<unreadable entry>\n", r.Entry.Id)
			continue
		}
		fav := " "
		if r.Entry.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(a.out, "%s\t%s %s\t%s\n", r.Entry.Id, fav, r.Entry.Name, r.Entry.Username)
	}
}

// List prints every entry, one line each; undecryptable rows are shown as
// unreadable instead of hiding the whole vault.
func (a *App) List(ctx context.Context) error {
	results, err := a.loadEntries(ctx)
	if err != nil {
		return err
	}
	a.printEntryList(results)
	return nil
}

// Search filters the decrypted set in memory over name/username/url.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: search <query>")
		return nil
	}
	results, err := a.loadEntries(ctx)
	if err != nil {
		return err
	}

	var ok []models.Entry
	for _, r := range results {
		if !r.Corrupt() {
			ok = append(ok, r.Entry)
		}
	}
	matched := services.Filter(ok, strings.Join(args, " "))
	if len(matched) == 0 {
		fmt.Fprintln(a.out, "No matches.")
		return nil
	}
	for _, e := range matched {
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", e.Id, e.Name, e.Username)
	}
	return nil
}

// Show prints a single entry in full and stamps its last-accessed time.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return nil
	}
	key, err := a.key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked.")
		return err
	}

	e, err := a.entries.GetByID(ctx, args[0], key)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load entry:", err)
		return err
	}
	if err := a.entries.TouchLastAccessed(ctx, e.Id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Name:     %s\n", e.Name)
	fmt.Fprintf(a.out, "Username: %s\n", e.Username)
	fmt.Fprintf(a.out, "Password: %s\n", e.Password)
	fmt.Fprintf(a.out, "URL:      %s\n", e.Url)
	fmt.Fprintf(a.out, "Notes:    %s\n", e.Notes)
	if len(e.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags:     %s\n", strings.Join(e.Tags, ", "))
	}
	if len(e.PasswordHistory) > 0 {
		fmt.Fprintf(a.out, "Previous passwords: %d\n", len(e.PasswordHistory))
	}
	return nil
}

// AddEntry interactively creates an entry.
func (a *App) AddEntry(ctx context.Context) error {
	key, err := a.key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked.")
		return err
	}

	name, err := GetSimpleText(a.reader, "Entry name", a.out)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Username (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := GetSimpleText(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	url, err := GetSimpleText(a.reader, "URL (optional)", a.out)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	created, err := a.entries.Create(ctx, models.Entry{
		Name:     name,
		Username: username,
		Password: password,
		Url:      url,
		Notes:    notes,
	}, key)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to create entry:", err)
		return err
	}
	fmt.Fprintln(a.out, "Created entry", created.Id)
	return nil
}

// EditEntry interactively updates an entry. If the password changes, the
// previous value is appended to the entry's history before persisting —
// the services layer itself is change-agnostic.
func (a *App) EditEntry(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return nil
	}
	key, err := a.key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked.")
		return err
	}

	e, err := a.entries.GetByID(ctx, args[0], key)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load entry:", err)
		return err
	}

	name, err := GetSimpleText(a.reader, fmt.Sprintf("Entry name [%s]", e.Name), a.out)
	if err != nil {
		return err
	}
	if name != "" {
		e.Name = name
	}
	username, err := GetSimpleText(a.reader, fmt.Sprintf("Username [%s]", e.Username), a.out)
	if err != nil {
		return err
	}
	if username != "" {
		e.Username = username
	}
	password, err := GetSimpleText(a.reader, "Password (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if password != "" && password != e.Password {
		e.RecordPasswordChange(e.Password, timeNow())
		e.Password = password
	}
	url, err := GetSimpleText(a.reader, fmt.Sprintf("URL [%s]", e.Url), a.out)
	if err != nil {
		return err
	}
	if url != "" {
		e.Url = url
	}

	if err := a.entries.Update(ctx, *e, key); err != nil {
		fmt.Fprintln(a.out, "Failed to update entry:", err)
		return err
	}
	fmt.Fprintln(a.out, "Updated.")
	return nil
}

// DeleteEntry hard-deletes an entry by id.
func (a *App) DeleteEntry(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return nil
	}
	if err := a.entries.Delete(ctx, args[0]); err != nil {
		fmt.Fprintln(a.out, "Failed to delete entry:", err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}
