package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Export writes the full plaintext entry set to a JSON file. The output is
// unencrypted at rest, so the command demands an explicit "yes" before
// doing anything.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: export <file>")
		return nil
	}
	key, err := a.key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked.")
		return err
	}

	answer, err := GetSimpleText(a.reader,
		"The export file will contain all secrets UNENCRYPTED. Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Export cancelled.")
		return nil
	}

	entries, err := a.entries.ExportPlaintext(ctx, key)
	if err != nil {
		fmt.Fprintln(a.out, "Export failed:", err)
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0600); err != nil {
		fmt.Fprintln(a.out, "Failed to write export file:", err)
		return err
	}
	fmt.Fprintf(a.out, "Exported %d entries to %s\n", len(entries), args[0])
	return nil
}
