package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
)

// timeNow is a test seam for the clock used by interactive edits.
var timeNow = time.Now

// ListCategories prints all categories in sort order.
func (a *App) ListCategories(ctx context.Context) error {
	key, err := a.key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked.")
		return err
	}
	results, err := a.categories.GetAll(ctx, key)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load categories:", err)
		return err
	}
	for _, r := range results {
		if r.Corrupt() {
			fmt.Fprintf(a.out, "%s\t<unreadable category>\n", r.Category.Id)
			continue
		}
		marker := " "
		if r.Category.IsDefault {
			marker = "d"
		}
		fmt.Fprintf(a.out, "%s\t%s %s\n", r.Category.Id, marker, r.Category.Name)
	}
	return nil
}

// AddCategory interactively creates a category.
func (a *App) AddCategory(ctx context.Context) error {
	key, err := a.key()
	if err != nil {
		fmt.Fprintln(a.out, "Vault is locked.")
		return err
	}
	name, err := GetSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}

	created, err := a.categories.Create(ctx, models.Category{Name: name}, key)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to create category:", err)
		return err
	}
	fmt.Fprintln(a.out, "Created category", created.Id)
	return nil
}

// DeleteCategory deletes a non-default category by id.
func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delcat <id>")
		return nil
	}
	if err := a.categories.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, common.ErrDefaultCategoryProtected) {
			fmt.Fprintln(a.out, "Default categories cannot be deleted.")
			return nil
		}
		fmt.Fprintln(a.out, "Failed to delete category:", err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}
