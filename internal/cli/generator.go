package cli

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/fortvault/internal/passgen"
)

// GeneratePassword prints a freshly generated password. Usage:
//
//	gen [length] [flags]
//
// Flags: noupper, nolower, nonumbers, symbols, noambiguous. Defaults match
// the generator screen of the app: 16 characters, upper+lower+numbers.
func (a *App) GeneratePassword(args []string) error {
	opts := passgen.Options{
		Length:     16,
		UseUpper:   true,
		UseLower:   true,
		UseNumbers: true,
	}

	for _, arg := range args {
		switch arg {
		case "noupper":
			opts.UseUpper = false
		case "nolower":
			opts.UseLower = false
		case "nonumbers":
			opts.UseNumbers = false
		case "symbols":
			opts.UseSymbols = true
		case "noambiguous":
			opts.ExcludeAmbiguous = true
		default:
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintln(a.out, "Usage: gen [length] [noupper|nolower|nonumbers|symbols|noambiguous]")
				return nil
			}
			opts.Length = n
		}
	}

	pw, err := passgen.Generate(opts)
	if err != nil {
		fmt.Fprintln(a.out, "Generation failed:", err)
		return err
	}
	if pw == "" {
		fmt.Fprintln(a.out, "No character classes selected.")
		return nil
	}
	fmt.Fprintln(a.out, pw)
	return nil
}
