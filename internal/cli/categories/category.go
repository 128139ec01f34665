package categories

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
)

type CategoryAddCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	cat, err := coord.CreateCategory(c.Title)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added category %q\n", cat.Title)
	return nil
}

type CategoryRenameCmd struct {
	Old string `arg:"" help:"Current title."`
	New string `arg:"" help:"New title."`
}

func (c *CategoryRenameCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	cat, err := coord.RenameCategory(c.Old, c.New)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Renamed %q to %q\n", c.Old, cat.Title)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}

	categories := coord.Categories()
	if len(categories) == 0 {
		fmt.Println("No categories yet. Add one with 'tally category add'.")
		return nil
	}

	counts := make(map[string]int)
	for _, t := range coord.Trackers() {
		counts[t.CategoryID]++
	}
	for _, cat := range categories {
		fmt.Printf("  %-30s %d trackers\n", cat.Title, counts[cat.ID])
	}
	return nil
}
