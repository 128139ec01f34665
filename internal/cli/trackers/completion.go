package trackers

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/coordinator"
)

type MarkCmd struct {
	Ref  string `arg:"" help:"Tracker id or name."`
	Date string `help:"Day to mark (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	t, err := coord.FindTracker(c.Ref)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date, coord.Location())
	if err != nil {
		return err
	}
	if err := coord.Mark(t.ID, date); err != nil {
		return err
	}
	fmt.Printf("✓ %s completed on %s\n", t.Name, date.Format(constants.DisplayDateFormat))
	return nil
}

type UnmarkCmd struct {
	Ref  string `arg:"" help:"Tracker id or name."`
	Date string `help:"Day to unmark (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *UnmarkCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	t, err := coord.FindTracker(c.Ref)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date, coord.Location())
	if err != nil {
		return err
	}
	if err := coord.Unmark(t.ID, date); err != nil {
		return err
	}
	fmt.Printf("✓ %s no longer completed on %s\n", t.Name, date.Format(constants.DisplayDateFormat))
	return nil
}

type ToggleCmd struct {
	Ref  string `arg:"" help:"Tracker id or name."`
	Date string `help:"Day to toggle (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	t, err := coord.FindTracker(c.Ref)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date, coord.Location())
	if err != nil {
		return err
	}
	state, err := coord.ToggleCompletion(t.ID, date)
	if err != nil {
		return err
	}
	mark := "✓"
	if state == coordinator.Incomplete {
		mark = "○"
	}
	fmt.Printf("%s %s is now %s on %s\n", mark, t.Name, state, date.Format(constants.DisplayDateFormat))
	return nil
}

type TodayCmd struct {
	Date   string `help:"Day to show (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	Search string `help:"Only show trackers whose name contains this text." short:"s"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date, coord.Location())
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderProjection(coord.Select(date, c.Search)))
	return nil
}
