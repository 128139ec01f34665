package stats

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/stats"
)

// defaultWindow is how many days back --from reaches when omitted.
const defaultWindow = 30

type StatsCmd struct {
	From string `help:"First day (YYYY-MM-DD, today, yesterday). Defaults to 30 days before --to."`
	To   string `help:"Last day (YYYY-MM-DD, today, yesterday). Defaults to today."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	loc := coord.Location()

	to, err := ctx.ParseDate(c.To, loc)
	if err != nil {
		return err
	}
	from := to.AddDate(0, 0, -(defaultWindow - 1))
	if c.From != "" {
		from, err = ctx.ParseDate(c.From, loc)
		if err != nil {
			return err
		}
	}
	if to.Before(from) {
		return fmt.Errorf("--from (%s) is after --to (%s)", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	summary := stats.Compute(stats.Input{
		Trackers:     coord.Trackers(),
		Records:      coord.Records(),
		From:         from,
		To:           to,
		FirstWeekday: coord.FirstWeekday(),
		Location:     loc,
	})
	fmt.Print(cli.RenderStats(summary))
	return nil
}
