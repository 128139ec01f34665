package trackers

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/coordinator"
	"github.com/julianstephens/tally/internal/models"
)

type TrackerAddCmd struct {
	Name     string `arg:"" help:"Tracker name."`
	Category string `help:"Category title." short:"c" required:""`
	Days     string `help:"Weekly schedule, e.g. 'mon,wed,fri', 'weekdays' or 'daily'. Omit for a one-off event." short:"d"`
	Date     string `help:"Event date (YYYY-MM-DD) for a one-off event."`
	Emoji    string `help:"Emoji shown next to the name."`
	Color    string `help:"Colour as #RRGGBB." default:"#FD4C49"`
	Pin      bool   `help:"Pin the tracker to the top."`
}

func (c *TrackerAddCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}

	schedule, err := models.ParseSchedule(c.Days)
	if err != nil {
		return err
	}
	kind := coordinator.KindHabit
	if c.Date != "" && c.Days == "" {
		kind = coordinator.KindEvent
	}

	t, err := coord.CreateTracker(coordinator.TrackerInput{
		Kind:      kind,
		Name:      c.Name,
		Emoji:     c.Emoji,
		Color:     models.Color(c.Color),
		Schedule:  schedule,
		EventDate: c.Date,
		Category:  c.Category,
		Pinned:    c.Pin,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added %s %q (%s) [id: %s]\n", kind, t.Name, t.Caption(), t.ID)
	return nil
}

type TrackerEditCmd struct {
	Ref      string  `arg:"" help:"Tracker id or name."`
	Name     *string `help:"New name."`
	Category *string `help:"Move to another category." short:"c"`
	Days     *string `help:"New weekly schedule; turns an event into a habit." short:"d"`
	Date     *string `help:"New event date; turns a habit into an event."`
	Emoji    *string `help:"New emoji."`
	Color    *string `help:"New colour as #RRGGBB."`
}

func (c *TrackerEditCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}

	t, err := coord.FindTracker(c.Ref)
	if err != nil {
		return err
	}
	category, _ := coord.CategoryOf(t.ID)
	in := coordinator.InputFrom(t, category.Title)

	if c.Name != nil {
		in.Name = *c.Name
	}
	if c.Category != nil {
		in.Category = *c.Category
	}
	if c.Emoji != nil {
		in.Emoji = *c.Emoji
	}
	if c.Color != nil {
		in.Color = models.Color(*c.Color)
	}
	if c.Days != nil {
		schedule, err := models.ParseSchedule(*c.Days)
		if err != nil {
			return err
		}
		in.Kind = coordinator.KindHabit
		in.Schedule = schedule
		in.EventDate = ""
	}
	if c.Date != nil {
		in.Kind = coordinator.KindEvent
		in.EventDate = *c.Date
		in.Schedule = models.EmptySchedule
	}

	updated, err := coord.EditTracker(t.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %q (%s)\n", updated.Name, updated.Caption())
	return nil
}

type TrackerDeleteCmd struct {
	Ref string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerDeleteCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	t, err := coord.FindTracker(c.Ref)
	if err != nil {
		return err
	}
	if err := coord.DeleteTracker(t.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted %q and its completion history\n", t.Name)
	return nil
}

type TrackerPinCmd struct {
	Ref string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerPinCmd) Run(ctx *cli.Context) error {
	return setPinned(ctx, c.Ref, true)
}

type TrackerUnpinCmd struct {
	Ref string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerUnpinCmd) Run(ctx *cli.Context) error {
	return setPinned(ctx, c.Ref, false)
}

func setPinned(ctx *cli.Context, ref string, pinned bool) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}
	t, err := coord.FindTracker(ref)
	if err != nil {
		return err
	}
	if err := coord.SetPinned(t.ID, pinned); err != nil {
		return err
	}
	verb := "Pinned"
	if !pinned {
		verb = "Unpinned"
	}
	fmt.Printf("✓ %s %q\n", verb, t.Name)
	return nil
}

type TrackerListCmd struct {
	Category string `help:"Only list trackers in this category." short:"c"`
}

func (c *TrackerListCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}

	trackers := coord.Trackers()
	if len(trackers) == 0 {
		fmt.Println("No trackers found. Add one with 'tally tracker add'.")
		return nil
	}

	counts := make(map[string]int)
	for _, r := range coord.Records() {
		counts[r.TrackerID]++
	}

	for _, cat := range coord.Categories() {
		if c.Category != "" && cat.Title != c.Category {
			continue
		}
		var lines []string
		for _, t := range trackers {
			if t.CategoryID != cat.ID {
				continue
			}
			pin := " "
			if t.Pinned {
				pin = "📌"
			}
			name := strings.TrimSpace(t.Emoji + " " + t.Name)
			lines = append(lines, fmt.Sprintf("  %s %s %-28s %-22s %4d done  %s", pin, cli.Swatch(t.Color), name, t.Caption(), counts[t.ID], t.ID))
		}
		fmt.Printf("%s (%d)\n", cat.Title, len(lines))
		for _, l := range lines {
			fmt.Println(l)
		}
		fmt.Println()
	}
	return nil
}
