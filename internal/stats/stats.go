// Package stats summarises completion history: perfect days, the best run of
// perfect days, totals, the daily average and per-tracker streaks.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

type TrackerStats struct {
	ID            string
	Name          string
	Completed     int
	CurrentStreak int
	LongestStreak int
}

type Summary struct {
	From           string
	To             string
	BestPeriod     int // longest run of consecutive perfect days
	PerfectDays    int // days where every due tracker was completed
	CompletedTotal int
	AveragePerDay  int // completions per day with at least one completion
	Trackers       []TrackerStats
}

// Empty reports whether there is nothing to summarise yet.
func (s Summary) Empty() bool {
	return s.CompletedTotal == 0
}

type Input struct {
	Trackers     []models.Tracker
	Records      []models.CompletionRecord
	From         time.Time // inclusive
	To           time.Time // inclusive
	FirstWeekday time.Weekday
	Location     *time.Location
}

// Compute walks every calendar day in [From, To]. A tracker counts as due on
// a day only once it exists (CreatedAt on or before that day).
func Compute(in Input) Summary {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	from := utils.StartOfDay(in.From, loc)
	to := utils.StartOfDay(in.To, loc)

	s := Summary{From: utils.DayKey(from, loc), To: utils.DayKey(to, loc)}
	if to.Before(from) {
		return s
	}

	done := make(map[string]map[string]bool)
	perDay := make(map[string]int)
	for _, r := range in.Records {
		if r.Day < s.From || r.Day > s.To {
			continue
		}
		if done[r.TrackerID] == nil {
			done[r.TrackerID] = make(map[string]bool)
		}
		if done[r.TrackerID][r.Day] {
			continue
		}
		done[r.TrackerID][r.Day] = true
		perDay[r.Day]++
		s.CompletedTotal++
	}
	if len(perDay) > 0 {
		s.AveragePerDay = s.CompletedTotal / len(perDay)
	}

	// due days per tracker, ascending
	dueDays := make(map[string][]string, len(in.Trackers))
	run := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := utils.DayKey(day, loc)
		due, completed := 0, 0
		for _, t := range in.Trackers {
			if !t.CreatedAt.IsZero() && utils.DayKey(t.CreatedAt, loc) > key {
				continue
			}
			if !utils.IsDueOn(t, day, in.FirstWeekday, loc) {
				continue
			}
			due++
			dueDays[t.ID] = append(dueDays[t.ID], key)
			if done[t.ID][key] {
				completed++
			}
		}
		if due > 0 && completed == due {
			s.PerfectDays++
			run++
			if run > s.BestPeriod {
				s.BestPeriod = run
			}
		} else {
			run = 0
		}
	}

	for _, t := range in.Trackers {
		ts := TrackerStats{ID: t.ID, Name: t.Name, Completed: len(done[t.ID])}
		ts.LongestStreak, ts.CurrentStreak = streaks(dueDays[t.ID], done[t.ID], s.To)
		s.Trackers = append(s.Trackers, ts)
	}
	sort.SliceStable(s.Trackers, func(i, j int) bool {
		return s.Trackers[i].Completed > s.Trackers[j].Completed
	})
	return s
}

// streaks counts consecutive completed due days. The current streak ends at
// the last due day; an uncompleted due day equal to last does not break it
// because that day is still in progress.
func streaks(due []string, done map[string]bool, last string) (longest, current int) {
	run := 0
	for _, d := range due {
		if done[d] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	for i := len(due) - 1; i >= 0; i-- {
		d := due[i]
		if done[d] {
			current++
			continue
		}
		if d == last && current == 0 {
			continue
		}
		break
	}
	return longest, current
}
