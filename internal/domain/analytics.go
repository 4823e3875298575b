package domain

import (
	"fmt"
	"sort"
)

// Analytics is a pure projection of the match log plus current state.
// Nothing in this file touches storage; the dashboard service feeds it
// committed rows and publishes whatever comes back.

type NewsKind string

const (
	NewsTitleChange    NewsKind = "TITLE_CHANGE"
	NewsStreakBroken   NewsKind = "STREAK_BROKEN"
	NewsUpset          NewsKind = "UPSET"
	NewsTitleRetain    NewsKind = "TITLE_RETAIN"
	NewsGroupBadStreak NewsKind = "GROUP_BAD_STREAK"
	NewsBadStreak      NewsKind = "BAD_STREAK"
	NewsGroupStreak    NewsKind = "GROUP_STREAK"
	NewsStreak         NewsKind = "STREAK"
	NewsFinanceBad     NewsKind = "FINANCE_BAD"
	NewsInfo           NewsKind = "INFO"
)

// Lower number is shown first.
var newsPriority = map[NewsKind]int{
	NewsTitleChange:    1,
	NewsStreakBroken:   2,
	NewsUpset:          3,
	NewsTitleRetain:    4,
	NewsGroupBadStreak: 5,
	NewsBadStreak:      6,
	NewsGroupStreak:    7,
	NewsStreak:         8,
	NewsFinanceBad:     9,
	NewsInfo:           10,
}

type NewsItem struct {
	Kind      NewsKind `json:"kind"`
	Priority  int      `json:"priority"`
	Headline  string   `json:"headline"`
	Wrestlers []string `json:"wrestlers,omitempty"`
}

type MomentumItem struct {
	WrestlerID int64  `json:"wrestler_id"`
	Name       string `json:"name"`
	Streak     int    `json:"streak"`
}

type MilestoneStatus string

const (
	MilestoneGolden MilestoneStatus = "golden"
	MilestoneDanger MilestoneStatus = "danger"
	MilestoneNormal MilestoneStatus = "normal"
)

type Milestone struct {
	TitleID  int64           `json:"title_id"`
	Title    string          `json:"title"`
	Holders  []string        `json:"holders"`
	WeekWon  int             `json:"week_won"`
	DaysHeld int             `json:"days_held"`
	Status   MilestoneStatus `json:"status"`
}

type DashboardStats struct {
	CurrentWeek int            `json:"current_week"`
	CurrentCash int64          `json:"current_cash"`
	Momentum    []MomentumItem `json:"momentum"`
	Milestones  []Milestone    `json:"milestones"`
	News        []NewsItem     `json:"news"`
}

const (
	momentumThreshold = 3
	momentumLimit     = 10
	daysPerWeek       = 7
	goldenReignDays   = 100
)

// ComputeStreaks folds the log in ascending id order. A win on a
// non-negative streak increments it, a win on a losing streak flips it to
// +1; losses mirror that. A streak never passes through zero.
func ComputeStreaks(entries []MatchLogEntry) map[int64]int {
	streaks := make(map[int64]int)
	for _, e := range entries {
		for _, id := range e.Winners {
			if prev := streaks[id]; prev > 0 {
				streaks[id] = prev + 1
			} else {
				streaks[id] = 1
			}
		}
		for _, id := range e.Losers {
			if prev := streaks[id]; prev < 0 {
				streaks[id] = prev - 1
			} else {
				streaks[id] = -1
			}
		}
	}
	return streaks
}

// MomentumList picks wrestlers with |streak| >= 3, hottest (by magnitude)
// first, capped to the top ten. Ties break on wrestler id for stable output.
func MomentumList(streaks map[int64]int, names map[int64]string) []MomentumItem {
	var items []MomentumItem
	for id, streak := range streaks {
		if streak >= momentumThreshold || streak <= -momentumThreshold {
			items = append(items, MomentumItem{WrestlerID: id, Name: names[id], Streak: streak})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := abs(items[i].Streak), abs(items[j].Streak)
		if a != b {
			return a > b
		}
		return items[i].WrestlerID < items[j].WrestlerID
	})
	if len(items) > momentumLimit {
		items = items[:momentumLimit]
	}
	return items
}

// MilestoneFor converts a held title into its milestone entry.
func MilestoneFor(title Title, holders []string, currentWeek int) Milestone {
	days := (currentWeek - title.WeekWon) * daysPerWeek
	status := MilestoneNormal
	switch {
	case days >= goldenReignDays:
		status = MilestoneGolden
	case days > 25 && days < 30:
		status = MilestoneDanger
	}
	return Milestone{
		TitleID:  title.ID,
		Title:    title.Name,
		Holders:  holders,
		WeekWon:  title.WeekWon,
		DaysHeld: days,
		Status:   status,
	}
}

// BuildNewsFeed derives the feed from the last completed week's log entries
// plus the streak delta between the full fold and the fold excluding that
// week. The feed is never empty: an INFO placeholder fills a quiet week.
func BuildNewsFeed(
	lastWeek []MatchLogEntry,
	streaks map[int64]int,
	prevStreaks map[int64]int,
	names map[int64]string,
	financeBad bool,
) []NewsItem {
	var items []NewsItem

	wonLastWeek := make(map[int64]bool)
	lostLastWeek := make(map[int64]bool)
	for _, e := range lastWeek {
		for _, id := range e.Winners {
			wonLastWeek[id] = true
		}
		for _, id := range e.Losers {
			lostLastWeek[id] = true
		}

		if e.TitleName != "" {
			if e.IsTitleChange {
				items = append(items, newsItem(NewsTitleChange,
					fmt.Sprintf("New champion! %s captured the %s", e.WinnerName, e.TitleName),
					e.WinnerName))
			} else {
				items = append(items, newsItem(NewsTitleRetain,
					fmt.Sprintf("%s retained the %s against %s", e.WinnerName, e.TitleName, e.LoserName),
					e.WinnerName))
			}
		}
	}

	var hot, cold []string
	for id := range wonLastWeek {
		if prevStreaks[id] <= -momentumThreshold {
			items = append(items, newsItem(NewsStreakBroken,
				fmt.Sprintf("%s finally snapped the losing skid", names[id]), names[id]))
		}
		if streaks[id] >= momentumThreshold {
			hot = append(hot, names[id])
		}
	}
	for id := range lostLastWeek {
		if prevStreaks[id] >= momentumThreshold {
			items = append(items, newsItem(NewsUpset,
				fmt.Sprintf("Upset! %s's win streak came to an end", names[id]), names[id]))
		}
		if streaks[id] <= -momentumThreshold {
			cold = append(cold, names[id])
		}
	}
	sort.Strings(hot)
	sort.Strings(cold)

	switch {
	case len(hot) > 1:
		items = append(items, newsItem(NewsGroupStreak,
			fmt.Sprintf("%d luchadores are on a roll", len(hot)), hot...))
	case len(hot) == 1:
		items = append(items, newsItem(NewsStreak,
			fmt.Sprintf("%s keeps on winning", hot[0]), hot[0]))
	}
	switch {
	case len(cold) > 1:
		items = append(items, newsItem(NewsGroupBadStreak,
			fmt.Sprintf("%d luchadores can't buy a win", len(cold)), cold...))
	case len(cold) == 1:
		items = append(items, newsItem(NewsBadStreak,
			fmt.Sprintf("%s keeps coming up short", cold[0]), cold[0]))
	}

	if financeBad {
		items = append(items, newsItem(NewsFinanceBad,
			"The promotion lost money last week"))
	}

	if len(items) == 0 {
		items = append(items, newsItem(NewsInfo, "A quiet week in the promotion"))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
	return items
}

func newsItem(kind NewsKind, headline string, wrestlers ...string) NewsItem {
	return NewsItem{
		Kind:      kind,
		Priority:  newsPriority[kind],
		Headline:  headline,
		Wrestlers: wrestlers,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
