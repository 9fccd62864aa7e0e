package domain

import (
	"math"
	"sort"
)

// GroupItem is one competency or task of a group, in curriculum order.
type GroupItem struct {
	ID       string
	Label    string
	Count    int
	Improved int
	Hours    float64
}

type ScoredItem struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Improved int     `json:"improved"`
	Hours    float64 `json:"hours"`
	Credit   float64 `json:"credit"`
	State    State   `json:"state"`
}

type ScoredGroup struct {
	Done       []ScoredItem
	InProgress []ScoredItem
	Pending    []ScoredItem
	Items      int
	Pct        int
}

// ScoreGroup buckets the items under policy. Done and in-progress items are
// ordered by count, most practiced first, ties keep curriculum order.
// An empty group scores 0.
func ScoreGroup(items []GroupItem, policy Policy) ScoredGroup {
	g := ScoredGroup{
		Done:       []ScoredItem{},
		InProgress: []ScoredItem{},
		Pending:    []ScoredItem{},
		Items:      len(items),
	}
	sum := 0
	for _, item := range items {
		scored := ScoredItem{
			ID:       item.ID,
			Label:    item.Label,
			Count:    item.Count,
			Improved: item.Improved,
			Hours:    roundHours(item.Hours),
			Credit:   policy.Credit(item.Count),
			State:    policy.State(item.Count),
		}
		sum += policy.creditHundredths(item.Count)
		switch scored.State {
		case StateDone:
			g.Done = append(g.Done, scored)
		case StateInProgress:
			g.InProgress = append(g.InProgress, scored)
		default:
			g.Pending = append(g.Pending, scored)
		}
	}
	byCount := func(list []ScoredItem) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Count > list[j].Count })
	}
	byCount(g.Done)
	byCount(g.InProgress)
	g.Pct = percent(sum, len(items))
	return g
}

// percent rounds 100 * Σcredit / n, with credit in hundredths.
func percent(sumHundredths, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sumHundredths) / float64(n)))
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
