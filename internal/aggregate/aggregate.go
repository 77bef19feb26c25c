// Package aggregate groups, counts and ranks interaction records.
//
// Every grouping keeps keys in first-seen order, so output built from it is
// reproducible for a given record sequence.
package aggregate

import (
	"sort"

	"github.com/fakeyudi/ailog/internal/activity"
)

// Groups maps keys to the records that produced them, in insertion order.
type Groups struct {
	keys    []string
	members map[string][]activity.Record
}

// KeyFunc extracts a grouping key from a record.
type KeyFunc func(activity.Record) string

// GroupBy partitions records by key. Records keep their relative order
// within a group; keys are ordered by first occurrence.
func GroupBy(records []activity.Record, key KeyFunc) *Groups {
	g := &Groups{members: make(map[string][]activity.Record)}
	for _, rec := range records {
		k := key(rec)
		if _, ok := g.members[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.members[k] = append(g.members[k], rec)
	}
	return g
}

// Keys returns the group keys in first-seen order.
func (g *Groups) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the records grouped under key.
func (g *Groups) Get(key string) []activity.Record {
	return g.members[key]
}

// Count returns the number of records grouped under key.
func (g *Groups) Count(key string) int {
	return len(g.members[key])
}

// Len returns the number of distinct keys.
func (g *Groups) Len() int {
	return len(g.keys)
}

// ByTool groups by tool name.
func ByTool(r activity.Record) string { return r.Tool }

// ByProject groups by the final path segment of the working directory.
func ByProject(r activity.Record) string { return r.Project() }

// BySession groups by session id.
func BySession(r activity.Record) string { return r.SessionID }

// ByDay groups by UTC calendar day.
func ByDay(r activity.Record) string { return r.Day() }

// ByCategory groups by Categorize.
func ByCategory(r activity.Record) string { return Categorize(r) }

// Entry is one ranked key.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Rank orders the groups by count, highest first. Equal counts keep
// first-seen order.
func Rank(g *Groups) []Entry {
	out := make([]Entry, 0, g.Len())
	for _, k := range g.keys {
		out = append(out, Entry{Key: k, Count: len(g.members[k])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Top returns the first n ranked entries.
func Top(entries []Entry, n int) []Entry {
	if n >= 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}

// Ratio divides num by den, treating a zero denominator as 1.
func Ratio(num, den int) float64 {
	if den == 0 {
		den = 1
	}
	return float64(num) / float64(den)
}

// Percent returns part as a percentage of total, or 0 for an empty total.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// OutcomeCounts tallies records by outcome.
func OutcomeCounts(records []activity.Record) map[activity.Outcome]int {
	counts := make(map[activity.Outcome]int, len(activity.Outcomes))
	for _, rec := range records {
		counts[rec.Outcome]++
	}
	return counts
}

// CountTools returns the number of records whose tool is one of names.
func CountTools(records []activity.Record, names ...string) int {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	n := 0
	for _, rec := range records {
		if _, ok := set[rec.Tool]; ok {
			n++
		}
	}
	return n
}

// Unique returns the distinct non-empty values of fn over records, in
// first-seen order.
func Unique(records []activity.Record, fn func(activity.Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		v := fn(rec)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// DistinctCount counts distinct non-empty values of fn over records.
func DistinctCount(records []activity.Record, fn func(activity.Record) string) int {
	return len(Unique(records, fn))
}
