package faers

import (
	"path/filepath"
	"sort"
	"strconv"

	"github.com/aetrend/aetrend-cli/internal/tabfile"
)

// Output file names inside the output directory.
const (
	EventsFile     = "faers_events.csv"
	MonthlyFile    = "monthly_counts.csv"
	ByDrugFile     = "monthly_by_drug.csv"
	ByReactionFile = "monthly_by_reaction.csv"
)

var eventsHeader = []string{
	"case_id", "event_date", "age", "sex", "country",
	"drug", "reaction_pt", "serious", "outcome", "indication",
	"report_source", "therapy_start",
}

// MonthlyCount is one month of the overall event series with the
// cardinality of distinct drugs and reactions seen that month.
type MonthlyCount struct {
	Month      string
	Count      int
	NDrugs     int
	NReactions int
}

// KeyedCount is one month of a per-drug or per-reaction series.
type KeyedCount struct {
	Month string
	Key   string
	Count int
}

// MonthlyCounts buckets events by calendar month. Events without a
// resolvable date carry no month and are excluded from time series.
func MonthlyCounts(events []Event) []MonthlyCount {
	type bucket struct {
		count     int
		drugs     map[string]struct{}
		reactions map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, ev := range events {
		ym := ev.YearMonth()
		if ym == "" {
			continue
		}
		b := buckets[ym]
		if b == nil {
			b = &bucket{drugs: make(map[string]struct{}), reactions: make(map[string]struct{})}
			buckets[ym] = b
		}
		b.count++
		if ev.Drug != "" {
			b.drugs[ev.Drug] = struct{}{}
		}
		if ev.Reaction != "" {
			b.reactions[ev.Reaction] = struct{}{}
		}
	}
	out := make([]MonthlyCount, 0, len(buckets))
	for ym, b := range buckets {
		out = append(out, MonthlyCount{Month: ym, Count: b.count, NDrugs: len(b.drugs), NReactions: len(b.reactions)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MonthlyByDrug buckets events by month and drug name.
func MonthlyByDrug(events []Event) []KeyedCount {
	return monthlyByKey(events, func(ev Event) string { return ev.Drug })
}

// MonthlyByReaction buckets events by month and reaction preferred term.
func MonthlyByReaction(events []Event) []KeyedCount {
	return monthlyByKey(events, func(ev Event) string { return ev.Reaction })
}

func monthlyByKey(events []Event, keyOf func(Event) string) []KeyedCount {
	type mk struct{ month, key string }
	buckets := make(map[mk]int)
	for _, ev := range events {
		ym := ev.YearMonth()
		key := keyOf(ev)
		if ym == "" || key == "" {
			continue
		}
		buckets[mk{ym, key}]++
	}
	out := make([]KeyedCount, 0, len(buckets))
	for k, n := range buckets {
		out = append(out, KeyedCount{Month: k.month, Key: k.key, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// WriteOutputs writes the consolidated events and the three monthly
// aggregates into outDir. All writes are atomic.
func WriteOutputs(outDir string, events []Event) error {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, eventRow(ev))
	}
	if err := tabfile.WriteCSV(filepath.Join(outDir, EventsFile), eventsHeader, rows); err != nil {
		return err
	}

	monthly := MonthlyCounts(events)
	mrows := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		mrows = append(mrows, []string{m.Month, strconv.Itoa(m.Count), strconv.Itoa(m.NDrugs), strconv.Itoa(m.NReactions)})
	}
	if err := tabfile.WriteCSV(filepath.Join(outDir, MonthlyFile), []string{"ym", "count", "n_drugs", "n_reactions"}, mrows); err != nil {
		return err
	}

	if err := writeKeyed(filepath.Join(outDir, ByDrugFile), "drug", MonthlyByDrug(events)); err != nil {
		return err
	}
	return writeKeyed(filepath.Join(outDir, ByReactionFile), "reaction_pt", MonthlyByReaction(events))
}

func writeKeyed(path, keyCol string, counts []KeyedCount) error {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Month, c.Key, strconv.Itoa(c.Count)})
	}
	return tabfile.WriteCSV(path, []string{"ym", keyCol, "count"}, rows)
}

func eventRow(ev Event) []string {
	date := ""
	if ev.Date != nil {
		date = ev.Date.Format("2006-01-02")
	}
	age := ""
	if ev.Age != nil {
		age = fmtFloat(*ev.Age)
	}
	serious := ""
	if ev.Serious != nil {
		if *ev.Serious {
			serious = "1"
		} else {
			serious = "0"
		}
	}
	return []string{
		ev.CaseID, date, age, string(ev.Sex), ev.Country,
		ev.Drug, ev.Reaction, serious, ev.Outcome, ev.Indication,
		ev.ReportSource, ev.TherapyStart,
	}
}
