package faers

import (
	"log/slog"
	"strings"
)

// JoinDiag controls the warning thresholds for join diagnostics.
type JoinDiag struct {
	RowLossWarnPct   float64 // inner-join row loss above this warns
	KeyOverlapWarnPct float64 // key overlap below this warns
}

// DefaultJoinDiag mirrors the thresholds used for a decade of drops.
var DefaultJoinDiag = JoinDiag{RowLossWarnPct: 20.0, KeyOverlapWarnPct: 80.0}

// Join merges the standardized tables of one quarter into denormalized
// events. Demographics anchors the join and supplies date, age, sex, and
// country; reactions join inner (a case without reactions contributes
// nothing), drugs join left with fan-out (one event per drug x reaction),
// optional tables add nullable columns without changing the row count.
// Case identifiers absent from demographics are excluded.
func Join(tables map[TableType]*Frame, diag JoinDiag) []Event {
	demo := tables[TableDemographics]
	reac := tables[TableReaction]
	drug := tables[TableDrug]
	if demo == nil || reac == nil || drug == nil {
		return nil
	}

	// First demographics row per case wins; later rows are raw duplicates.
	demoByCase := make(map[string]Record, len(demo.Records))
	demoOrder := make([]string, 0, len(demo.Records))
	for _, rec := range demo.Records {
		id := rec[FieldCaseID]
		if _, seen := demoByCase[id]; !seen {
			demoByCase[id] = rec
			demoOrder = append(demoOrder, id)
		}
	}

	reacByCase := groupValues(reac, FieldReactionPT)
	drugByCase := groupValues(drug, FieldDrugName)
	logKeyOverlap("DEMO", "REAC", demoByCase, reacByCase, diag)
	logKeyOverlap("DEMO", "DRUG", demoByCase, drugByCase, diag)

	seriousByCase := reduceSerious(tables[TableOutcome])
	outcomeByCase := firstValue(tables[TableOutcome], FieldOutcome)
	indiByCase := firstValue(tables[TableIndication], FieldIndication)
	sourceByCase := firstValue(tables[TableReportSource], FieldSource)
	therapyByCase := firstValue(tables[TableTherapy], FieldStartDate)

	var events []Event
	seen := make(map[string]struct{})
	joinedCases := 0
	for _, id := range demoOrder {
		reactions := reacByCase[id]
		if len(reactions) == 0 {
			continue
		}
		joinedCases++
		d := demoByCase[id]
		drugs := drugByCase[id]
		if len(drugs) == 0 {
			drugs = []string{""}
		}
		for _, r := range reactions {
			for _, dn := range drugs {
				ev := Event{
					CaseID:       id,
					RawDate:      d[FieldEventDate],
					Age:          ParseAge(d[FieldAge]),
					Sex:          ParseSex(d[FieldSex]),
					Country:      d[FieldCountry],
					Drug:         dn,
					Reaction:     r,
					Serious:      seriousByCase[id],
					Outcome:      outcomeByCase[id],
					Indication:   indiByCase[id],
					ReportSource: sourceByCase[id],
					TherapyStart: therapyByCase[id],
				}
				key := ev.rowKey()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				events = append(events, ev)
			}
		}
	}

	logRowLoss("DEMO with REAC", len(demoOrder), joinedCases, diag)
	return events
}

// groupValues collects the distinct non-empty values of a field per case,
// preserving first-seen order.
func groupValues(f *Frame, field Field) map[string][]string {
	if f == nil {
		return nil
	}
	out := make(map[string][]string)
	for _, rec := range f.Records {
		v := rec[field]
		if v == "" {
			continue
		}
		id := rec[FieldCaseID]
		if contains(out[id], v) {
			continue
		}
		out[id] = append(out[id], v)
	}
	return out
}

// reduceSerious collapses the outcome table to one seriousness flag per
// case, taking the most serious outcome, so the later left join cannot
// multiply rows.
func reduceSerious(f *Frame) map[string]*bool {
	if f == nil {
		return nil
	}
	out := make(map[string]*bool)
	for _, rec := range f.Records {
		s := ParseSerious(rec[FieldSerious])
		if s == nil {
			continue
		}
		id := rec[FieldCaseID]
		if cur := out[id]; cur == nil || (!*cur && *s) {
			out[id] = s
		}
	}
	return out
}

func firstValue(f *Frame, field Field) map[string]string {
	if f == nil {
		return nil
	}
	out := make(map[string]string)
	for _, rec := range f.Records {
		v := rec[field]
		if v == "" {
			continue
		}
		id := rec[FieldCaseID]
		if _, ok := out[id]; !ok {
			out[id] = v
		}
	}
	return out
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

func logKeyOverlap(leftName, rightName string, left map[string]Record, right map[string][]string, diag JoinDiag) {
	if len(left) == 0 {
		return
	}
	overlap := 0
	for id := range left {
		if _, ok := right[id]; ok {
			overlap++
		}
	}
	pct := float64(overlap) * 100.0 / float64(len(left))
	if diag.KeyOverlapWarnPct > 0 && pct < diag.KeyOverlapWarnPct {
		slog.Warn("low key overlap between tables",
			"left", leftName, "right", rightName,
			"left_keys", len(left), "right_keys", len(right), "overlap_pct", pct)
	} else {
		slog.Debug("key overlap", "left", leftName, "right", rightName, "overlap_pct", pct)
	}
}

func logRowLoss(join string, before, after int, diag JoinDiag) {
	if before == 0 {
		return
	}
	lost := before - after
	pct := float64(lost) * 100.0 / float64(before)
	if diag.RowLossWarnPct > 0 && pct > diag.RowLossWarnPct {
		slog.Warn("high row loss in join", "join", join, "before", before, "after", after, "loss_pct", pct)
	} else if lost > 0 {
		slog.Info("row loss in join", "join", join, "before", before, "after", after, "loss_pct", pct)
	}
}

// rowKey is the full standardized row identity used for exact-duplicate
// removal, both within a quarter and across the consolidated set.
func (e Event) rowKey() string {
	age := ""
	if e.Age != nil {
		age = fmtFloat(*e.Age)
	}
	serious := ""
	if e.Serious != nil {
		if *e.Serious {
			serious = "1"
		} else {
			serious = "0"
		}
	}
	return strings.Join([]string{
		e.CaseID, e.RawDate, age, string(e.Sex), e.Country,
		e.Drug, e.Reaction, serious, e.Outcome, e.Indication,
		e.ReportSource, e.TherapyStart,
	}, "\x1f")
}
