package engine

// Outcome of resolving one (date, slot, owner) cell
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeClass
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClass:
		return "class"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Resolution result of Resolve. Entry is the deciding entry for Class and
// Cancelled outcomes and nil for None.
type Resolution struct {
	Outcome Outcome
	Entry   *Entry
}

// Specific reports whether a one-off entry decided the outcome
func (r Resolution) Specific() bool {
	return r.Entry != nil && r.Entry.Kind == KindSpecific
}

// Resolve decides what happens in slotID on date for owner.
//
// A specific entry for the exact cell always decides: the one that supersedes
// the others wins, and if it is canceled the class is cancelled. Only when no
// specific entry exists does the first matching weekly series apply.
// Holidays are not considered here.
func Resolve(date DateKey, slotID int64, owner Owner, entries []Entry) Resolution {
	if !date.Valid() {
		return Resolution{}
	}

	var latest *Entry
	for i := range entries {
		e := &entries[i]
		if e.Kind != KindSpecific || e.Date != date || e.SlotID != slotID || e.Owner != owner {
			continue
		}
		if latest == nil || Supersedes(*e, *latest) {
			latest = e
		}
	}
	if latest != nil {
		ent := *latest
		if ent.Canceled {
			return Resolution{Outcome: OutcomeCancelled, Entry: &ent}
		}
		return Resolution{Outcome: OutcomeClass, Entry: &ent}
	}

	for i := range entries {
		e := entries[i]
		if e.Kind != KindRecurring || e.Canceled || e.SlotID != slotID || e.Owner != owner {
			continue
		}
		if e.OccursOn(date) {
			return Resolution{Outcome: OutcomeClass, Entry: &e}
		}
	}
	return Resolution{}
}

// rank orders resolutions competing for one grid cell
func rank(r Resolution) int {
	switch {
	case r.Outcome == OutcomeClass && r.Specific():
		return 3
	case r.Outcome == OutcomeClass:
		return 2
	case r.Outcome == OutcomeCancelled:
		return 1
	default:
		return 0
	}
}

// ResolveSlot resolves a grid cell across every owner with an entry in it.
// A specific class beats a recurring class, which beats a cancellation.
// Among specific classes Supersedes decides; otherwise the first owner seen wins.
func ResolveSlot(date DateKey, slotID int64, entries []Entry) Resolution {
	var best Resolution
	seen := make(map[Owner]struct{})
	for _, e := range entries {
		if e.SlotID != slotID || !e.OccursOn(date) {
			continue
		}
		if _, ok := seen[e.Owner]; ok {
			continue
		}
		seen[e.Owner] = struct{}{}

		r := Resolve(date, slotID, e.Owner, entries)
		switch rb, rr := rank(best), rank(r); {
		case rr > rb:
			best = r
		case rr == rb && rr == 3 && Supersedes(*r.Entry, *best.Entry):
			best = r
		}
	}
	return best
}
