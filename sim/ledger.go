package sim

// LedgerEntry is the immutable audit record of one resolved turn. Every
// delta is the change actually applied after clamping, so replaying the
// ledger over the initial state reproduces the final one.
type LedgerEntry struct {
	Week        int
	Action      string
	Description string

	MoneyDelta           int
	FatiguePhysicalDelta int
	FatigueMentalDelta   int
	ReputationDelta      int
	MotivationDelta      int
	SkillChanges         map[SkillName]int
}

func (e LedgerEntry) clone() LedgerEntry {
	out := e
	if e.SkillChanges != nil {
		out.SkillChanges = make(map[SkillName]int, len(e.SkillChanges))
		for k, v := range e.SkillChanges {
			out.SkillChanges[k] = v
		}
	}
	return out
}

// MoneyTotals buckets ledger money movement for the season summary.
type MoneyTotals struct {
	Gains    int
	Expenses int
	Net      int
}

func ledgerTotals(ledger []LedgerEntry) (byAction map[string]MoneyTotals, total MoneyTotals) {
	byAction = make(map[string]MoneyTotals)
	for _, entry := range ledger {
		bucket := byAction[entry.Action]
		if entry.MoneyDelta >= 0 {
			bucket.Gains += entry.MoneyDelta
			total.Gains += entry.MoneyDelta
		} else {
			bucket.Expenses -= entry.MoneyDelta
			total.Expenses -= entry.MoneyDelta
		}
		bucket.Net += entry.MoneyDelta
		byAction[entry.Action] = bucket
	}
	total.Net = total.Gains - total.Expenses
	return byAction, total
}
