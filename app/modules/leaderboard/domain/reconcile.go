package leaderboarddomain

// Slot is a populated display slot.
type Slot struct {
	Index    int
	Position Position
	Entry    Entry
}

// Plan is the set of display changes that take a board of oldLen slots to a
// new ranking. Removals and creations are structural and must be applied
// before any population. Remove is ordered from the highest index down so an
// index-addressed display stays valid while it shrinks.
type Plan struct {
	Remove   []int
	Create   []int
	Populate []Slot
}

// Reconcile plans the transition from oldLen slots to ranking.
func Reconcile(oldLen int, ranking []Entry) Plan {
	var plan Plan
	for i := oldLen - 1; i >= len(ranking); i-- {
		plan.Remove = append(plan.Remove, i)
	}
	for i := oldLen; i < len(ranking); i++ {
		plan.Create = append(plan.Create, i)
	}

	positions := Positions(ranking)
	plan.Populate = make([]Slot, len(ranking))
	for i, e := range ranking {
		plan.Populate[i] = Slot{Index: i, Position: positions[i], Entry: e}
	}
	return plan
}
