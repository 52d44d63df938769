package leaderboarddisplay

import (
	"slices"
	"strconv"
	"sync"

	leaderboardservice "github.com/cuwais/cuwais-portal/app/modules/leaderboard/application"
	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
)

// Row is one rendered slot. A blank row has been created but not populated.
type Row struct {
	Position string
	Name     string
	Score    string
	Role     leaderboarddomain.Role
	Wins     int
	Losses   int
	Draws    int
	Blank    bool
}

// RowFor renders a populated slot.
func RowFor(slot leaderboarddomain.Slot) Row {
	return Row{
		Position: slot.Position.String(),
		Name:     slot.Entry.DisplayName,
		Score:    slot.Entry.Label(),
		Role:     slot.Entry.Role(),
		Wins:     slot.Entry.Wins,
		Losses:   slot.Entry.Losses,
		Draws:    slot.Entry.Draws,
	}
}

// Record is the W/L/D summary shown next to the score.
func (r Row) Record() string {
	return strconv.Itoa(r.Wins) + "/" + strconv.Itoa(r.Losses) + "/" + strconv.Itoa(r.Draws)
}

// Board is an in-memory display that other surfaces read snapshots from.
type Board struct {
	mu   sync.RWMutex
	rows []Row
}

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) RemoveSlot(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.rows) {
		return
	}
	b.rows = slices.Delete(b.rows, index, index+1)
}

func (b *Board) CreateSlot(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index > len(b.rows) {
		return
	}
	b.rows = slices.Insert(b.rows, index, Row{Blank: true})
}

func (b *Board) PopulateSlot(slot leaderboarddomain.Slot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if slot.Index < 0 || slot.Index >= len(b.rows) {
		return
	}
	b.rows[slot.Index] = RowFor(slot)
}

// Rows returns a copy of the current rows.
func (b *Board) Rows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.rows)
}

var _ leaderboardservice.Display = (*Board)(nil)

// Multi fans every slot operation out to each display in order.
type Multi []leaderboardservice.Display

func (m Multi) RemoveSlot(index int) {
	for _, d := range m {
		d.RemoveSlot(index)
	}
}

func (m Multi) CreateSlot(index int) {
	for _, d := range m {
		d.CreateSlot(index)
	}
}

func (m Multi) PopulateSlot(slot leaderboarddomain.Slot) {
	for _, d := range m {
		d.PopulateSlot(slot)
	}
}

var _ leaderboardservice.Display = Multi(nil)
