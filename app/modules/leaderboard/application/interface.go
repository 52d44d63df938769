package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// Display is an index-addressed list of leaderboard slots.
type Display interface {
	RemoveSlot(index int)
	CreateSlot(index int)
	PopulateSlot(slot leaderboarddomain.Slot)
}

// RankingSource fetches the current ranking from the portal.
type RankingSource interface {
	GetLeaderboard(ctx context.Context) ([]portalapi.LeaderboardEntry, error)
}

// IntroFlag persists whether the intro animation has been shown.
type IntroFlag interface {
	IntroSeen() bool
	MarkIntroSeen() error
}
