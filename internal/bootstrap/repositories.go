package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waypointlabs/prizehunt/internal/database/postgres"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	User     repository.User
	Prize    repository.Prize
	Reward   repository.RewardInventory
	Capture  repository.Capture
	Purchase repository.Purchase
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:     postgres.NewUserRepository(dbPool),
		Prize:    postgres.NewPrizeRepository(dbPool),
		Reward:   postgres.NewRewardRepository(dbPool),
		Capture:  postgres.NewCaptureRepository(dbPool),
		Purchase: postgres.NewPurchaseRepository(dbPool),
	}
}
