package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// Pinger is satisfied by the database and cache health checks.
type Pinger func(ctx context.Context) error

type healthUsecase struct {
	database Pinger
	cache    Pinger
}

// NewHealthUsecase takes a required database check and an optional cache
// check; a nil cache is reported as "disabled".
func NewHealthUsecase(database, cache Pinger) HealthUsecase {
	return &healthUsecase{database: database, cache: cache}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok", "cache": "disabled"}
	healthy := true

	if err := u.database(ctx); err != nil {
		status["database"] = "unavailable"
		status["status"] = "degraded"
		healthy = false
	}
	if u.cache != nil {
		if err := u.cache(ctx); err != nil {
			status["cache"] = "unavailable"
		} else {
			status["cache"] = "ok"
		}
	}
	return status, healthy
}
