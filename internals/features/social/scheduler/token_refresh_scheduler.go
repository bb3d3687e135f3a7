// file: internals/features/social/scheduler/token_refresh_scheduler.go
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"schoolchamps_backend/internals/features/social/service"
)

// refreshHorizon: anything expiring within a day is rotated proactively
// so a post never hits a token that died overnight.
const refreshHorizon = 24 * time.Hour

// StartTokenRefreshScheduler rotates expiring social tokens once a day.
// Returns the running cron so main can stop it on shutdown.
func StartTokenRefreshScheduler(registry *service.Registry) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		log.Println("⏰ [SCHEDULER] social token sweep starting")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		registry.SweepExpiring(ctx, refreshHorizon)
		log.Println("✅ [SCHEDULER] social token sweep done")
	})
	if err != nil {
		log.Printf("❌ [SCHEDULER] failed to register token sweep: %v", err)
		return c
	}

	c.Start()
	log.Println("🕒 [SCHEDULER] daily social token sweep registered (03:00)")
	return c
}
