package jobs

import (
	"clinicdesk/cmd/internal/cache"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/utils"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Start schedules the nightly maintenance jobs and returns the running
// scheduler so the caller can stop it on shutdown.
//
// The cache rollover exists because financial summaries are cached per
// month: when the date changes the "current month" aggregates would
// otherwise serve yesterday's numbers for up to the cache TTL.
func Start(db *gorm.DB, invalidator cache.Invalidator) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@midnight", func() {
		invalidator.InvalidateFinancials()
		log.Info("rolled over financial dashboard cache")
	})
	if err != nil {
		log.Errorf("failed to schedule cache rollover: %v", err)
	}

	_, err = c.AddFunc("@midnight", func() {
		count, err := repository.NewInviteRepository(db).DeleteExpiredPending(utils.NowUTC())
		if err != nil {
			log.Errorf("failed to purge expired invites: %v", err)
			return
		}
		if count > 0 {
			log.Infof("purged %d expired invites", count)
		}
	})
	if err != nil {
		log.Errorf("failed to schedule invite purge: %v", err)
	}

	c.Start()
	return c
}
