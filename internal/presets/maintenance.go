package presets

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartMaintenance compacts the preset database on the given cron schedule.
func StartMaintenance(store Store, schedule string, logger logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()

	logger.WithField("schedule", schedule).Info("starting preset maintenance job")
	_, err := c.AddFunc(schedule, func() {
		if err := store.Vacuum(); err != nil {
			logger.WithError(err).Warn("preset maintenance failed")
			return
		}
		logger.Debug("preset database compacted")
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
