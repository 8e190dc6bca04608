package utils

import (
	"fmt"
	"time"

	cron "github.com/robfig/cron/v3"
)

// StartScheduler runs job on the given cron spec in loc and returns the
// running scheduler so the caller can stop it.
func StartScheduler(spec string, loc *time.Location, job func()) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
