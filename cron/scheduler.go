package cron

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// StartCron schedules jobs and starts the scheduler. The caller stops it.
func StartCron(jobs []Job) (*cron.Cron, error) {
	c := cron.New()
	for _, j := range jobs {
		if _, err := c.AddFunc(j.Schedule, j.Run); err != nil {
			return nil, fmt.Errorf("register job %s: %w", j.Name, err)
		}
		log.Printf("cron: scheduled %s (%s)", j.Name, j.Schedule)
	}
	c.Start()
	return c, nil
}
