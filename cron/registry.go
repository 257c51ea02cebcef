package cron

import (
	"context"
	"fmt"
	"log"

	"platform.GO/core/params"
	"platform.GO/platform"
)

// LabelSchedule marks a CLI action for the scheduler. Its value is a cron spec
// such as "@every 1m" or "0 * * * *".
const LabelSchedule = "schedule"

// Job holds schedule and run function.
type Job struct {
	Name     string
	Schedule string
	Run      func()
}

// Jobs returns a job for every action in svc labelled with LabelSchedule. Jobs run
// the action with its param defaults and injections resolved through res.
func Jobs(svc *platform.Service, res params.Resources) []Job {
	var jobs []Job
	for name, a := range svc.All() {
		v, ok := a.LabelValue(LabelSchedule)
		if !ok {
			continue
		}
		schedule := fmt.Sprint(v)
		jobs = append(jobs, Job{Name: name, Schedule: schedule, Run: runner(name, a, res)})
	}
	return jobs
}

func runner(name string, a *platform.Action, res params.Resources) func() {
	specs := make([]params.Spec, 0, len(a.Params()))
	for _, p := range a.Params() {
		specs = append(specs, params.Spec{
			Key:         p.Key,
			Default:     p.Default,
			Validator:   p.Validator,
			Description: p.Description,
			// scheduled runs have no input, so every param takes its default
			Optional:   true,
			Injections: p.Injections,
		})
	}
	cb := a.Handler()
	injections := a.Injections()
	return func() {
		if cb == nil {
			log.Printf("cron: job %s has no action", name)
			return
		}
		args, err := params.Resolve(specs, nil, res, injections)
		if err != nil {
			log.Printf("cron: job %s: %v", name, err)
			return
		}
		if _, err := cb(context.Background(), args); err != nil {
			log.Printf("cron: job %s failed: %v", name, err)
		}
	}
}
