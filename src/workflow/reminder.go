// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package workflow

import (
	"context"
	"fmt"

	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/tools/metrics"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// DefaultReminderSchedule is the cron schedule of the overdue approval
// sweep.
const DefaultReminderSchedule = "@hourly"

// FlagOverdueApprovals flags the planned approval tasks whose deadline
// has passed and posts a note on their resolution. It returns the number
// of flagged tasks.
func (e *Engine) FlagOverdueApprovals(ctx context.Context) (int, error) {
	var overdue []*models.Activity
	err := e.db.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env models.Environment) {
		overdue = env.OverdueActivities(e.now())
		for _, act := range overdue {
			env.FlagOverdue(act.ID)
		}
	})
	if err != nil {
		return 0, err
	}
	for _, act := range overdue {
		if act.ResModel != models.ResolutionModel {
			continue
		}
		note := fmt.Sprintf("Approval overdue: the deadline of %s has passed.", act.DateDeadline.UTC().Format("2006-01-02 15:04 MST"))
		if err := e.audit.PostAuditNote(ctx, act.ResID, security.SuperUserID, note); err != nil {
			metrics.SideEffectFailures.WithLabelValues("audit").Inc()
			log.Warn("Unable to post overdue note", "resolution", act.ResID, "error", err)
		}
	}
	metrics.OverdueApprovals.Add(float64(len(overdue)))
	if len(overdue) > 0 {
		log.Info("Flagged overdue approval tasks", "count", len(overdue))
	}
	return len(overdue), nil
}

// StartReminder schedules FlagOverdueApprovals with the given cron
// schedule and starts the scheduler. The caller must stop it.
func (e *Engine) StartReminder(schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := e.FlagOverdueApprovals(context.Background()); err != nil {
			log.Error("Overdue approval sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid reminder schedule %q", schedule)
	}
	c.Start()
	return c, nil
}
