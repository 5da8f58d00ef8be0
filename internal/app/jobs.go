package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@daily", a.SchedClearExpireData)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedClearExpireData purges audit records past the retention window
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := a.PurgeAuditLogs(ctx, time.Now())
	if err != nil {
		zap.S().Errorf("purge audit logs: %v", err)
		return
	}
	if n > 0 {
		zap.S().Infof("purged %d audit records", n)
	}
}

// PurgeAuditLogs deletes audit records older than the configured retention.
// A retention of zero or less keeps everything.
func (a *Application) PurgeAuditLogs(ctx context.Context, now time.Time) (int64, error) {
	days := a.appConfig.System.AuditRetentionDays
	if days <= 0 {
		return 0, nil
	}
	return a.logs.DeleteBefore(ctx, now.AddDate(0, 0, -days))
}
