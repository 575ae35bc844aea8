package maintenance

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/satyapal28/archive-server/internal/feed"
	"github.com/satyapal28/archive-server/internal/repositories/activity"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/errors"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
)

const (
	refreshTimeout   = 10 * time.Minute
	activityRetained = 90 * 24 * time.Hour
)

type Opts struct {
	fx.In

	Lc           fx.Lifecycle
	Feed         *feed.Service
	ActivityRepo activity.Repository
	Config       *config.Config
	Logger       logger.Logger
}

// Jobs owns the background schedule: a cron driven feed refresh plus a daily
// sweep of stale activity rows.
type Jobs struct {
	scheduler gocron.Scheduler
	feed      *feed.Service
	activity  activity.Repository
	logger    logger.Logger
}

func New(opts Opts) (*Jobs, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, "create scheduler")
	}

	j := &Jobs{
		scheduler: scheduler,
		feed:      opts.Feed,
		activity:  opts.ActivityRepo,
		logger:    opts.Logger.WithComponent("Maintenance"),
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(opts.Config.Feed.RefreshSchedule, false),
		gocron.NewTask(j.refreshFeed),
	)
	if err != nil {
		return nil, errors.Wrap(err, "schedule feed refresh")
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(j.cleanupActivity),
	)
	if err != nil {
		return nil, errors.Wrap(err, "schedule activity cleanup")
	}

	opts.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			j.logger.Info("Background jobs started", "refresh_schedule", opts.Config.Feed.RefreshSchedule)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Shutdown()
		},
	})

	return j, nil
}

func (j *Jobs) refreshFeed() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	j.logger.Info("Starting scheduled feed refresh")
	result := j.feed.Load(ctx)
	if result.Err != nil {
		j.logger.Error("Scheduled feed refresh degraded", "posts", result.Total, "error", result.Err)
		return
	}
	j.logger.Info("Scheduled feed refresh finished", "posts", result.Total)
}

func (j *Jobs) cleanupActivity() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := j.activity.CleanupOldRecords(ctx, activityRetained)
	if err != nil {
		j.logger.Error("Activity cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("Removed stale activity rows", "count", removed)
	}
}

var Module = fx.Module("maintenance",
	fx.Provide(New),
)
