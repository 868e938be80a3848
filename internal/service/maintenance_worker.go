package service

import (
	"context"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	// maintenanceLockKey makes a single instance run the nightly job.
	maintenanceLockKey = "maintenance:leader"
	maintenanceLockTTL = 2 * time.Minute
)

var unlockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// MaintenanceWorker rebuilds slot reservations after midnight and tells queue
// subscribers that the day rolled over.
type MaintenanceWorker struct {
	log          *logrus.Logger
	redisClient  *redis.Client
	reservations *SlotReservationService
	notifier     QueueNotifier
	loc          *time.Location
	spec         string

	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewMaintenanceWorker(
	log *logrus.Logger,
	redisClient *redis.Client,
	reservations *SlotReservationService,
	notifier QueueNotifier,
	loc *time.Location,
	spec string,
) *MaintenanceWorker {
	return &MaintenanceWorker{
		log:          log,
		redisClient:  redisClient,
		reservations: reservations,
		notifier:     notifier,
		loc:          loc,
		spec:         spec,
	}
}

// Start schedules the job in the clinic time zone. An invalid spec falls back to @daily.
func (w *MaintenanceWorker) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	c := cron.New(cron.WithLocation(w.loc))
	if _, err := c.AddFunc(w.spec, func() { w.RunOnce(runCtx) }); err != nil {
		w.log.Warnf("Invalid maintenance cron spec %q, falling back to @daily: %+v", w.spec, err)
		c = cron.New(cron.WithLocation(w.loc))
		_, _ = c.AddFunc("@daily", func() { w.RunOnce(runCtx) })
	}
	c.Start()
	w.cron = c
	w.log.Infof("Maintenance worker scheduled (%s)", w.spec)
}

// Stop waits for a running job to finish.
func (w *MaintenanceWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	w.log.Info("Maintenance worker stopped")
}

func (w *MaintenanceWorker) RunOnce(ctx context.Context) {
	token := uuid.NewString()
	acquired, err := w.redisClient.SetNX(ctx, maintenanceLockKey, token, maintenanceLockTTL).Result()
	if err != nil {
		w.log.Warnf("Maintenance leader lock attempt failed: %+v", err)
		return
	}
	if !acquired {
		w.log.Info("Maintenance leader lock held by another instance")
		return
	}
	defer func() {
		if err := unlockScript.Run(context.WithoutCancel(ctx), w.redisClient, []string{maintenanceLockKey}, token).Err(); err != nil {
			w.log.Warnf("Failed to release maintenance lock: %+v", err)
		}
	}()

	if err := w.reservations.SyncOnStartup(ctx); err != nil {
		w.log.Warnf("Nightly slot reservation re-sync failed: %+v", err)
	}

	w.notifier.Publish(ctx, time.Now().In(w.loc).Format(entity.DateLayout))
}
