// Package health tracks whether MongoDB is reachable so write paths can
// fail fast instead of hanging on a dead connection.
package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"rakshak-service/helper"
	"rakshak-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type Monitor struct {
	pinger   Pinger
	schedule string
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger

	up   atomic.Bool
	cron *cron.Cron
}

func NewMonitor(pinger Pinger, schedule string, timeout time.Duration, m *metrics.Metrics, logger *zap.SugaredLogger) *Monitor {
	if schedule == "" {
		schedule = "@every 5s"
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Monitor{
		pinger:   pinger,
		schedule: schedule,
		timeout:  timeout,
		metrics:  m,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
	}
}

func (m *Monitor) Available() bool {
	return m.up.Load()
}

// Probe pings the store once and updates the availability flag.
func (m *Monitor) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx, readpref.Primary())
	up := err == nil

	if prev := m.up.Swap(up); prev != up {
		if up {
			m.logger.Infow("mongodb reachable")
		} else {
			m.logger.Warnw("mongodb unreachable", "error", err)
		}
	}
	m.metrics.SetStoreUp(up)
	return up
}

// Start probes once and then on the configured schedule.
func (m *Monitor) Start() error {
	m.Probe(context.Background())

	if _, err := m.cron.AddFunc(m.schedule, func() {
		m.Probe(context.Background())
	}); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// Handler always answers 200 so the process is considered alive; the
// database field reports the last probe.
func (m *Monitor) Handler(c *gin.Context) {
	db := "disconnected"
	if m.Available() {
		db = "connected"
	}
	helper.SendSuccess(c, http.StatusOK, "success", Status{
		Status:   "ok",
		Database: db,
		Time:     time.Now().UTC().Format(time.RFC3339),
	})
}
