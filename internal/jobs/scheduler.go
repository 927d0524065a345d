package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"TradeBudgetSaas/internal/config"
	"TradeBudgetSaas/internal/logger"
	"TradeBudgetSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// CronService runs the housekeeping schedule: audit-log retention and
// expired-session sweeps.
type CronService struct {
	config        map[string]interface{}
	pool          *pgxpool.Pool
	cron          *cron.Cron
	retentionDays int
	schedule      string
}

func NewCronService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	retention := config.DefaultAuditRetentionDays
	schedule := config.DefaultRetentionSchedule
	if cfg != nil {
		if v, ok := cfg["audit_retention_days"].(int); ok && v > 0 {
			retention = v
		}
		if v, ok := cfg["audit_retention_days"].(float64); ok && v > 0 {
			retention = int(v)
		}
		if v, ok := cfg["retention_schedule"].(string); ok && v != "" {
			schedule = v
		}
	}
	return &CronService{
		config:        cfg,
		pool:          pool,
		retentionDays: retention,
		schedule:      schedule,
	}
}

func (s *CronService) Name() string { return "cron" }

func (s *CronService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.purgeOldAuditActions); err != nil {
		return fmt.Errorf("failed to schedule audit retention: %w", err)
	}
	s.cron.Start()
	log.Printf("Cron service started, retention schedule %q (%d days)", s.schedule, s.retentionDays)
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started")
	}
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

func (s *CronService) purgeOldAuditActions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM audit_actions WHERE requested_at < now() - ($1 || ' days')::interval`,
		fmt.Sprint(s.retentionDays))
	if err != nil {
		log.Printf("[ERROR] audit retention purge failed: %v", err)
		return
	}
	if tag.RowsAffected() > 0 && logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("Purged %d audit actions past retention", tag.RowsAffected()))
	}
}
