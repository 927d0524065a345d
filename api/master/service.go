package master

import (
	"TradeBudgetSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MasterService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewMasterService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &MasterService{config: cfg, pool: pool}
}

func (s *MasterService) Name() string {
	return "master"
}

func (s *MasterService) Start() error {
	go StartMasterService(s.pool)
	return nil
}

func (s *MasterService) Stop() error {
	return nil
}
