package service

import (
	"context"
	"strings"

	auditdomain "github.com/agendabela/agendabela/internal/audit/domain"
	"github.com/agendabela/agendabela/internal/clock"
	obsmetrics "github.com/agendabela/agendabela/internal/observability/metrics"
	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	"github.com/agendabela/agendabela/internal/scopectx"
	"github.com/agendabela/agendabela/internal/session/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	SaleRepo packagesaledomain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	saleRepo packagesaledomain.Repository
	auditSvc auditdomain.Service
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("session.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		saleRepo: p.SaleRepo,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Consume(ctx context.Context, req domain.ConsumeRequest) (domain.ConsumeResponse, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.ConsumeResponse{}, domain.ErrInvalidScope
	}

	saleID, err := snowflake.ParseString(strings.TrimSpace(req.SaleID))
	if err != nil || saleID == 0 {
		return domain.ConsumeResponse{}, domain.ErrInvalidID
	}
	serviceID, err := snowflake.ParseString(strings.TrimSpace(req.ServiceID))
	if err != nil || serviceID == 0 {
		return domain.ConsumeResponse{}, domain.ErrInvalidID
	}

	sessions := req.Sessions
	if sessions == 0 {
		sessions = 1
	}
	if sessions < 0 {
		return domain.ConsumeResponse{}, domain.ErrInvalidSessions
	}

	sale, err := s.saleRepo.FindSaleByID(ctx, s.db, sc, saleID)
	if err != nil {
		return domain.ConsumeResponse{}, err
	}
	if sale == nil {
		return domain.ConsumeResponse{}, domain.ErrSaleNotFound
	}

	now := s.clock.Now()

	// Expiration is checked before the balance: an expired sale is
	// unusable no matter how many sessions remain.
	if sale.IsExpired(now) {
		return domain.ConsumeResponse{}, domain.ErrSaleExpired
	}

	debited, err := s.repo.Debit(ctx, s.db, saleID, serviceID, sessions, now)
	if err != nil {
		return domain.ConsumeResponse{}, err
	}
	if !debited {
		// The guarded update matched no row: either the balance does
		// not exist, or it exists but holds fewer sessions than asked.
		balance, err := s.repo.FindBalance(ctx, s.db, saleID, serviceID)
		if err != nil {
			return domain.ConsumeResponse{}, err
		}
		if balance == nil {
			return domain.ConsumeResponse{}, domain.ErrBalanceNotFound
		}
		return domain.ConsumeResponse{}, domain.ErrInsufficientSessions
	}

	balance, err := s.repo.FindBalance(ctx, s.db, saleID, serviceID)
	if err != nil {
		return domain.ConsumeResponse{}, err
	}
	if balance == nil {
		return domain.ConsumeResponse{}, domain.ErrBalanceNotFound
	}

	s.audit(ctx, saleID, map[string]any{
		"service_id":         serviceID.String(),
		"sessions":           sessions,
		"sessions_remaining": balance.SessionsRemaining,
	})
	if s.metrics != nil {
		s.metrics.SessionsConsumed(sessions)
	}

	return domain.ConsumeResponse{Balance: *balance}, nil
}

func (s *Service) Balances(ctx context.Context, saleID string) ([]packagesaledomain.SessionBalance, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidScope
	}

	id, err := snowflake.ParseString(strings.TrimSpace(saleID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	sale, err := s.saleRepo.FindSaleByID(ctx, s.db, sc, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}

	return s.saleRepo.ListBalances(ctx, s.db, id)
}

func (s *Service) audit(ctx context.Context, saleID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := saleID.String()
	if err := s.auditSvc.AuditLog(ctx, "session.consumed", "package_sale", &target, metadata); err != nil {
		s.log.Warn("failed to write session audit log", zap.Error(err))
	}
}
