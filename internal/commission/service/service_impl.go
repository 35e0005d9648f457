package service

import (
	"context"
	"strings"

	auditdomain "github.com/agendabela/agendabela/internal/audit/domain"
	"github.com/agendabela/agendabela/internal/clock"
	"github.com/agendabela/agendabela/internal/commission/domain"
	obsmetrics "github.com/agendabela/agendabela/internal/observability/metrics"
	"github.com/agendabela/agendabela/internal/scopectx"
	"github.com/agendabela/agendabela/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	auditSvc auditdomain.Service
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("commission.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) CreateRule(ctx context.Context, req domain.CreateRuleRequest) (domain.CommissionRule, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok || sc.TenantID == 0 {
		return domain.CommissionRule{}, domain.ErrInvalidScope
	}

	professionalID, err := snowflake.ParseString(strings.TrimSpace(req.ProfessionalID))
	if err != nil || professionalID == 0 {
		return domain.CommissionRule{}, domain.ErrInvalidProfessional
	}

	if req.Type != domain.CommissionTypeService && req.Type != domain.CommissionTypePackage {
		return domain.CommissionRule{}, domain.ErrInvalidType
	}

	targetID, err := snowflake.ParseString(strings.TrimSpace(req.TargetID))
	if err != nil || targetID == 0 {
		return domain.CommissionRule{}, domain.ErrInvalidTarget
	}

	if req.Calculation != domain.CalculationTypeFixed && req.Calculation != domain.CalculationTypePercentage {
		return domain.CommissionRule{}, domain.ErrInvalidCalculation
	}

	value, err := decimal.NewFromString(strings.TrimSpace(req.Value))
	if err != nil || value.IsNegative() {
		return domain.CommissionRule{}, domain.ErrInvalidValue
	}
	if req.Calculation == domain.CalculationTypePercentage && value.GreaterThan(oneHundred) {
		return domain.CommissionRule{}, domain.ErrInvalidValue
	}

	// One active rule per (professional, type, target); enforced here
	// instead of guessing precedence at lookup time.
	existing, err := s.repo.FindActiveRule(ctx, s.db, sc.TenantID, professionalID, req.Type, targetID)
	if err != nil {
		return domain.CommissionRule{}, err
	}
	if existing != nil {
		return domain.CommissionRule{}, domain.ErrDuplicateRule
	}

	now := s.clock.Now()
	rule := domain.CommissionRule{
		ID:             s.genID.Generate(),
		TenantID:       sc.TenantID,
		ProfessionalID: professionalID,
		Type:           req.Type,
		TargetID:       targetID,
		Calculation:    req.Calculation,
		Value:          value,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.InsertRule(ctx, s.db, &rule); err != nil {
		// Concurrent creates can slip past the read above; the partial
		// unique index still catches them.
		if db.IsDuplicateKeyErr(err) {
			return domain.CommissionRule{}, domain.ErrDuplicateRule
		}
		return domain.CommissionRule{}, err
	}

	s.audit(ctx, "commission.rule_created", rule.ID, map[string]any{
		"professional_id": professionalID.String(),
		"commission_type": string(req.Type),
		"target_id":       targetID.String(),
	})

	return rule, nil
}

func (s *Service) ListRules(ctx context.Context, professionalID string) ([]domain.CommissionRule, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidScope
	}

	var proID snowflake.ID
	if trimmed := strings.TrimSpace(professionalID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil || parsed == 0 {
			return nil, domain.ErrInvalidProfessional
		}
		proID = parsed
	}

	items, err := s.repo.ListRules(ctx, s.db, sc, proID)
	if err != nil {
		return nil, err
	}

	rules := make([]domain.CommissionRule, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		rules = append(rules, *item)
	}
	return rules, nil
}

func (s *Service) DeactivateRule(ctx context.Context, id string) error {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.ErrInvalidScope
	}

	ruleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || ruleID == 0 {
		return domain.ErrInvalidID
	}

	rule, err := s.repo.FindRuleByID(ctx, s.db, sc, ruleID)
	if err != nil {
		return err
	}
	if rule == nil {
		return domain.ErrRuleNotFound
	}

	if err := s.repo.DeactivateRule(ctx, s.db, ruleID); err != nil {
		return err
	}

	s.audit(ctx, "commission.rule_deactivated", ruleID, nil)
	return nil
}

func (s *Service) RecordServiceCommission(ctx context.Context, req domain.RecordCommissionRequest) (domain.CommissionRecord, error) {
	if req.PackageSaleID != 0 {
		return domain.CommissionRecord{}, domain.ErrPackageSettledSale
	}
	return s.record(ctx, domain.CommissionTypeService, req)
}

func (s *Service) RecordPackageCommission(ctx context.Context, req domain.RecordCommissionRequest) (domain.CommissionRecord, error) {
	return s.record(ctx, domain.CommissionTypePackage, req)
}

// record resolves the active rule for (professional, source, target) and
// derives the commission amount. Absence of a rule is not a fault: it
// yields an explicit zero-amount record with percentage/0.
func (s *Service) record(ctx context.Context, source domain.CommissionType, req domain.RecordCommissionRequest) (domain.CommissionRecord, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.CommissionRecord{}, domain.ErrInvalidScope
	}

	if req.ProfessionalID == 0 {
		return domain.CommissionRecord{}, domain.ErrInvalidProfessional
	}
	if req.TargetID == 0 {
		return domain.CommissionRecord{}, domain.ErrInvalidTarget
	}
	if req.GrossAmount.IsNegative() {
		return domain.CommissionRecord{}, domain.ErrInvalidGross
	}

	rule, err := s.repo.FindActiveRule(ctx, s.db, sc.TenantID, req.ProfessionalID, source, req.TargetID)
	if err != nil {
		return domain.CommissionRecord{}, err
	}

	calculation := domain.CalculationTypePercentage
	value := decimal.Zero
	amount := decimal.Zero
	if rule != nil {
		calculation = rule.Calculation
		value = rule.Value
		switch rule.Calculation {
		case domain.CalculationTypeFixed:
			amount = rule.Value
		case domain.CalculationTypePercentage:
			amount = req.GrossAmount.Mul(rule.Value).Div(oneHundred).Round(2)
		}
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.clock.Now()
	}

	record := domain.CommissionRecord{
		ID:               s.genID.Generate(),
		TenantID:         sc.TenantID,
		ProfessionalID:   req.ProfessionalID,
		Source:           source,
		TargetID:         req.TargetID,
		Subject:          strings.TrimSpace(req.Subject),
		GrossAmount:      req.GrossAmount,
		CommissionAmount: amount,
		Calculation:      calculation,
		Value:            value,
		OccurredAt:       occurredAt,
		CreatedAt:        s.clock.Now(),
	}

	if err := s.repo.InsertRecord(ctx, s.db, &record); err != nil {
		return domain.CommissionRecord{}, err
	}

	if s.metrics != nil {
		s.metrics.CommissionRecorded(string(source))
	}

	return record, nil
}

func (s *Service) audit(ctx context.Context, action string, targetID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := targetID.String()
	if err := s.auditSvc.AuditLog(ctx, action, "commission_rule", &target, metadata); err != nil {
		s.log.Warn("failed to write commission audit log", zap.String("action", action), zap.Error(err))
	}
}
