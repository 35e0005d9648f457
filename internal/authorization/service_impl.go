package authorization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	auditdomain "github.com/agendabela/agendabela/internal/audit/domain"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectService          = "service"
	ObjectPackage          = "package"
	ObjectPackageSale      = "package_sale"
	ObjectSession          = "session"
	ObjectCommissionRule   = "commission_rule"
	ObjectCommissionRecord = "commission_record"
	ObjectReport           = "report"
	ObjectCustomer         = "customer"
	ObjectProfessional     = "professional"
	ObjectAuditLog         = "audit_log"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionPackageSaleSell  = "package_sale.sell"
	ActionPackageSaleRenew = "package_sale.renew"

	ActionSessionConsume = "session.consume"

	ActionReportExport = "report.export"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

type Service interface {
	// Authorize checks that the resolved scope may perform action on
	// object inside its tenant domain.
	Authorize(ctx context.Context, sc scopedomain.Scope, object, action string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, sc scopedomain.Scope, object, action string) error {
	if sc.IsZero() {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := subjectFor(sc)
	roleName := "role:" + string(sc.Role)
	domain := fmt.Sprintf("tenant:%s", sc.TenantID)

	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, object, action)
		return ErrForbidden
	}
	return nil
}

func subjectFor(sc scopedomain.Scope) string {
	if sc.Role == scopedomain.RoleProfessional && sc.ProfessionalID != 0 {
		return fmt.Sprintf("professional:%s", sc.ProfessionalID)
	}
	return fmt.Sprintf("%s:tenant:%s", sc.Role, sc.TenantID)
}

func (s *ServiceImpl) ensureGrouping(subject, roleName, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, object, action string) {
	if s.auditSvc == nil {
		return
	}
	targetID := "capability"
	_ = s.auditSvc.AuditLog(ctx, "authorization.denied", "authorization", &targetID, map[string]any{
		"object": object,
		"action": action,
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	managed := []string{
		ObjectService,
		ObjectPackage,
		ObjectPackageSale,
		ObjectCommissionRule,
		ObjectCustomer,
		ObjectProfessional,
	}

	policies := [][]string{
		// Professionals deliver sessions and read their own ledger.
		{"role:professional", ObjectService, ActionView},
		{"role:professional", ObjectPackage, ActionView},
		{"role:professional", ObjectPackageSale, ActionView},
		{"role:professional", ObjectSession, ActionView},
		{"role:professional", ObjectSession, ActionSessionConsume},
		{"role:professional", ObjectCommissionRecord, ActionView},
		{"role:professional", ObjectReport, ActionView},
	}

	for _, role := range []string{"role:tenant", "role:admin"} {
		for _, object := range managed {
			policies = append(policies,
				[]string{role, object, ActionView},
				[]string{role, object, ActionCreate},
				[]string{role, object, ActionUpdate},
				[]string{role, object, ActionDelete},
			)
		}
		policies = append(policies,
			[]string{role, ObjectPackageSale, ActionPackageSaleSell},
			[]string{role, ObjectPackageSale, ActionPackageSaleRenew},
			[]string{role, ObjectSession, ActionView},
			[]string{role, ObjectSession, ActionSessionConsume},
			[]string{role, ObjectCommissionRecord, ActionView},
			[]string{role, ObjectCommissionRecord, ActionCreate},
			[]string{role, ObjectReport, ActionView},
			[]string{role, ObjectReport, ActionReportExport},
			[]string{role, ObjectAuditLog, ActionView},
		)
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
