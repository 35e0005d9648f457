package service

import (
	"context"
	"strings"

	professionaldomain "github.com/agendabela/agendabela/internal/professional/domain"
	"github.com/agendabela/agendabela/internal/scope/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Professionals professionaldomain.Repository
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	professionals professionaldomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("scope.service"),
		professionals: p.Professionals,
	}
}

// Resolve maps (actor identity, route tenant) to an access scope:
// a professional record in the routed tenant scopes the caller to that
// tenant with its professional ID; a routed tenant without a matching
// professional is an administrative visit pinned to that tenant; no
// routed tenant is the global admin view.
func (s *Service) Resolve(ctx context.Context, identity domain.Identity, route domain.RouteContext) (domain.Scope, error) {
	trimmed := strings.TrimSpace(string(identity))
	if trimmed == "" {
		return domain.Scope{}, domain.ErrUnauthenticated
	}

	if route.TenantID == 0 {
		return domain.Scope{Role: domain.RoleAdmin}, nil
	}

	pro, err := s.professionals.FindByIdentity(ctx, s.db, route.TenantID, trimmed)
	if err != nil {
		return domain.Scope{}, err
	}
	if pro != nil && pro.Active {
		return domain.Scope{
			Role:           domain.RoleProfessional,
			TenantID:       route.TenantID,
			ProfessionalID: pro.ID,
		}, nil
	}

	return domain.Scope{
		Role:     domain.RoleAdmin,
		TenantID: route.TenantID,
	}, nil
}
