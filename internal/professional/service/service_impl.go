package service

import (
	"context"
	"strings"
	"time"

	"github.com/agendabela/agendabela/internal/professional/domain"
	"github.com/agendabela/agendabela/internal/scopectx"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("professional.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProfessionalRequest) (domain.Professional, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok || sc.TenantID == 0 {
		return domain.Professional{}, domain.ErrInvalidScope
	}

	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		return domain.Professional{}, domain.ErrInvalidIdentity
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Professional{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	professional := domain.Professional{
		ID:        s.genID.Generate(),
		TenantID:  sc.TenantID,
		Identity:  identity,
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &professional); err != nil {
		return domain.Professional{}, err
	}

	return professional, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Professional, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidScope
	}

	items, err := s.repo.List(ctx, s.db, sc)
	if err != nil {
		return nil, err
	}

	professionals := make([]domain.Professional, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		professionals = append(professionals, *item)
	}
	return professionals, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetProfessionalRequest) (domain.Professional, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.Professional{}, domain.ErrInvalidScope
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Professional{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, sc, id)
	if err != nil {
		return domain.Professional{}, err
	}
	if item == nil {
		return domain.Professional{}, domain.ErrNotFound
	}

	return *item, nil
}
