package service

import (
	"context"
	"strings"
	"time"

	"github.com/agendabela/agendabela/internal/catalog/domain"
	"github.com/agendabela/agendabela/internal/scopectx"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
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

func New(p Params) domain.CatalogService {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateService(ctx context.Context, req domain.CreateServiceRequest) (domain.Service, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok || sc.TenantID == 0 {
		return domain.Service{}, domain.ErrInvalidScope
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Service{}, domain.ErrInvalidName
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return domain.Service{}, err
	}

	now := time.Now().UTC()
	service := domain.Service{
		ID:        s.genID.Generate(),
		TenantID:  sc.TenantID,
		Name:      name,
		Price:     price,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertService(ctx, s.db, &service); err != nil {
		return domain.Service{}, err
	}

	return service, nil
}

func (s *Service) GetServiceByID(ctx context.Context, req domain.GetRequest) (domain.Service, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.Service{}, domain.ErrInvalidScope
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Service{}, err
	}

	item, err := s.repo.FindServiceByID(ctx, s.db, sc, id)
	if err != nil {
		return domain.Service{}, err
	}
	if item == nil {
		return domain.Service{}, domain.ErrServiceNotFound
	}

	return *item, nil
}

func (s *Service) ListServices(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidScope
	}

	items, err := s.repo.ListServices(ctx, s.db, sc, activeOnly)
	if err != nil {
		return nil, err
	}
	return dereference(items), nil
}

func (s *Service) CreatePackage(ctx context.Context, req domain.CreatePackageRequest) (domain.Package, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok || sc.TenantID == 0 {
		return domain.Package{}, domain.ErrInvalidScope
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Package{}, domain.ErrInvalidName
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return domain.Package{}, err
	}

	if req.ExpiresAfterDays != nil && *req.ExpiresAfterDays <= 0 {
		return domain.Package{}, domain.ErrInvalidExpiry
	}

	if len(req.Items) == 0 {
		return domain.Package{}, domain.ErrInvalidItems
	}

	now := time.Now().UTC()
	seen := make(map[snowflake.ID]struct{}, len(req.Items))
	items := make([]domain.PackageItem, 0, len(req.Items))
	for i, item := range req.Items {
		serviceID, err := parseID(item.ServiceID)
		if err != nil {
			return domain.Package{}, err
		}
		if item.Quantity <= 0 {
			return domain.Package{}, domain.ErrInvalidQuantity
		}
		if _, dup := seen[serviceID]; dup {
			return domain.Package{}, domain.ErrDuplicateService
		}
		seen[serviceID] = struct{}{}

		service, err := s.repo.FindServiceByID(ctx, s.db, sc, serviceID)
		if err != nil {
			return domain.Package{}, err
		}
		if service == nil {
			return domain.Package{}, domain.ErrServiceNotFound
		}

		items = append(items, domain.PackageItem{
			ID:        s.genID.Generate(),
			ServiceID: serviceID,
			Quantity:  item.Quantity,
			Position:  i,
			CreatedAt: now,
		})
	}

	pkg := domain.Package{
		ID:               s.genID.Generate(),
		TenantID:         sc.TenantID,
		Name:             name,
		Price:            price,
		ExpiresAfterDays: req.ExpiresAfterDays,
		Active:           true,
		Items:            items,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.InsertPackage(ctx, s.db, &pkg); err != nil {
		return domain.Package{}, err
	}

	return pkg, nil
}

func (s *Service) GetPackageByID(ctx context.Context, req domain.GetRequest) (domain.Package, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.Package{}, domain.ErrInvalidScope
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Package{}, err
	}

	item, err := s.repo.FindPackageByID(ctx, s.db, sc, id)
	if err != nil {
		return domain.Package{}, err
	}
	if item == nil {
		return domain.Package{}, domain.ErrPackageNotFound
	}

	return *item, nil
}

func (s *Service) ListPackages(ctx context.Context, activeOnly bool) ([]domain.Package, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidScope
	}

	items, err := s.repo.ListPackages(ctx, s.db, sc, activeOnly)
	if err != nil {
		return nil, err
	}

	packages := make([]domain.Package, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		packages = append(packages, *item)
	}
	return packages, nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || price.IsNegative() {
		return decimal.Zero, domain.ErrInvalidPrice
	}
	return price, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func dereference(items []*domain.Service) []domain.Service {
	services := make([]domain.Service, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		services = append(services, *item)
	}
	return services
}
