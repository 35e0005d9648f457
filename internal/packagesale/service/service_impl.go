package service

import (
	"context"
	"strings"
	"time"

	auditdomain "github.com/agendabela/agendabela/internal/audit/domain"
	catalogdomain "github.com/agendabela/agendabela/internal/catalog/domain"
	"github.com/agendabela/agendabela/internal/clock"
	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	obsmetrics "github.com/agendabela/agendabela/internal/observability/metrics"
	"github.com/agendabela/agendabela/internal/packagesale/domain"
	"github.com/agendabela/agendabela/internal/scopectx"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	Catalog       catalogdomain.Repository
	CommissionSvc commissiondomain.Service
	AuditSvc      auditdomain.Service `optional:"true"`
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          domain.Repository
	catalog       catalogdomain.Repository
	commissionSvc commissiondomain.Service
	auditSvc      auditdomain.Service
	metrics       *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("packagesale.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		catalog:       p.Catalog,
		commissionSvc: p.CommissionSvc,
		auditSvc:      p.AuditSvc,
		metrics:       p.Metrics,
	}
}

func (s *Service) Sell(ctx context.Context, req domain.SellRequest) (domain.SellResponse, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok || sc.TenantID == 0 {
		return domain.SellResponse{}, domain.ErrInvalidScope
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return domain.SellResponse{}, domain.ErrInvalidCustomer
	}

	packageID, err := snowflake.ParseString(strings.TrimSpace(req.PackageID))
	if err != nil || packageID == 0 {
		return domain.SellResponse{}, domain.ErrInvalidID
	}

	var professionalID snowflake.ID
	if trimmed := strings.TrimSpace(req.ProfessionalID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil || parsed == 0 {
			return domain.SellResponse{}, domain.ErrInvalidProfessional
		}
		professionalID = parsed
	}

	pkg, err := s.catalog.FindPackageByID(ctx, s.db, sc, packageID)
	if err != nil {
		return domain.SellResponse{}, err
	}
	if pkg == nil || !pkg.Active {
		return domain.SellResponse{}, domain.ErrPackageNotFound
	}

	return s.sell(ctx, sc, pkg, customerID, professionalID)
}

func (s *Service) Renew(ctx context.Context, saleID string) (domain.SellResponse, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok || sc.TenantID == 0 {
		return domain.SellResponse{}, domain.ErrInvalidScope
	}

	id, err := snowflake.ParseString(strings.TrimSpace(saleID))
	if err != nil || id == 0 {
		return domain.SellResponse{}, domain.ErrInvalidID
	}

	sale, err := s.repo.FindSaleByID(ctx, s.db, sc, id)
	if err != nil {
		return domain.SellResponse{}, err
	}
	if sale == nil {
		return domain.SellResponse{}, domain.ErrSaleNotFound
	}

	pkg, err := s.catalog.FindPackageByID(ctx, s.db, sc, sale.PackageID)
	if err != nil {
		return domain.SellResponse{}, err
	}
	if pkg == nil || !pkg.Active {
		// The catalog row may have been replaced since the original
		// sale; fall back to the snapshotted name.
		pkg, err = s.catalog.FindPackageByName(ctx, s.db, sc, sale.PackageName)
		if err != nil {
			return domain.SellResponse{}, err
		}
	}
	if pkg == nil || !pkg.Active {
		return domain.SellResponse{}, domain.ErrPackageNotFound
	}

	return s.sell(ctx, sc, pkg, sale.CustomerID, sale.ProfessionalID)
}

// sell persists the sale and its session balances as one atomic unit,
// then records the package commission outside the transaction. The sale
// stands even when the commission step fails.
func (s *Service) sell(ctx context.Context, sc scopedomain.Scope, pkg *catalogdomain.Package, customerID, professionalID snowflake.ID) (domain.SellResponse, error) {
	now := s.clock.Now()

	var expiration *time.Time
	if pkg.ExpiresAfterDays != nil {
		expires := now.AddDate(0, 0, *pkg.ExpiresAfterDays)
		expiration = &expires
	}

	sale := domain.PackageSale{
		ID:             s.genID.Generate(),
		TenantID:       sc.TenantID,
		CustomerID:     customerID,
		PackageID:      pkg.ID,
		ProfessionalID: professionalID,
		PackageName:    pkg.Name,
		Price:          pkg.Price,
		Paid:           true,
		PurchasedAt:    now,
		ExpirationDate: expiration,
		CreatedAt:      now,
	}

	balances := make([]domain.SessionBalance, 0, len(pkg.Items))
	for _, item := range pkg.Items {
		balances = append(balances, domain.SessionBalance{
			ID:                s.genID.Generate(),
			PackageSaleID:     sale.ID,
			ServiceID:         item.ServiceID,
			Quantity:          item.Quantity,
			SessionsRemaining: item.Quantity,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertSale(ctx, tx, &sale); err != nil {
			return err
		}
		return s.repo.InsertBalances(ctx, tx, balances)
	})
	if err != nil {
		return domain.SellResponse{}, err
	}

	resp := domain.SellResponse{Sale: sale, Balances: balances}

	if professionalID != 0 {
		_, err := s.commissionSvc.RecordPackageCommission(ctx, commissiondomain.RecordCommissionRequest{
			ProfessionalID: professionalID,
			TargetID:       pkg.ID,
			Subject:        pkg.Name,
			GrossAmount:    pkg.Price,
			OccurredAt:     now,
		})
		if err != nil {
			s.log.Warn("package commission not recorded",
				zap.String("sale_id", sale.ID.String()),
				zap.String("professional_id", professionalID.String()),
				zap.Error(err))
			resp.Warnings = append(resp.Warnings, "commission_not_recorded")
		}
	}

	s.audit(ctx, "package.sold", sale.ID, map[string]any{
		"customer_id": customerID.String(),
		"package_id":  pkg.ID.String(),
		"price":       pkg.Price.StringFixed(2),
	})
	if s.metrics != nil {
		s.metrics.PackageSold()
	}

	return resp, nil
}

func (s *Service) Delete(ctx context.Context, saleID string) error {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.ErrInvalidScope
	}

	id, err := snowflake.ParseString(strings.TrimSpace(saleID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	sale, err := s.repo.FindSaleByID(ctx, s.db, sc, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrSaleNotFound
	}

	balances, err := s.repo.ListBalances(ctx, s.db, id)
	if err != nil {
		return err
	}
	forfeited := 0
	for _, balance := range balances {
		forfeited += balance.SessionsRemaining
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteBalances(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.DeleteSale(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, "package_sale.deleted", id, map[string]any{
		"customer_id":        sale.CustomerID.String(),
		"forfeited_sessions": forfeited,
	})
	return nil
}

func (s *Service) GetByID(ctx context.Context, saleID string) (domain.CustomerPackage, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.CustomerPackage{}, domain.ErrInvalidScope
	}

	id, err := snowflake.ParseString(strings.TrimSpace(saleID))
	if err != nil || id == 0 {
		return domain.CustomerPackage{}, domain.ErrInvalidID
	}

	sale, err := s.repo.FindSaleByID(ctx, s.db, sc, id)
	if err != nil {
		return domain.CustomerPackage{}, err
	}
	if sale == nil {
		return domain.CustomerPackage{}, domain.ErrSaleNotFound
	}

	balances, err := s.repo.ListBalances(ctx, s.db, id)
	if err != nil {
		return domain.CustomerPackage{}, err
	}

	return domain.CustomerPackage{Sale: *sale, Balances: balances}, nil
}

func (s *Service) ListActive(ctx context.Context, customerID string) ([]domain.CustomerPackage, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidScope
	}

	var custID snowflake.ID
	if trimmed := strings.TrimSpace(customerID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil || parsed == 0 {
			return nil, domain.ErrInvalidCustomer
		}
		custID = parsed
	}

	sales, err := s.repo.ListSales(ctx, s.db, sc, custID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	active := make([]domain.CustomerPackage, 0, len(sales))
	for _, sale := range sales {
		if sale == nil || sale.IsExpired(now) {
			continue
		}
		balances, err := s.repo.ListBalances(ctx, s.db, sale.ID)
		if err != nil {
			return nil, err
		}
		pkg := domain.CustomerPackage{Sale: *sale, Balances: balances}
		if !pkg.HasUsableSessions() {
			continue
		}
		active = append(active, pkg)
	}
	return active, nil
}

func (s *Service) audit(ctx context.Context, action string, targetID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := targetID.String()
	if err := s.auditSvc.AuditLog(ctx, action, "package_sale", &target, metadata); err != nil {
		s.log.Warn("failed to write package sale audit log", zap.String("action", action), zap.Error(err))
	}
}
