package service

import (
	"context"
	"testing"

	"github.com/agendabela/agendabela/internal/catalog/domain"
	"github.com/agendabela/agendabela/internal/catalog/repository"
	"github.com/agendabela/agendabela/internal/scopectx"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/agendabela/agendabela/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCatalog(t *testing.T) (domain.CatalogService, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Service{}, &domain.Package{}, &domain.PackageItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node
}

func tenantCtx(tenantID snowflake.ID) context.Context {
	return scopectx.WithScope(context.Background(), scopedomain.Scope{
		Role:     scopedomain.RoleTenantScoped,
		TenantID: tenantID,
	})
}

func TestCreateServiceValidatesPrice(t *testing.T) {
	svc, node := newTestCatalog(t)
	ctx := tenantCtx(node.Generate())

	_, err := svc.CreateService(ctx, domain.CreateServiceRequest{Name: "Corte", Price: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateService(ctx, domain.CreateServiceRequest{Name: "Corte", Price: "-10"})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateService(ctx, domain.CreateServiceRequest{Name: "", Price: "50.00"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreatePackageValidatesItems(t *testing.T) {
	svc, node := newTestCatalog(t)
	ctx := tenantCtx(node.Generate())

	corte, err := svc.CreateService(ctx, domain.CreateServiceRequest{Name: "Corte", Price: "50.00"})
	require.NoError(t, err)

	_, err = svc.CreatePackage(ctx, domain.CreatePackageRequest{Name: "Vazio", Price: "100.00"})
	assert.ErrorIs(t, err, domain.ErrInvalidItems)

	_, err = svc.CreatePackage(ctx, domain.CreatePackageRequest{
		Name:  "Zerado",
		Price: "100.00",
		Items: []domain.CreatePackageItemRequest{{ServiceID: corte.ID.String(), Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.CreatePackage(ctx, domain.CreatePackageRequest{
		Name:  "Duplicado",
		Price: "100.00",
		Items: []domain.CreatePackageItemRequest{
			{ServiceID: corte.ID.String(), Quantity: 1},
			{ServiceID: corte.ID.String(), Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateService)

	unknown := node.Generate()
	_, err = svc.CreatePackage(ctx, domain.CreatePackageRequest{
		Name:  "Fantasma",
		Price: "100.00",
		Items: []domain.CreatePackageItemRequest{{ServiceID: unknown.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	expiry := -1
	_, err = svc.CreatePackage(ctx, domain.CreatePackageRequest{
		Name:             "Vencido",
		Price:            "100.00",
		ExpiresAfterDays: &expiry,
		Items:            []domain.CreatePackageItemRequest{{ServiceID: corte.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidExpiry)
}

func TestCreatePackageKeepsItemOrder(t *testing.T) {
	svc, node := newTestCatalog(t)
	ctx := tenantCtx(node.Generate())

	corte, err := svc.CreateService(ctx, domain.CreateServiceRequest{Name: "Corte", Price: "50.00"})
	require.NoError(t, err)
	barba, err := svc.CreateService(ctx, domain.CreateServiceRequest{Name: "Barba", Price: "30.00"})
	require.NoError(t, err)

	expiry := 30
	pkg, err := svc.CreatePackage(ctx, domain.CreatePackageRequest{
		Name:             "Corte+Barba",
		Price:            "100.00",
		ExpiresAfterDays: &expiry,
		Items: []domain.CreatePackageItemRequest{
			{ServiceID: corte.ID.String(), Quantity: 2},
			{ServiceID: barba.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	got, err := svc.GetPackageByID(ctx, domain.GetRequest{ID: pkg.ID.String()})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, corte.ID, got.Items[0].ServiceID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, barba.ID, got.Items[1].ServiceID)
	assert.Equal(t, 1, got.Items[1].Quantity)
	require.NotNil(t, got.ExpiresAfterDays)
	assert.Equal(t, 30, *got.ExpiresAfterDays)
}

func TestCatalogIsTenantScoped(t *testing.T) {
	svc, node := newTestCatalog(t)

	tenantA := tenantCtx(node.Generate())
	tenantB := tenantCtx(node.Generate())

	corte, err := svc.CreateService(tenantA, domain.CreateServiceRequest{Name: "Corte", Price: "50.00"})
	require.NoError(t, err)

	_, err = svc.GetServiceByID(tenantB, domain.GetRequest{ID: corte.ID.String()})
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	services, err := svc.ListServices(tenantB, false)
	require.NoError(t, err)
	assert.Empty(t, services)
}
