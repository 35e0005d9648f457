package server

import (
	"context"
	"net/http"
	"time"

	"github.com/agendabela/agendabela/internal/audit"
	auditdomain "github.com/agendabela/agendabela/internal/audit/domain"
	"github.com/agendabela/agendabela/internal/authorization"
	"github.com/agendabela/agendabela/internal/catalog"
	catalogdomain "github.com/agendabela/agendabela/internal/catalog/domain"
	"github.com/agendabela/agendabela/internal/commission"
	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	"github.com/agendabela/agendabela/internal/config"
	"github.com/agendabela/agendabela/internal/customer"
	customerdomain "github.com/agendabela/agendabela/internal/customer/domain"
	obstracing "github.com/agendabela/agendabela/internal/observability/tracing"
	"github.com/agendabela/agendabela/internal/packagesale"
	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	"github.com/agendabela/agendabela/internal/professional"
	professionaldomain "github.com/agendabela/agendabela/internal/professional/domain"
	"github.com/agendabela/agendabela/internal/providers"
	"github.com/agendabela/agendabela/internal/report"
	reportdomain "github.com/agendabela/agendabela/internal/report/domain"
	"github.com/agendabela/agendabela/internal/scope"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/agendabela/agendabela/internal/session"
	sessiondomain "github.com/agendabela/agendabela/internal/session/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	authorization.Module,
	audit.Module,
	scope.Module,
	professional.Module,
	customer.Module,
	catalog.Module,
	packagesale.Module,
	session.Module,
	commission.Module,
	report.Module,
	providers.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	scopeSvc        scopedomain.Service
	authzSvc        authorization.Service
	auditSvc        auditdomain.Service
	catalogSvc      catalogdomain.CatalogService
	customerSvc     customerdomain.Service
	professionalSvc professionaldomain.Service
	packageSaleSvc  packagesaledomain.Service
	sessionSvc      sessiondomain.Service
	commissionSvc   commissiondomain.Service
	reportSvc       reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	ScopeSvc        scopedomain.Service
	AuthzSvc        authorization.Service
	AuditSvc        auditdomain.Service `optional:"true"`
	CatalogSvc      catalogdomain.CatalogService
	CustomerSvc     customerdomain.Service
	ProfessionalSvc professionaldomain.Service
	PackageSaleSvc  packagesaledomain.Service
	SessionSvc      sessiondomain.Service
	CommissionSvc   commissiondomain.Service
	ReportSvc       reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		scopeSvc:        p.ScopeSvc,
		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		catalogSvc:      p.CatalogSvc,
		customerSvc:     p.CustomerSvc,
		professionalSvc: p.ProfessionalSvc,
		packageSaleSvc:  p.PackageSaleSvc,
		sessionSvc:      p.SessionSvc,
		commissionSvc:   p.CommissionSvc,
		reportSvc:       p.ReportSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.ScopeRequired())

	services := v1.Group("/services")
	services.POST("", s.Authorize(authorization.ObjectService, authorization.ActionCreate), s.CreateService)
	services.GET("", s.Authorize(authorization.ObjectService, authorization.ActionView), s.ListServices)
	services.GET("/:id", s.Authorize(authorization.ObjectService, authorization.ActionView), s.GetServiceByID)

	packages := v1.Group("/packages")
	packages.POST("", s.Authorize(authorization.ObjectPackage, authorization.ActionCreate), s.CreatePackage)
	packages.GET("", s.Authorize(authorization.ObjectPackage, authorization.ActionView), s.ListPackages)
	packages.GET("/:id", s.Authorize(authorization.ObjectPackage, authorization.ActionView), s.GetPackageByID)

	customers := v1.Group("/customers")
	customers.POST("", s.Authorize(authorization.ObjectCustomer, authorization.ActionCreate), s.CreateCustomer)
	customers.GET("", s.Authorize(authorization.ObjectCustomer, authorization.ActionView), s.ListCustomers)
	customers.GET("/:id", s.Authorize(authorization.ObjectCustomer, authorization.ActionView), s.GetCustomerByID)

	professionals := v1.Group("/professionals")
	professionals.POST("", s.Authorize(authorization.ObjectProfessional, authorization.ActionCreate), s.CreateProfessional)
	professionals.GET("", s.Authorize(authorization.ObjectProfessional, authorization.ActionView), s.ListProfessionals)
	professionals.GET("/:id", s.Authorize(authorization.ObjectProfessional, authorization.ActionView), s.GetProfessionalByID)

	sales := v1.Group("/package-sales")
	sales.POST("", s.Authorize(authorization.ObjectPackageSale, authorization.ActionPackageSaleSell), s.SellPackage)
	sales.POST("/:id/renew", s.Authorize(authorization.ObjectPackageSale, authorization.ActionPackageSaleRenew), s.RenewPackageSale)
	sales.DELETE("/:id", s.Authorize(authorization.ObjectPackageSale, authorization.ActionDelete), s.DeletePackageSale)
	sales.GET("", s.Authorize(authorization.ObjectPackageSale, authorization.ActionView), s.ListActivePackageSales)
	sales.GET("/:id", s.Authorize(authorization.ObjectPackageSale, authorization.ActionView), s.GetPackageSaleByID)
	sales.GET("/:id/balances", s.Authorize(authorization.ObjectSession, authorization.ActionView), s.ListSessionBalances)
	sales.POST("/:id/consume", s.Authorize(authorization.ObjectSession, authorization.ActionSessionConsume), s.ConsumeSession)

	rules := v1.Group("/commission-rules")
	rules.POST("", s.Authorize(authorization.ObjectCommissionRule, authorization.ActionCreate), s.CreateCommissionRule)
	rules.GET("", s.Authorize(authorization.ObjectCommissionRule, authorization.ActionView), s.ListCommissionRules)
	rules.DELETE("/:id", s.Authorize(authorization.ObjectCommissionRule, authorization.ActionDelete), s.DeactivateCommissionRule)

	commissions := v1.Group("/commissions")
	commissions.POST("/service", s.Authorize(authorization.ObjectCommissionRecord, authorization.ActionCreate), s.RecordServiceCommission)

	reports := v1.Group("/reports")
	reports.GET("/commissions", s.Authorize(authorization.ObjectReport, authorization.ActionView), s.BuildReport)
	reports.GET("/commissions/export", s.Authorize(authorization.ObjectReport, authorization.ActionReportExport), s.ExportReport)
}
