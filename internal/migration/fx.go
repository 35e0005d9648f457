package migration

import (
	auditdomain "github.com/agendabela/agendabela/internal/audit/domain"
	catalogdomain "github.com/agendabela/agendabela/internal/catalog/domain"
	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	"github.com/agendabela/agendabela/internal/config"
	customerdomain "github.com/agendabela/agendabela/internal/customer/domain"
	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	professionaldomain "github.com/agendabela/agendabela/internal/professional/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// The versioned SQL schema targets postgres; other dialects
			// are development-only and take the gorm schema directly.
			return conn.AutoMigrate(
				&professionaldomain.Professional{},
				&customerdomain.Customer{},
				&catalogdomain.Service{},
				&catalogdomain.Package{},
				&catalogdomain.PackageItem{},
				&packagesaledomain.PackageSale{},
				&packagesaledomain.SessionBalance{},
				&commissiondomain.CommissionRule{},
				&commissiondomain.CommissionRecord{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
