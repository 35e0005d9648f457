package service

import (
	"context"
	"strings"

	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	obsmetrics "github.com/agendabela/agendabela/internal/observability/metrics"
	professionaldomain "github.com/agendabela/agendabela/internal/professional/domain"
	"github.com/agendabela/agendabela/internal/report/domain"
	"github.com/agendabela/agendabela/internal/scopectx"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	CommissionRepo   commissiondomain.Repository
	ProfessionalRepo professionaldomain.Repository
	PDF              domain.PDFRenderer  `optional:"true"`
	Metrics          *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	commissionRepo   commissiondomain.Repository
	professionalRepo professionaldomain.Repository
	pdf              domain.PDFRenderer
	metrics          *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("report.service"),
		commissionRepo:   p.CommissionRepo,
		professionalRepo: p.ProfessionalRepo,
		pdf:              p.PDF,
		metrics:          p.Metrics,
	}
}

func (s *Service) Build(ctx context.Context, req domain.BuildRequest) (domain.Report, error) {
	sc, ok := scopectx.FromContext(ctx)
	if !ok {
		return domain.Report{}, domain.ErrInvalidScope
	}

	if req.From.IsZero() || req.To.IsZero() || req.To.Before(req.From) {
		return domain.Report{}, domain.ErrInvalidPeriod
	}

	var professionalID snowflake.ID
	if trimmed := strings.TrimSpace(req.ProfessionalID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil || parsed == 0 {
			return domain.Report{}, domain.ErrInvalidProfessional
		}
		professionalID = parsed
	}
	// Professionals only ever see their own ledger.
	if sc.Role == scopedomain.RoleProfessional {
		professionalID = sc.ProfessionalID
	}

	records, err := s.commissionRepo.ListRecords(ctx, s.db, sc, commissiondomain.ListRecordFilter{
		From:           req.From,
		To:             req.To,
		ProfessionalID: professionalID,
	})
	if err != nil {
		return domain.Report{}, err
	}

	names, err := s.professionalNames(ctx, sc)
	if err != nil {
		return domain.Report{}, err
	}

	report := domain.Report{
		PeriodStart: req.From,
		PeriodEnd:   req.To,
		Services:    domain.PartitionTotals{Gross: decimal.Zero, Commission: decimal.Zero},
		Packages:    domain.PartitionTotals{Gross: decimal.Zero, Commission: decimal.Zero},
		Rows:        make([]domain.Row, 0, len(records)),
	}

	professionals := make(map[snowflake.ID]struct{})
	for _, record := range records {
		row := domain.Row{
			OccurredAt:       record.OccurredAt,
			ProfessionalID:   record.ProfessionalID,
			Professional:     names[record.ProfessionalID],
			Source:           record.Source,
			Subject:          record.Subject,
			Calculation:      record.Calculation,
			Value:            record.Value,
			GrossAmount:      record.GrossAmount,
			CommissionAmount: record.CommissionAmount,
			NetProfit:        record.GrossAmount.Sub(record.CommissionAmount),
		}
		report.Rows = append(report.Rows, row)

		switch record.Source {
		case commissiondomain.CommissionTypePackage:
			report.Packages.Records++
			report.Packages.Gross = report.Packages.Gross.Add(record.GrossAmount)
			report.Packages.Commission = report.Packages.Commission.Add(record.CommissionAmount)
		default:
			report.Services.Records++
			report.Services.Gross = report.Services.Gross.Add(record.GrossAmount)
			report.Services.Commission = report.Services.Commission.Add(record.CommissionAmount)
		}
		if record.ProfessionalID != 0 {
			professionals[record.ProfessionalID] = struct{}{}
		}
	}

	report.TotalGross = report.Services.Gross.Add(report.Packages.Gross)
	report.TotalCommission = report.Services.Commission.Add(report.Packages.Commission)
	report.NetProfit = report.TotalGross.Sub(report.TotalCommission)
	report.DistinctProfessionals = len(professionals)

	return report, nil
}

func (s *Service) ExportCSV(ctx context.Context, req domain.BuildRequest) ([]byte, error) {
	report, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := renderDetailedCSV(report)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReportExported("csv")
	}
	return out, nil
}

func (s *Service) ExportConsolidatedCSV(ctx context.Context, req domain.BuildRequest) ([]byte, error) {
	report, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := renderConsolidatedCSV(report)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReportExported("csv")
	}
	return out, nil
}

func (s *Service) ExportConsolidatedPDF(ctx context.Context, req domain.BuildRequest) ([]byte, error) {
	if s.pdf == nil {
		return nil, domain.ErrRendererUnavailable
	}
	report, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := s.pdf.Render(report)
	if err != nil {
		s.log.Error("failed to render report pdf", zap.Error(err))
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReportExported("pdf")
	}
	return out, nil
}

func (s *Service) professionalNames(ctx context.Context, sc scopedomain.Scope) (map[snowflake.ID]string, error) {
	professionals, err := s.professionalRepo.List(ctx, s.db, sc)
	if err != nil {
		return nil, err
	}
	names := make(map[snowflake.ID]string, len(professionals))
	for _, professional := range professionals {
		names[professional.ID] = professional.Name
	}
	return names, nil
}
