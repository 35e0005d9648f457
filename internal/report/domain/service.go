package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Build aggregates commission records over the period. An empty
	// period yields zeroed totals, never an error.
	Build(context.Context, BuildRequest) (Report, error)
	// ExportCSV renders the detailed service-commission report.
	ExportCSV(context.Context, BuildRequest) ([]byte, error)
	// ExportConsolidatedCSV renders service and package rows together,
	// discriminated by a leading type column.
	ExportConsolidatedCSV(context.Context, BuildRequest) ([]byte, error)
	// ExportConsolidatedPDF renders the consolidated report as a PDF
	// document.
	ExportConsolidatedPDF(context.Context, BuildRequest) ([]byte, error)
}

// PDFRenderer renders a built report into a PDF document.
type PDFRenderer interface {
	Render(report Report) ([]byte, error)
}

var (
	ErrInvalidScope        = errors.New("invalid_scope")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrInvalidProfessional = errors.New("invalid_professional")
	ErrRendererUnavailable = errors.New("renderer_unavailable")
)
