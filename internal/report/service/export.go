package service

import (
	"bytes"
	"encoding/csv"

	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	"github.com/agendabela/agendabela/internal/report/domain"
	"github.com/shopspring/decimal"
)

// Exported CSVs use Brazilian Portuguese headers with dot decimal
// separators, two places, no currency symbol.
const exportDateLayout = "02/01/2006"

var detailedHeader = []string{"Data", "Profissional", "Serviço", "Valor Bruto", "Comissão", "Valor Comissão", "Lucro Líquido"}

var consolidatedHeader = []string{"Tipo", "Data", "Profissional", "Item/Serviço", "Valor Bruto", "Comissão", "Valor Comissão", "Lucro Líquido"}

// renderDetailedCSV writes the service-commission report: one row per
// service sale, then a trailing TOTAL row over the service partition.
func renderDetailedCSV(report domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(detailedHeader); err != nil {
		return nil, err
	}
	for _, row := range report.ServiceRows() {
		record := []string{
			row.OccurredAt.Format(exportDateLayout),
			row.Professional,
			row.Subject,
			row.GrossAmount.StringFixed(2),
			describeCalculation(row.Calculation, row.Value),
			row.CommissionAmount.StringFixed(2),
			row.NetProfit.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	gross := report.Services.Gross
	commission := report.Services.Commission
	total := []string{
		"TOTAL", "", "",
		gross.StringFixed(2),
		"",
		commission.StringFixed(2),
		gross.Sub(commission).StringFixed(2),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderConsolidatedCSV writes service and package rows together, each
// discriminated by the Tipo column, then a trailing TOTAL row over both
// partitions.
func renderConsolidatedCSV(report domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(consolidatedHeader); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		record := []string{
			describeSource(row.Source),
			row.OccurredAt.Format(exportDateLayout),
			row.Professional,
			row.Subject,
			row.GrossAmount.StringFixed(2),
			describeCalculation(row.Calculation, row.Value),
			row.CommissionAmount.StringFixed(2),
			row.NetProfit.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	total := []string{
		"TOTAL", "", "", "",
		report.TotalGross.StringFixed(2),
		"",
		report.TotalCommission.StringFixed(2),
		report.NetProfit.StringFixed(2),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func describeSource(source commissiondomain.CommissionType) string {
	if source == commissiondomain.CommissionTypePackage {
		return "Pacote"
	}
	return "Serviço"
}

func describeCalculation(calculation commissiondomain.CalculationType, value decimal.Decimal) string {
	if calculation == commissiondomain.CalculationTypeFixed {
		return "Fixa"
	}
	return value.StringFixed(2) + "%"
}
