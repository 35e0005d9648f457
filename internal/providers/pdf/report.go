package pdf

import (
	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	reportdomain "github.com/agendabela/agendabela/internal/report/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const dateLayout = "02/01/2006"

// PDFProvider renders period reports with maroto.
type PDFProvider struct{}

func Provide() reportdomain.PDFRenderer {
	return &PDFProvider{}
}

// Render produces the consolidated commission report as a PDF document.
func (p *PDFProvider) Render(report reportdomain.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, "Relatório Consolidado", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New("Período: "+report.PeriodStart.Format(dateLayout)+" a "+report.PeriodEnd.Format(dateLayout), props.Text{Top: 0}),
		),
	)

	m.AddRow(10,
		text.NewCol(1, "Tipo", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Data", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Profissional", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Item/Serviço", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Valor Bruto", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Comissão", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, row := range report.Rows {
		tipo := "Serviço"
		if row.Source == commissiondomain.CommissionTypePackage {
			tipo = "Pacote"
		}
		m.AddRow(8,
			text.NewCol(1, tipo, props.Text{Size: 9}),
			text.NewCol(2, row.OccurredAt.Format(dateLayout), props.Text{Size: 9}),
			text.NewCol(3, row.Professional, props.Text{Size: 9}),
			text.NewCol(2, row.Subject, props.Text{Size: 9}),
			text.NewCol(2, row.GrossAmount.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, row.CommissionAmount.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Total Bruto", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, report.TotalGross.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Total Comissões", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, report.TotalCommission.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Lucro Líquido", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, report.NetProfit.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
