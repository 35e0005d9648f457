package server

import (
	"net/http"
	"strings"
	"time"

	reportdomain "github.com/agendabela/agendabela/internal/report/domain"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

func (s *Server) reportRequest(c *gin.Context) (reportdomain.BuildRequest, bool) {
	from, err := parseReportDate(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, reportdomain.ErrInvalidPeriod)
		return reportdomain.BuildRequest{}, false
	}
	to, err := parseReportDate(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, reportdomain.ErrInvalidPeriod)
		return reportdomain.BuildRequest{}, false
	}

	return reportdomain.BuildRequest{
		From:           from,
		To:             to,
		ProfessionalID: strings.TrimSpace(c.Query("professional_id")),
	}, true
}

func (s *Server) BuildReport(c *gin.Context) {
	req, ok := s.reportRequest(c)
	if !ok {
		return
	}

	resp, err := s.reportSvc.Build(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportReport(c *gin.Context) {
	req, ok := s.reportRequest(c)
	if !ok {
		return
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("format"))) {
	case "", "csv":
		out, err := s.reportSvc.ExportCSV(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="relatorio-comissoes.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
	case "consolidated-csv":
		out, err := s.reportSvc.ExportConsolidatedCSV(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="relatorio-consolidado.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
	case "pdf":
		out, err := s.reportSvc.ExportConsolidatedPDF(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="relatorio-consolidado.pdf"`)
		c.Data(http.StatusOK, "application/pdf", out)
	default:
		AbortWithError(c, invalidRequestError())
	}
}

// parseReportDate accepts either a date or an RFC 3339 timestamp. Bare
// end dates extend to the last instant of that day.
func parseReportDate(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(reportDateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
