package server

import (
	"net/http"
	"strings"
	"time"

	catalogdomain "github.com/agendabela/agendabela/internal/catalog/domain"
	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createCommissionRuleRequest struct {
	ProfessionalID string `json:"professional_id"`
	Type           string `json:"commission_type"`
	TargetID       string `json:"target_id"`
	Calculation    string `json:"calculation_type"`
	Value          string `json:"commission_value"`
}

func (s *Server) CreateCommissionRule(c *gin.Context) {
	var req createCommissionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.commissionSvc.CreateRule(c.Request.Context(), commissiondomain.CreateRuleRequest{
		ProfessionalID: strings.TrimSpace(req.ProfessionalID),
		Type:           commissiondomain.CommissionType(strings.TrimSpace(req.Type)),
		TargetID:       strings.TrimSpace(req.TargetID),
		Calculation:    commissiondomain.CalculationType(strings.TrimSpace(req.Calculation)),
		Value:          strings.TrimSpace(req.Value),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCommissionRules(c *gin.Context) {
	resp, err := s.commissionSvc.ListRules(c.Request.Context(), strings.TrimSpace(c.Query("professional_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateCommissionRule(c *gin.Context) {
	if err := s.commissionSvc.DeactivateRule(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deactivated": true}})
}

type recordServiceCommissionRequest struct {
	ProfessionalID string `json:"professional_id"`
	ServiceID      string `json:"service_id"`
	GrossAmount    string `json:"gross_amount"`
	OccurredAt     string `json:"occurred_at"`
	// PackageSaleID marks a delivery drawn from a sold package. The
	// ledger rejects those: their commission was settled at sale time.
	PackageSaleID string `json:"package_sale_id"`
}

func (s *Server) RecordServiceCommission(c *gin.Context) {
	var req recordServiceCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	professionalID, err := snowflake.ParseString(strings.TrimSpace(req.ProfessionalID))
	if err != nil || professionalID == 0 {
		AbortWithError(c, commissiondomain.ErrInvalidProfessional)
		return
	}

	svc, err := s.catalogSvc.GetServiceByID(c.Request.Context(), catalogdomain.GetRequest{
		ID: strings.TrimSpace(req.ServiceID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	gross := svc.Price
	if trimmed := strings.TrimSpace(req.GrossAmount); trimmed != "" {
		gross, err = decimal.NewFromString(trimmed)
		if err != nil {
			AbortWithError(c, commissiondomain.ErrInvalidGross)
			return
		}
	}

	var occurredAt time.Time
	if trimmed := strings.TrimSpace(req.OccurredAt); trimmed != "" {
		occurredAt, err = time.Parse(time.RFC3339, trimmed)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	var packageSaleID snowflake.ID
	if trimmed := strings.TrimSpace(req.PackageSaleID); trimmed != "" {
		packageSaleID, err = snowflake.ParseString(trimmed)
		if err != nil || packageSaleID == 0 {
			AbortWithError(c, commissiondomain.ErrInvalidID)
			return
		}
	}

	resp, err := s.commissionSvc.RecordServiceCommission(c.Request.Context(), commissiondomain.RecordCommissionRequest{
		ProfessionalID: professionalID,
		TargetID:       svc.ID,
		Subject:        svc.Name,
		GrossAmount:    gross,
		OccurredAt:     occurredAt,
		PackageSaleID:  packageSaleID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
