package server

import (
	"net/http"
	"strings"

	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	sessiondomain "github.com/agendabela/agendabela/internal/session/domain"
	"github.com/gin-gonic/gin"
)

type sellPackageRequest struct {
	CustomerID     string `json:"customer_id"`
	PackageID      string `json:"package_id"`
	ProfessionalID string `json:"professional_id"`
}

func (s *Server) SellPackage(c *gin.Context) {
	var req sellPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.packageSaleSvc.Sell(c.Request.Context(), packagesaledomain.SellRequest{
		CustomerID:     strings.TrimSpace(req.CustomerID),
		PackageID:      strings.TrimSpace(req.PackageID),
		ProfessionalID: strings.TrimSpace(req.ProfessionalID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenewPackageSale(c *gin.Context) {
	resp, err := s.packageSaleSvc.Renew(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePackageSale(c *gin.Context) {
	if err := s.packageSaleSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetPackageSaleByID(c *gin.Context) {
	resp, err := s.packageSaleSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListActivePackageSales(c *gin.Context) {
	resp, err := s.packageSaleSvc.ListActive(c.Request.Context(), strings.TrimSpace(c.Query("customer_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSessionBalances(c *gin.Context) {
	resp, err := s.sessionSvc.Balances(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type consumeSessionRequest struct {
	ServiceID string `json:"service_id"`
	Sessions  int    `json:"sessions"`
}

func (s *Server) ConsumeSession(c *gin.Context) {
	var req consumeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sessionSvc.Consume(c.Request.Context(), sessiondomain.ConsumeRequest{
		SaleID:    strings.TrimSpace(c.Param("id")),
		ServiceID: strings.TrimSpace(req.ServiceID),
		Sessions:  req.Sessions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
