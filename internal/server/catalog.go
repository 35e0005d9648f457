package server

import (
	"net/http"
	"strings"

	catalogdomain "github.com/agendabela/agendabela/internal/catalog/domain"
	"github.com/gin-gonic/gin"
)

type createServiceRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

func (s *Server) CreateService(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateService(c.Request.Context(), catalogdomain.CreateServiceRequest{
		Name:  strings.TrimSpace(req.Name),
		Price: strings.TrimSpace(req.Price),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListServices(c *gin.Context) {
	activeOnly := strings.TrimSpace(c.Query("active")) == "true"

	resp, err := s.catalogSvc.ListServices(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetServiceByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetServiceByID(c.Request.Context(), catalogdomain.GetRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createPackageItemRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

type createPackageRequest struct {
	Name             string                     `json:"name"`
	Price            string                     `json:"price"`
	ExpiresAfterDays *int                       `json:"expires_after_days"`
	Items            []createPackageItemRequest `json:"items"`
}

func (s *Server) CreatePackage(c *gin.Context) {
	var req createPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]catalogdomain.CreatePackageItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, catalogdomain.CreatePackageItemRequest{
			ServiceID: strings.TrimSpace(item.ServiceID),
			Quantity:  item.Quantity,
		})
	}

	resp, err := s.catalogSvc.CreatePackage(c.Request.Context(), catalogdomain.CreatePackageRequest{
		Name:             strings.TrimSpace(req.Name),
		Price:            strings.TrimSpace(req.Price),
		ExpiresAfterDays: req.ExpiresAfterDays,
		Items:            items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPackages(c *gin.Context) {
	activeOnly := strings.TrimSpace(c.Query("active")) == "true"

	resp, err := s.catalogSvc.ListPackages(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPackageByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetPackageByID(c.Request.Context(), catalogdomain.GetRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
