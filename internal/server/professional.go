package server

import (
	"net/http"
	"strings"

	professionaldomain "github.com/agendabela/agendabela/internal/professional/domain"
	"github.com/gin-gonic/gin"
)

type createProfessionalRequest struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func (s *Server) CreateProfessional(c *gin.Context) {
	var req createProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.professionalSvc.Create(c.Request.Context(), professionaldomain.CreateProfessionalRequest{
		Identity: strings.TrimSpace(req.Identity),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProfessionals(c *gin.Context) {
	resp, err := s.professionalSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProfessionalByID(c *gin.Context) {
	resp, err := s.professionalSvc.GetByID(c.Request.Context(), professionaldomain.GetProfessionalRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
