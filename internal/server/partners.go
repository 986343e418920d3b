package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
)

func (s *Server) CreatePartner(c *gin.Context) {
	var req partnerdomain.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	partner, err := s.partnerSvc.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, partner)
}

func (s *Server) ListPartners(c *gin.Context) {
	var filter partnerdomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.partnerSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetPartner(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	partner, err := s.partnerSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) UpdatePartner(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req partnerdomain.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	partner, err := s.partnerSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) DeletePartner(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.partnerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "partner deleted"})
}
