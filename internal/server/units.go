package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	unitdomain "github.com/orghub/orghub/internal/unit/domain"
)

func (s *Server) CreateUnit(c *gin.Context) {
	var req unitdomain.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	unit, err := s.unitSvc.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (s *Server) FilterUnits(c *gin.Context) {
	var req unitdomain.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	units, err := s.unitSvc.Filter(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": units})
}

// UpdateUnit keeps the historical query-argument shape: the target unit
// is addressed by ?unit_id=, not a path segment.
func (s *Server) UpdateUnit(c *gin.Context) {
	unitID, err := parseID(c.Query("unit_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req unitdomain.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.unitSvc.Update(c.Request.Context(), currentUser(c).ID, unitID, req); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "unit updated"})
}

func (s *Server) DeleteUnit(c *gin.Context) {
	unitID, err := parseID(c.Query("unit_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.unitSvc.Delete(c.Request.Context(), currentUser(c).ID, unitID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "unit deleted"})
}
