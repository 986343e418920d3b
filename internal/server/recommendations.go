package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	recdomain "github.com/orghub/orghub/internal/recommendation/domain"
)

func (s *Server) CreateRecommendation(c *gin.Context) {
	var req recdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rec, err := s.recSvc.Create(c.Request.Context(), currentUser(c).Email, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) ListRecommendations(c *gin.Context) {
	var filter recdomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.recSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetRecommendation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rec, err := s.recSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) UpdateRecommendation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req recdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rec, err := s.recSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) DeleteRecommendation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.recSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "recommendation deleted"})
}

func (s *Server) ApproveRecommendation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rec, err := s.recSvc.Approve(c.Request.Context(), id, currentUser(c).Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
