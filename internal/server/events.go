package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	eventdomain "github.com/orghub/orghub/internal/event/domain"
)

func (s *Server) CreateEvent(c *gin.Context) {
	var req eventdomain.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.eventSvc.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) ListEvents(c *gin.Context) {
	var filter eventdomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.eventSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetEvent(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	event, err := s.eventSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) UpdateEvent(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req eventdomain.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.eventSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) DeleteEvent(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.eventSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "event deleted"})
}
