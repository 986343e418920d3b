package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/orghub/orghub/internal/audit/domain"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	var req auditdomain.ListRequest
	if err := c.ShouldBindQuery(&req.Pagination); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.Status = auditdomain.LogResult(c.Query("status"))

	createdBy, err := parseOptionalID(c.Query("created_by"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.CreatedBy = createdBy

	if raw := c.Query("start_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.StartAt = &t
	}
	if raw := c.Query("end_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.EndAt = &t
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
