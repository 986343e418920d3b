package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pedomain "github.com/orghub/orghub/internal/partnerevent/domain"
	"gorm.io/datatypes"
)

func (s *Server) CreatePartnerEvent(c *gin.Context) {
	var req pedomain.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.partnerEventSvc.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) ListPartnerEvents(c *gin.Context) {
	var filter pedomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.partnerEventSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetPartnerEvent(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.partnerEventSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) UpdatePartnerEvent(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req pedomain.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.partnerEventSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) DeletePartnerEvent(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.partnerEventSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "partner event deleted"})
}

func (s *Server) AddSchedule(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req pedomain.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	schedule, err := s.partnerEventSvc.AddSchedule(c.Request.Context(), eventID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

func (s *Server) ListSchedules(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.partnerEventSvc.Get(c.Request.Context(), eventID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail.Schedules})
}

func (s *Server) UpdateSchedule(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	scheduleID, err := parseID(c.Param("sid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req pedomain.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	schedule, err := s.partnerEventSvc.UpdateSchedule(c.Request.Context(), eventID, scheduleID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (s *Server) RemoveSchedule(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	scheduleID, err := parseID(c.Param("sid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.partnerEventSvc.RemoveSchedule(c.Request.Context(), eventID, scheduleID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "schedule deleted"})
}

// UploadScheduleAttachment stores the uploaded file in object storage
// and records its metadata on the schedule.
func (s *Server) UploadScheduleAttachment(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	scheduleID, err := parseID(c.Param("sid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if s.store == nil {
		AbortWithError(c, ErrStorageUnavailable)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	file, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	object, err := s.store.Upload(c.Request.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	attachment := datatypes.JSONMap{
		"bucket":       object.Bucket,
		"key":          object.Key,
		"file_name":    object.FileName,
		"content_type": object.ContentType,
		"size":         object.Size,
		"uploaded_at":  time.Now().UTC().Format(time.RFC3339),
	}
	schedule, err := s.partnerEventSvc.UpdateSchedule(c.Request.Context(), eventID, scheduleID, pedomain.UpdateScheduleRequest{
		Attachment: attachment,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (s *Server) AddDelegationMember(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req pedomain.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	member, err := s.partnerEventSvc.AddMember(c.Request.Context(), eventID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (s *Server) ListDelegationMembers(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.partnerEventSvc.Get(c.Request.Context(), eventID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail.Members})
}

func (s *Server) UpdateDelegationMember(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	memberID, err := parseID(c.Param("mid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req pedomain.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	member, err := s.partnerEventSvc.UpdateMember(c.Request.Context(), eventID, memberID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (s *Server) RemoveDelegationMember(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	memberID, err := parseID(c.Param("mid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.partnerEventSvc.RemoveMember(c.Request.Context(), eventID, memberID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "delegation member deleted"})
}
