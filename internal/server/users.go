package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"github.com/orghub/orghub/pkg/db/pagination"
)

func (s *Server) Signup(c *gin.Context) {
	var req userdomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user.Public())
}

func (s *Server) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).Public())
}

func (s *Server) UpdateMe(c *gin.Context) {
	var req userdomain.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.UpdateMe(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (s *Server) UpdateMyPassword(c *gin.Context) {
	var req userdomain.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.userSvc.UpdatePassword(c.Request.Context(), currentUser(c).ID, req); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "password updated"})
}

func (s *Server) UpdateMyThemes(c *gin.Context) {
	var req userdomain.UpdateThemesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.UpdateThemes(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (s *Server) CreateUser(c *gin.Context) {
	var req userdomain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user.Public())
}

func (s *Server) ListUsers(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	users, total, err := s.userSvc.List(c.Request.Context(), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page.Normalize()
	profiles := make([]userdomain.PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Public())
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      profiles,
		"page_info": pagination.BuildPageInfo(page, total),
	})
}

func (s *Server) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (s *Server) UpdateUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req userdomain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (s *Server) DeleteUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.userSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "user deleted"})
}
