package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/orghub/orghub/internal/auth/domain"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"go.uber.org/zap"
)

// loginForm matches the OAuth2 password grant form shape: the email is
// submitted under "username".
type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (s *Server) Login(c *gin.Context) {
	if s.loginLimiter.Enabled() {
		res, err := s.loginLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// The limiter fails open so a redis hiccup cannot lock
			// everyone out.
			s.log.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			AbortWithError(c, ErrTooManyRequests)
			return
		}
	}

	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.authSvc.Authenticate(c.Request.Context(), strings.TrimSpace(form.Username), form.Password)
	if err != nil {
		s.metrics.ObserveLogin("failed")
		AbortWithError(c, err)
		return
	}

	pair, err := s.authSvc.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.ObserveLogin("success")
	s.metrics.ObserveTokenIssued(authdomain.TokenTypeAccess)
	s.metrics.ObserveTokenIssued(authdomain.TokenTypeRefresh)
	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (s *Server) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	pair, err := s.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.ObserveTokenIssued(authdomain.TokenTypeAccess)
	s.metrics.ObserveTokenIssued(authdomain.TokenTypeRefresh)
	c.JSON(http.StatusOK, pair)
}

func (s *Server) Logout(c *gin.Context) {
	token, err := authdomain.TokenFromHeader(c.GetHeader("Authorization"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.authSvc.Logout(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.ObserveTokenRevoked()
	c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
}

// TestToken confirms the bearer token is live and returns its owner.
func (s *Server) TestToken(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, authdomain.ErrInvalidToken)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (s *Server) PasswordRecovery(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))

	user, err := s.userSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := s.authSvc.IssueResetToken(user.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if s.mail != nil {
		if err := s.mail.SendPasswordReset(c.Request.Context(), user.Email, token); err != nil {
			s.log.Warn("password recovery mail failed", zap.Error(err))
			AbortWithError(c, errors.New("failed to send recovery email"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"msg": "password recovery email sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	email, err := s.authSvc.VerifyResetToken(req.Token)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.userSvc.ResetPassword(c.Request.Context(), email, req.NewPassword); err != nil {
		AbortWithError(c, err)
		return
	}

	// A password change invalidates every outstanding session.
	var user *userdomain.User
	if user, err = s.userSvc.GetByEmail(c.Request.Context(), email); err == nil {
		if _, err := s.authSvc.RevokeAll(c.Request.Context(), user.ID.String()); err != nil {
			s.log.Warn("revoking sessions after password reset failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"msg": "password updated"})
}
