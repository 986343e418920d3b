// Package server exposes the HTTP surface. Handlers bind input, call a
// domain service, and shape the response; domain rules live below.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/orghub/orghub/internal/audit/domain"
	authdomain "github.com/orghub/orghub/internal/auth/domain"
	"github.com/orghub/orghub/internal/config"
	eventdomain "github.com/orghub/orghub/internal/event/domain"
	"github.com/orghub/orghub/internal/mailer"
	"github.com/orghub/orghub/internal/observability"
	obslogger "github.com/orghub/orghub/internal/observability/logger"
	obsmetrics "github.com/orghub/orghub/internal/observability/metrics"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
	pedomain "github.com/orghub/orghub/internal/partnerevent/domain"
	"github.com/orghub/orghub/internal/ratelimit"
	recdomain "github.com/orghub/orghub/internal/recommendation/domain"
	"github.com/orghub/orghub/internal/storage"
	unitdomain "github.com/orghub/orghub/internal/unit/domain"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(metrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, log *zap.Logger, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	authSvc         authdomain.Service
	userSvc         userdomain.Service
	unitSvc         unitdomain.Service
	partnerSvc      partnerdomain.Service
	eventSvc        eventdomain.Service
	partnerEventSvc pedomain.Service
	recSvc          recdomain.Service
	auditSvc        auditdomain.Service
	store           storage.Store
	mail            mailer.Mailer
	metrics         *obsmetrics.Metrics
	loginLimiter    *ratelimit.LoginLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	AuthSvc         authdomain.Service
	UserSvc         userdomain.Service
	UnitSvc         unitdomain.Service
	PartnerSvc      partnerdomain.Service
	EventSvc        eventdomain.Service
	PartnerEventSvc pedomain.Service
	RecSvc          recdomain.Service
	AuditSvc        auditdomain.Service
	Store           storage.Store           `optional:"true"`
	Mail            mailer.Mailer           `optional:"true"`
	Metrics         *obsmetrics.Metrics     `optional:"true"`
	LoginLimiter    *ratelimit.LoginLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		authSvc:         p.AuthSvc,
		userSvc:         p.UserSvc,
		unitSvc:         p.UnitSvc,
		partnerSvc:      p.PartnerSvc,
		eventSvc:        p.EventSvc,
		partnerEventSvc: p.PartnerEventSvc,
		recSvc:          p.RecSvc,
		auditSvc:        p.AuditSvc,
		store:           p.Store,
		mail:            p.Mail,
		metrics:         p.Metrics,
		loginLimiter:    p.LoginLimiter,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/api/v1")

	v1.POST("/login/access-token", s.Login)
	v1.POST("/refresh-token", s.RefreshToken)
	v1.POST("/password-recovery/:email", s.PasswordRecovery)
	v1.POST("/reset-password", s.ResetPassword)
	v1.POST("/users/signup", s.Signup)

	auth := v1.Group("")
	auth.Use(s.AuthRequired())

	auth.POST("/logout", s.Logout)
	auth.POST("/login/test-token", s.TestToken)

	users := auth.Group("/users")
	users.GET("/me", s.GetMe)
	users.PATCH("/me", s.UpdateMe)
	users.PATCH("/me/password", s.UpdateMyPassword)
	users.PATCH("/me/themes", s.UpdateMyThemes)
	users.POST("", s.SuperuserRequired(), s.CreateUser)
	users.GET("", s.SuperuserRequired(), s.ListUsers)
	users.GET("/:id", s.SuperuserRequired(), s.GetUser)
	users.PUT("/:id", s.SuperuserRequired(), s.UpdateUser)
	users.DELETE("/:id", s.SuperuserRequired(), s.DeleteUser)

	units := auth.Group("/units")
	units.POST("", s.SuperuserRequired(), s.CreateUnit)
	units.POST("/filter", s.FilterUnits)
	units.PUT("/update", s.UpdateUnit)
	units.DELETE("/delete", s.DeleteUnit)

	partners := auth.Group("/partners")
	partners.POST("", s.CreatePartner)
	partners.GET("", s.ListPartners)
	partners.GET("/:id", s.GetPartner)
	partners.PUT("/:id", s.UpdatePartner)
	partners.DELETE("/:id", s.DeletePartner)

	events := auth.Group("/events")
	events.POST("", s.CreateEvent)
	events.GET("", s.ListEvents)
	events.GET("/:id", s.GetEvent)
	events.PUT("/:id", s.UpdateEvent)
	events.DELETE("/:id", s.DeleteEvent)

	partnerEvents := auth.Group("/partner-events")
	partnerEvents.POST("", s.CreatePartnerEvent)
	partnerEvents.GET("", s.ListPartnerEvents)
	partnerEvents.GET("/:id", s.GetPartnerEvent)
	partnerEvents.PUT("/:id", s.UpdatePartnerEvent)
	partnerEvents.DELETE("/:id", s.DeletePartnerEvent)
	partnerEvents.POST("/:id/schedules", s.AddSchedule)
	partnerEvents.GET("/:id/schedules", s.ListSchedules)
	partnerEvents.PUT("/:id/schedules/:sid", s.UpdateSchedule)
	partnerEvents.DELETE("/:id/schedules/:sid", s.RemoveSchedule)
	partnerEvents.POST("/:id/schedules/:sid/attachment", s.UploadScheduleAttachment)
	partnerEvents.POST("/:id/delegation", s.AddDelegationMember)
	partnerEvents.GET("/:id/delegation", s.ListDelegationMembers)
	partnerEvents.PUT("/:id/delegation/:mid", s.UpdateDelegationMember)
	partnerEvents.DELETE("/:id/delegation/:mid", s.RemoveDelegationMember)

	recs := auth.Group("/recommendations")
	recs.POST("", s.CreateRecommendation)
	recs.GET("", s.ListRecommendations)
	recs.GET("/:id", s.GetRecommendation)
	recs.PUT("/:id", s.UpdateRecommendation)
	recs.DELETE("/:id", s.DeleteRecommendation)
	recs.POST("/:id/approve", s.SuperuserRequired(), s.ApproveRecommendation)

	auth.GET("/audit-logs", s.SuperuserRequired(), s.ListAuditLogs)
}
