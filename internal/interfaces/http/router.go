// Package http assembles the builder's gin engine and HTTP server.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/interfaces/http/handlers"
	"github.com/artsapp/builder/internal/interfaces/http/middleware"
	"github.com/artsapp/builder/internal/interfaces/http/response"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

// Handlers bundles the route handlers
type Handlers struct {
	Health       *handlers.HealthHandler
	Keys         *handlers.KeyHandler
	Revisions    *handlers.RevisionHandler
	Content      *handlers.ContentHandler
	Organization *handlers.OrganizationHandler
	Media        *handlers.MediaHandler
	Session      *handlers.SessionHandler
}

// Router HTTP 路由器
type Router struct {
	engine        *gin.Engine
	config        *config.Config
	logger        logger.Logger
	handlers      Handlers
	resp          *response.Responder
	session       gin.HandlerFunc
	observability gin.HandlerFunc
	gatherer      prometheus.Gatherer
	server        *http.Server
}

// NewRouter 创建路由器. session resolves the builder session of API routes;
// observability wraps every route.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	h Handlers,
	resp *response.Responder,
	session gin.HandlerFunc,
	observability gin.HandlerFunc,
	gatherer prometheus.Gatherer,
) *Router {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Router{
		engine:        gin.New(),
		config:        cfg,
		logger:        log,
		handlers:      h,
		resp:          resp,
		session:       session,
		observability: observability,
		gatherer:      gatherer,
	}
}

func (r *Router) perm(permissions ...string) gin.HandlerFunc {
	return middleware.RequirePermissions(r.resp, permissions...)
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	// 全局中间件
	r.engine.Use(middleware.Recovery(r.resp, r.logger))
	r.engine.Use(middleware.RequestID())
	if r.observability != nil {
		r.engine.Use(r.observability)
	}
	r.engine.Use(middleware.Logging(r.logger))

	// CORS 配置; credentials are required for the session cookie
	corsConfig := cors.Config{
		AllowOrigins:     r.config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", constants.RequestIDHeader},
		ExposeHeaders:    []string{constants.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.engine.Use(cors.New(corsConfig))

	// 健康检查路由
	r.engine.GET("/health/live", r.handlers.Health.LivenessCheck)
	r.engine.GET("/health/ready", r.handlers.Health.ReadinessCheck)

	// Prometheus metrics
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if !r.config.Server.IsProduction() {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group(r.config.Server.BasePath + "/api/v1")
	if r.session != nil {
		v1.Use(r.session)
	}

	session := v1.Group("/session")
	{
		s := r.handlers.Session
		session.GET("", s.GetSession)
		session.GET("/signin", s.SignIn)
		session.POST("/signout", s.SignOut)
		session.PUT("/language", s.SetLanguage)
		session.GET("/dictionary", s.Dictionary)
		session.GET("/permitted", s.Permitted)
	}

	keys := v1.Group("/keys")
	{
		k, rv, ct := r.handlers.Keys, r.handlers.Revisions, r.handlers.Content
		edit := r.perm(constants.PermissionEditKey)

		keys.GET("", k.ListKeys)
		keys.POST("", r.perm(constants.PermissionCreateKey), k.CreateKey)
		keys.GET("/:keyId", k.GetKey)
		keys.PUT("/:keyId", edit, k.UpdateKey)
		keys.GET("/:keyId/editors", k.ListEditors)
		keys.POST("/:keyId/editors", edit, k.AddEditor)
		keys.DELETE("/:keyId/editors/:userId", edit, k.RemoveEditor)

		keys.GET("/:keyId/revisions", rv.ListRevisions)
		keys.POST("/:keyId/build", r.perm(constants.PermissionCreateRevision), rv.BuildKey)

		rev := keys.Group("/:keyId/revisions/:revisionId")
		rev.GET("", rv.GetRevision)
		rev.GET("/candidates/:taxonId", rv.Candidates)
		rev.GET("/diff/:otherId", rv.Diff)
		rev.PUT("/status", r.perm(constants.PermissionReviewRevision), rv.SetStatus)
		rev.PUT("/mode", r.perm(constants.PermissionCreateRevision), rv.SetMode)
		rev.PUT("/note", r.perm(constants.PermissionCreateRevision), rv.SetNote)

		rev.POST("/taxa", edit, ct.CreateTaxon)
		rev.PUT("/taxa/:taxonId", edit, ct.UpdateTaxon)
		rev.DELETE("/taxa/:taxonId", edit, ct.DeleteTaxon)
		rev.POST("/characters", edit, ct.CreateCharacter)
		rev.PUT("/characters/:characterId", edit, ct.UpdateCharacter)
		rev.DELETE("/characters/:characterId", edit, ct.DeleteCharacter)
		rev.PUT("/characters/:characterId/states", edit, ct.UpdateStates)
		rev.GET("/characters/:characterId/premise", ct.GetPremise)
		rev.PUT("/characters/:characterId/premise", edit, ct.EditPremise)
	}

	o := r.handlers.Organization
	collections := v1.Group("/collections")
	{
		edit := r.perm(constants.PermissionEditCollection)
		collections.GET("", o.ListCollections)
		collections.POST("", r.perm(constants.PermissionCreateCollection), o.CreateCollection)
		collections.PUT("/:collectionId", edit, o.UpdateCollection)
		collections.DELETE("/:collectionId", edit, o.DeleteCollection)
		collections.POST("/:collectionId/keys", edit, o.AddCollectionKey)
		collections.DELETE("/:collectionId/keys/:keyId", edit, o.RemoveCollectionKey)
	}

	groups := v1.Group("/groups")
	{
		edit := r.perm(constants.PermissionEditGroup)
		groups.GET("", o.ListGroups)
		groups.POST("", r.perm(constants.PermissionCreateGroup), o.CreateGroup)
		groups.PUT("/:groupId", edit, o.UpdateGroup)
		groups.DELETE("/:groupId", edit, o.DeleteGroup)
	}

	workgroups := v1.Group("/workgroups")
	{
		edit := r.perm(constants.PermissionEditWorkgroup)
		workgroups.GET("", o.ListWorkgroups)
		workgroups.POST("", r.perm(constants.PermissionCreateWorkgroup), o.CreateWorkgroup)
		workgroups.PUT("/:workgroupId", edit, o.UpdateWorkgroup)
		workgroups.DELETE("/:workgroupId", edit, o.DeleteWorkgroup)
		workgroups.POST("/:workgroupId/users", edit, o.AddWorkgroupUser)
		workgroups.DELETE("/:workgroupId/users/:userId", edit, o.RemoveWorkgroupUser)
	}

	v1.GET("/organizations", o.ListOrganizations)

	media := v1.Group("/media", r.perm(constants.PermissionUploadMedia))
	{
		m := r.handlers.Media
		media.POST("/:entity", m.Upload)
		media.PUT("/:entity/:mediaId", m.UpdateMetadata)
		media.DELETE("/:entity/:entityId/:mediaId", m.Delete)
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		r.resp.Error(c, errors.NewError(errors.CodeNotFound, http.StatusNotFound, "error.notFound.route",
			"the requested resource was not found"))
	})
}

// Start 启动 HTTP 服务器; it returns once the server is shut down.
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    r.config.Server.ReadTimeout,
		WriteTimeout:   r.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", addr))
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
