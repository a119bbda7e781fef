package router

import (
	"context"
	"net/http"

	"github.com/TheoSfak/volunteer-ops-sub005/config"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/logger"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HandlerFunc is the signature of every domain operation. The router binds
// the request, runs the handler and writes the enveloped response.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

type Router struct {
	Inner gin.IRouter

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB
}

func New(db *gorm.DB, cfg config.Configs, l logger.Logger) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		Inner:  engine,
		cfg:    cfg,
		logger: l,
		db:     db,
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Branch(pattern string) *Router {
	return &Router{
		Inner:  r.Inner.Group(pattern),
		cfg:    r.cfg,
		logger: r.logger,
		db:     r.db,
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

// requestContext builds the context handed to domain code: configs, logger,
// database and the requesting user travel inside it.
func (r *Router) requestContext(ginCtx *gin.Context) context.Context {
	ctx := xcontext.WithConfigs(ginCtx.Request.Context(), r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)

	// Authentication is handled upstream; the gateway forwards the
	// authenticated principal in this header.
	if userID := ginCtx.GetHeader("X-User-ID"); userID != "" {
		ctx = xcontext.WithRequestUserID(ctx, userID)
	}

	return ctx
}
