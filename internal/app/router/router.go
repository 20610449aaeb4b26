package router

import (
	"github.com/gin-gonic/gin"

	analysishandler "disclosure_backend/internal/feature/analysis/transport/handler"
	authhandler "disclosure_backend/internal/feature/auth/transport/handler"
	comparehandler "disclosure_backend/internal/feature/compare/transport/handler"
	corphandler "disclosure_backend/internal/feature/corporations/transport/handler"
	stmthandler "disclosure_backend/internal/feature/statements/transport/handler"
	synchandler "disclosure_backend/internal/feature/sync/transport/handler"
	"disclosure_backend/internal/platform/http/handler"
	jwtmw "disclosure_backend/internal/platform/jwt"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth         *authhandler.AuthHandler
	Corporations *corphandler.CorporationHandler
	Statements   *stmthandler.StatementHandler
	Analysis     *analysishandler.AnalysisHandler
	Compare      *comparehandler.CompareHandler
	Sync         *synchandler.SyncHandler
}

// NewRouter mounts all routes. Everything except the health check and
// the auth endpoints requires a valid bearer token.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", handler.Health)
	r.POST("/signup", h.Auth.Signup)
	r.POST("/login", h.Auth.Login)

	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/corporations", h.Corporations.List)
		auth.GET("/corporations/count", h.Corporations.Count)
		auth.GET("/corporations/search", h.Corporations.Search)
		auth.GET("/corporations/:code", h.Corporations.Get)
		auth.GET("/corporations/:code/statements", h.Statements.ListByYear)
		auth.GET("/corporations/:code/years", h.Statements.Years)

		auth.GET("/analysis/:code/summary", h.Analysis.Summary)
		auth.GET("/analysis/:code/ratios", h.Analysis.Ratios)
		auth.GET("/analysis/:code/growth", h.Analysis.Growth)
		auth.GET("/analysis/:code/cagr", h.Analysis.CAGR)
		auth.GET("/analysis/:code/health", h.Analysis.Health)
		auth.GET("/analysis/:code/trend", h.Analysis.Trend)
		auth.GET("/analysis/:code/growth-rates", h.Analysis.GrowthRates)
		auth.GET("/analysis/:code/stability", h.Analysis.Stability)

		auth.GET("/compare/selection", h.Compare.Selection)
		auth.POST("/compare/selection/:code", h.Compare.Add)
		auth.DELETE("/compare/selection/:code", h.Compare.Remove)
		auth.DELETE("/compare/selection", h.Compare.Clear)
		auth.GET("/compare/table", h.Compare.Table)
		auth.GET("/compare/rank", h.Compare.Rank)
		auth.GET("/compare/stats", h.Compare.Stats)
		auth.GET("/compare/sets", h.Compare.ListSets)
		auth.POST("/compare/sets/:name", h.Compare.SaveSet)
		auth.POST("/compare/sets/:name/load", h.Compare.LoadSet)
		auth.DELETE("/compare/sets/:name", h.Compare.DeleteSet)

		auth.POST("/sync/corporations", h.Sync.SyncCorporations)
		auth.POST("/sync/statements", h.Sync.SyncStatements)
		auth.POST("/sync/cancel", h.Sync.Cancel)
		auth.GET("/sync/log", h.Sync.RecentLog)
		auth.GET("/sync/log/:code", h.Sync.CorpLog)
	}

	return r
}
