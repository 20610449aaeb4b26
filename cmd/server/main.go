package main

import (
	"log"
	"os"
	"strconv"

	redisv9 "github.com/redis/go-redis/v9"

	"disclosure_backend/internal/app/router"
	analysisdomain "disclosure_backend/internal/feature/analysis/domain"
	analysishandler "disclosure_backend/internal/feature/analysis/transport/handler"
	analysisusecase "disclosure_backend/internal/feature/analysis/usecase"
	authadapters "disclosure_backend/internal/feature/auth/adapters"
	authhandler "disclosure_backend/internal/feature/auth/transport/handler"
	authusecase "disclosure_backend/internal/feature/auth/usecase"
	compareadapters "disclosure_backend/internal/feature/compare/adapters"
	comparehandler "disclosure_backend/internal/feature/compare/transport/handler"
	compareusecase "disclosure_backend/internal/feature/compare/usecase"
	corpadapters "disclosure_backend/internal/feature/corporations/adapters"
	corphandler "disclosure_backend/internal/feature/corporations/transport/handler"
	corpusecase "disclosure_backend/internal/feature/corporations/usecase"
	stmtadapters "disclosure_backend/internal/feature/statements/adapters"
	stmthandler "disclosure_backend/internal/feature/statements/transport/handler"
	syncadapters "disclosure_backend/internal/feature/sync/adapters"
	synchandler "disclosure_backend/internal/feature/sync/transport/handler"
	syncusecase "disclosure_backend/internal/feature/sync/usecase"
	"disclosure_backend/internal/platform/cache"
	"disclosure_backend/internal/platform/db"
	"disclosure_backend/internal/platform/externalapi/opendart"
	jwtmw "disclosure_backend/internal/platform/jwt"
	platformredis "disclosure_backend/internal/platform/redis"
	"disclosure_backend/internal/shared/ratelimiter"
)

func main() {
	conn := db.OpenDB()

	// Redis is optional; without it the service runs uncached
	var store cache.Store
	if rdb, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else {
		store = cache.NewRedisStore(rdb, "disclosure")
		defer closeRedis(rdb)
	}

	// Repositories
	corpRepo := corpadapters.NewCorporationRepository(conn)
	stmtRepo := stmtadapters.NewStatementRepository(conn)
	syncLogRepo := syncadapters.NewSyncLogRepository(conn)
	userRepo := authadapters.NewUserGorm(conn)
	setRepo := compareadapters.NewComparisonGorm(conn)

	cachedStmts := cache.NewCachingStatementRepository(store, cache.DefaultTTL, stmtRepo)

	// Remote registry
	dartCfg := opendart.LoadConfig()
	registry := opendart.NewClient(dartCfg, nil)
	limiter := ratelimiter.NewRateLimiter(registryCallsPerSecond(), 1)

	// Usecases
	engine := syncusecase.NewSyncEngine(registry, corpRepo, cachedStmts, syncLogRepo, limiter, store, syncusecase.DefaultConfig())
	corpUC := corpusecase.NewCorporationUsecase(corpRepo)
	analysisUC := analysisusecase.NewAnalysisUsecase(cachedStmts, corpRepo, analysisdomain.DefaultScoreConfig())
	compareUC := compareusecase.NewCompareUsecase(analysisUC, corpRepo, setRepo)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(jwtmw.LoadConfig()))

	// Handlers
	h := router.Handlers{
		Auth:         authhandler.NewAuthHandler(authUC),
		Corporations: corphandler.NewCorporationHandler(corpUC),
		Statements:   stmthandler.NewStatementHandler(cachedStmts),
		Analysis:     analysishandler.NewAnalysisHandler(analysisUC),
		Compare:      comparehandler.NewCompareHandler(compareUC),
		Sync:         synchandler.NewSyncHandler(engine),
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := router.NewRouter(h).Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

// registryCallsPerSecond reads the remote rate limit from the
// environment, defaulting to a conservative 2 calls per second.
func registryCallsPerSecond() float64 {
	if raw := os.Getenv("REGISTRY_RATE_LIMIT"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
	}
	return 2
}

func closeRedis(rdb *redisv9.Client) {
	if err := rdb.Close(); err != nil {
		log.Println("[ERROR] Failed to close Redis client:", err)
	}
}
