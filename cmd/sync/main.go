package main

import (
	"context"
	"flag"
	"log"
	"strconv"
	"strings"
	"time"

	corpadapters "disclosure_backend/internal/feature/corporations/adapters"
	stmtadapters "disclosure_backend/internal/feature/statements/adapters"
	syncadapters "disclosure_backend/internal/feature/sync/adapters"
	syncusecase "disclosure_backend/internal/feature/sync/usecase"
	"disclosure_backend/internal/platform/cache"
	"disclosure_backend/internal/platform/db"
	"disclosure_backend/internal/platform/externalapi/opendart"
	"disclosure_backend/internal/shared/ratelimiter"
)

func main() {
	corpCls := flag.String("market", "", "registry market class to sync (Y/K/N/E, empty for all)")
	corps := flag.String("corps", "", "comma separated corporation codes")
	years := flag.String("years", "", "comma separated fiscal years")
	rate := flag.Float64("rate", 2, "remote calls per second")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run deadline")
	flag.Parse()

	conn := db.OpenDB()
	engine := syncusecase.NewSyncEngine(
		opendart.NewClient(opendart.LoadConfig(), nil),
		corpadapters.NewCorporationRepository(conn),
		stmtadapters.NewStatementRepository(conn),
		syncadapters.NewSyncLogRepository(conn),
		ratelimiter.NewRateLimiter(*rate, 1),
		cache.NewMemoryStore(),
		syncusecase.DefaultConfig(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	progress := func(completed, total int, outcome string) {
		log.Printf("progress %d/%d (%s)", completed, total, outcome)
	}

	if *corps == "" {
		report, err := engine.SyncCorporationList(ctx, *corpCls, progress)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("corporation list synced (succeeded=%d)", report.Succeeded)
		return
	}

	yearList, err := parseYears(*years)
	if err != nil {
		log.Fatal(err)
	}
	report, err := engine.SyncStatements(ctx, strings.Split(*corps, ","), yearList, progress)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("statements synced (succeeded=%d failed=%d cancelled=%v)",
		report.Succeeded, len(report.Failed), report.Cancelled)
}

func parseYears(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		year, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, year)
	}
	return out, nil
}
