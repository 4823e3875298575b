package fx

import (
	"lucha-gm/internal/config"
	"lucha-gm/internal/database"
	"lucha-gm/internal/logger"
	"lucha-gm/internal/repository"
	"lucha-gm/internal/server"
	"lucha-gm/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSaveRepository),
	fx.Provide(repository.NewWrestlerRepository),
	fx.Provide(repository.NewTitleRepository),
	fx.Provide(repository.NewPlannerRepository),
	fx.Provide(repository.NewFinanceRepository),
	fx.Provide(repository.NewMatchLogRepository),
	// svc
	fx.Provide(service.NewSaveService),
	fx.Provide(service.NewRosterService),
	fx.Provide(service.NewTitleService),
	fx.Provide(service.NewPlannerService),
	fx.Provide(service.NewResolutionService),
	fx.Provide(service.NewWeekService),
	fx.Provide(service.NewDashboardService),
	// server
	fx.Provide(server.New),
)
