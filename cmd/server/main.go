package main

import (
	"time"

	"github.com/augustdev/amphitheatre/internal/bootstrap"
	"github.com/augustdev/amphitheatre/internal/plays"
	"github.com/augustdev/amphitheatre/internal/storage/pg"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.StopTimeout(15*time.Second),
		fx.Provide(
			bootstrap.NewLogger,
			bootstrap.NewConfig,
			pg.NewDatabase,
			pg.NewPlayQueries,
			bootstrap.NewCache,
			bootstrap.NewK8sClient,
			bootstrap.NewLogSource,
			bootstrap.NewRelay,
			bootstrap.NewInspector,
			bootstrap.NewStatsProvider,
			plays.NewService,
			plays.NewHandlers,
			bootstrap.NewRouter,
		),
		fx.Invoke(
			bootstrap.StartServer,
		),
	).Run()
}
