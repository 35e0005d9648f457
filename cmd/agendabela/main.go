package main

import (
	"github.com/agendabela/agendabela/internal/clock"
	"github.com/agendabela/agendabela/internal/config"
	"github.com/agendabela/agendabela/internal/migration"
	"github.com/agendabela/agendabela/internal/observability"
	"github.com/agendabela/agendabela/internal/server"
	"github.com/agendabela/agendabela/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		fx.Provide(newSnowflakeNode),
		migration.Module,
		server.Module,
	).Run()
}

func newSnowflakeNode(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
