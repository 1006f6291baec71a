package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storelane/merchant/internal/clock"
	"github.com/storelane/merchant/internal/config"
	"github.com/storelane/merchant/internal/invoice"
	invoicedomain "github.com/storelane/merchant/internal/invoice/domain"
	"github.com/storelane/merchant/internal/seed"
	"github.com/storelane/merchant/pkg/db"
	"github.com/storelane/merchant/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(ProvideDB),

		invoice.Module,
		fx.Invoke(seed.EnsureStatuses),

		fx.Invoke(func(logger *zap.Logger, _ invoicedomain.Repository) {
			logger.Info("invoice store ready")
		}),
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func ProvideDB(cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return db.Open(cfg.DB, logger)
}
