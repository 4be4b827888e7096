package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/reactrole/config"
	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/pkg/logger"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.AccessToken.Expiration = time.Minute
	cfg.Discord.BotToken = "bot-token"
	cfg.Discord.BotID = "bot"
	cfg.ReactionRole.MaxBindings = 5
	return cfg
}

// MockContext returns a context carrying an empty in-memory database.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection of an in-memory sqlite database is a different
	// database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// MockContextWithUserID returns a context of a request made by the user
// managing the given guilds.
func MockContextWithUserID(ctx context.Context, userID string, guilds ...string) context.Context {
	ctx = xcontext.WithRequestUserID(ctx, userID)
	return xcontext.WithRequestGuilds(ctx, guilds)
}
