package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/questx-lab/reactrole/config"
	"github.com/questx-lab/reactrole/internal/common"
	"github.com/questx-lab/reactrole/internal/dashboard"
	"github.com/questx-lab/reactrole/internal/domain"
	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/internal/repository"
	"github.com/questx-lab/reactrole/pkg/api/discord"
	"github.com/questx-lab/reactrole/pkg/authenticator"
	"github.com/questx-lab/reactrole/pkg/kafka"
	"github.com/questx-lab/reactrole/pkg/logger"
	"github.com/questx-lab/reactrole/pkg/pubsub"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/questx-lab/reactrole/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	reactionRoleRepo repository.ReactionRoleRepository
	idempotencyRepo  repository.IdempotencyRepository

	reactionRoleDomain domain.ReactionRoleDomain
	guildDomain        domain.GuildDomain

	discordEndpoint discord.IEndpoint
	redisClient     xredis.Client
	publisher       pubsub.Publisher
	tokenEngine     authenticator.TokenEngine[model.AccessToken]

	manager *dashboard.Manager
}

// loadContext is the first step of every command. It puts the configs and the
// logger into the root context.
func (s *srv) loadContext(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		panic(fmt.Sprintf("unsupported database driver %q", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadEndpoint() {
	s.discordEndpoint = discord.New(xcontext.Configs(s.ctx).Discord)
}

// loadRedisClient falls back to an in-process cache when no redis address is
// configured or the server cannot be reached.
func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		s.redisClient = xredis.NewMemoryClient()
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, use memory cache: %v", err)
		s.redisClient = xredis.NewMemoryClient()
		return
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		s.publisher = pubsub.NewNopPublisher()
		return
	}

	publisher, err := kafka.NewPublisher("reactrole-api", []string{cfg.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.reactionRoleRepo = repository.NewReactionRoleRepository()
	s.idempotencyRepo = repository.NewIdempotencyRepository()
}

func (s *srv) loadDomains() {
	guildVerifier := common.NewGuildVerifier()
	s.reactionRoleDomain = domain.NewReactionRoleDomain(
		s.reactionRoleRepo, s.idempotencyRepo, guildVerifier, s.discordEndpoint, s.publisher)
	s.guildDomain = domain.NewGuildDomain(guildVerifier, s.discordEndpoint, s.redisClient)
}

func (s *srv) loadTokenEngine() {
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](xcontext.Configs(s.ctx).Auth)
}
