package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/questx-lab/reactrole/internal/bot"
	"github.com/questx-lab/reactrole/internal/domain"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/kafka"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startBot(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Discord.BotToken == "" {
		return errors.New("discord bot token is not configured")
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadEndpoint()
	s.loadRepos()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	processor := domain.NewReactionProcessor(s.reactionRoleRepo, s.discordEndpoint, cfg.Discord.BotID)

	if cfg.Kafka.Addr != "" {
		subscriber, err := kafka.NewSubscriber(
			cfg.Kafka.GroupID,
			[]string{cfg.Kafka.Addr},
			[]string{model.ReactionRoleTopic},
			processor.Invalidate,
		)
		if err != nil {
			return err
		}
		defer subscriber.Stop(s.ctx)

		go subscriber.Subscribe(ctx)
	} else {
		xcontext.Logger(s.ctx).Warnf("Kafka is not configured, changes of groups are seen after the cache expires")
	}

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		return err
	}

	session.Identify.Intents = discordgo.IntentsGuildMessageReactions
	handler := bot.NewReactionHandler(ctx, processor)
	session.AddHandler(handler.OnReactionAdd)
	session.AddHandler(handler.OnReactionRemove)

	if err := session.Open(); err != nil {
		return err
	}
	defer session.Close()

	xcontext.Logger(s.ctx).Infof("Bot is listening to reactions")
	<-ctx.Done()

	xcontext.Logger(s.ctx).Infof("Bot stopped")
	return nil
}
