package main

import (
	"errors"
	"fmt"

	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) generateToken(cctx *cli.Context) error {
	userID := cctx.Args().First()
	if userID == "" {
		return errors.New("missing user id")
	}

	if xcontext.Configs(s.ctx).Auth.TokenSecret == "" {
		return errors.New("token secret is not configured")
	}

	s.loadTokenEngine()
	token, err := s.tokenEngine.Generate(userID, model.AccessToken{
		ID:     userID,
		Name:   userID,
		Guilds: cctx.StringSlice("guild"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cctx.App.Writer, token)
	return nil
}
