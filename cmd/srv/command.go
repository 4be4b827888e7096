package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path of the toml configuration file",
		EnvVars: []string{"REACTROLE_CONFIG"},
	}

	guildFlag := &cli.StringFlag{
		Name:     "guild",
		Aliases:  []string{"g"},
		Usage:    "id of the guild to configure",
		Required: true,
	}

	tokenFileFlag := &cli.StringFlag{
		Name:  "token-file",
		Usage: "file holding the access token, used when dashboard.token is empty",
	}

	indexFlag := &cli.IntFlag{
		Name:     "index",
		Aliases:  []string{"i"},
		Usage:    "position of the group in the table, starting from 0",
		Required: true,
	}

	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "reactrole"
	s.app.Usage = "Reaction role manager for discord guilds"
	s.app.Flags = []cli.Flag{configFlag}
	s.app.Before = s.loadContext
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used to start the rest api which stores the reaction role groups.`,
		},
		{
			Action:      s.startBot,
			Name:        "bot",
			Usage:       "Start the discord bot",
			Category:    "Worker",
			Description: `Used to start the worker which gives or removes roles when members react.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Category:    "Api",
			Description: `Used to create or update the tables of the database.`,
		},
		{
			Action:    s.generateToken,
			Name:      "token",
			Usage:     "Generate an access token",
			ArgsUsage: "<userID>",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "guild",
					Usage: "guild the token is allowed to configure, repeatable",
				},
			},
			Category:    "Api",
			Description: `Used to issue an access token to an operator of some guilds.`,
		},
		{
			Name:     "groups",
			Usage:    "Manage the reaction role groups of a guild",
			Category: "Dashboard",
			Flags:    []cli.Flag{guildFlag, tokenFileFlag},
			Before:   s.loadDashboard,
			Subcommands: []*cli.Command{
				{
					Action: s.listGroups,
					Name:   "list",
					Usage:  "Print the groups of the guild",
				},
				{
					Action: s.createGroup,
					Name:   "create",
					Usage:  "Create a group",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "channel", Usage: "channel of the message", Required: true},
						&cli.StringFlag{Name: "title", Usage: "title of the group", Required: true},
						&cli.StringFlag{Name: "message", Usage: "content of the message the bot posts"},
						&cli.StringFlag{Name: "message-id", Usage: "id of an existing message"},
						&cli.StringSliceFlag{
							Name:     "reaction",
							Usage:    "binding as emoji=roleID[:type], repeatable",
							Required: true,
						},
					},
				},
				{
					Action: s.toggleGroup,
					Name:   "toggle",
					Usage:  "Enable or disable a group",
					Flags:  []cli.Flag{indexFlag},
				},
				{
					Action: s.deleteGroup,
					Name:   "delete",
					Usage:  "Delete a group and its reactions",
					Flags:  []cli.Flag{indexFlag},
				},
			},
		},
	}
}
