package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "mAccessMap"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api server",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serves the full REST API of the accessibility map.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Run database migrations",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Applies pending schema migrations and exits.`,
		},
	}

	s.app = app
}
