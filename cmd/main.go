package main

import (
	"log"
	"os"

	"ChunkBuf/pkg/utils"
	"ChunkBuf/pkg/version"

	"github.com/google/gops/agent"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var logger = utils.GetLogger("chunkbuf")

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "V", Aliases: []string{"version"},
		Usage: "print only the version",
	}
	app := &cli.App{
		Name:    "chunkbuf",
		Usage:   "a growable chunk-backed byte buffer toolbox",
		Version: version.Version(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"debug", "v"},
				Usage:   "enable debug log",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only warning and errors",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "enable trace log",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "redirect log to file",
			},
			&cli.BoolFlag{
				Name:  "no-agent",
				Usage: "disable the gops agent",
			},
		},
		Commands: []*cli.Command{
			benchFlags(),
			inspectFlags(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) {
	if c.Bool("trace") {
		utils.SetLogLevel(logrus.TraceLevel)
	} else if c.Bool("verbose") {
		utils.SetLogLevel(logrus.DebugLevel)
	} else if c.Bool("quiet") {
		utils.SetLogLevel(logrus.WarnLevel)
	} else {
		utils.SetLogLevel(logrus.InfoLevel)
	}
	if f := c.String("log"); f != "" {
		utils.SetOutFile(f)
	}
	if !c.Bool("no-agent") {
		go func() {
			if err := agent.Listen(agent.Options{}); err != nil {
				logger.Warnf("gops agent: %s", err)
			}
		}()
	}
}
