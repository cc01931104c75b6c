package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/wfw-net/wfw/wfw"
)

const (
	configFlag     = "config"
	foregroundFlag = "foreground"
)

// ShowVersion shows the wfw version information.
func ShowVersion(_ *cli.Context) {
	fmt.Printf("\tversion: %s\n", wfw.Version)                         //nolint:forbidigo
	fmt.Printf("\tsource : %s\n", "https://github.com/wfw-net/wfw") //nolint:forbidigo
}

// Entrypoint builds the wfw CLI application: it loads configuration, constructs the bridge, and
// runs it.
func Entrypoint() *cli.App {
	cli.VersionPrinter = ShowVersion

	return &cli.App{
		Name:    "wfw",
		Version: wfw.Version,
		Usage:   "tunnel an ethernet segment over udp broadcast",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "wfw configuration file to load",
				Value:   wfw.DefaultConfigPath,
			},
			&cli.BoolFlag{
				Name:    foregroundFlag,
				Aliases: []string{"f"},
				Usage:   "stay attached to the controlling terminal instead of daemonizing",
			},
		},
		Action: func(ctx *cli.Context) error {
			r, err := wfw.NewRunner(
				wfw.WithConfigFile(ctx.String(configFlag)),
				wfw.WithForeground(ctx.Bool(foregroundFlag)),
			)
			if err != nil {
				return err
			}

			return r.Run()
		},
	}
}
