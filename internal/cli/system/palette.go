package system

import (
	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/tui"
)

type PaletteCmd struct{}

func (c *PaletteCmd) Run(ctx *cli.Context) error {
	for _, name := range models.ColorNames() {
		suffix := ""
		if name == constants.DefaultColor {
			suffix = cli.MutedStyle.Render("  (used for unknown colors)")
		}
		ctx.Printf("%s %-8s %s%s\n", tui.Swatch(name, "██"), name, models.ColorHex(name), suffix)
	}
	return nil
}
