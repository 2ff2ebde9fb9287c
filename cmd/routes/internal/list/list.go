package list

import (
	"io"
	"log/slog"
	"os"

	"github.com/broady/routes"
	"github.com/broady/routes/cmd/routes/internal/scan"
	"github.com/broady/routes/internal/config"
)

type Cmd struct {
	scan.Flags `embed:""`

	Format string `help:"Output format: text or json (default: text)." short:"f"`
}

func (c *Cmd) Run() error {
	return c.run(os.Stdout, os.Stderr)
}

func (c *Cmd) run(stdout, stderr io.Writer) error {
	cfg, err := c.Load(config.Config{Format: c.Format})
	if err != nil {
		return err
	}
	logger := scan.NewLogger(stderr, cfg)

	logger.Info("scanning", slog.String("scope", cfg.ScanPackages))
	rs, err := routes.List(scan.NewLoader(cfg, logger), cfg.ScanPackages)
	if err != nil {
		return err
	}
	logger.Debug("discovered routes", slog.Int("count", len(rs)))

	if cfg.Format == config.FormatJSON {
		return routes.RenderJSON(stdout, rs)
	}
	return routes.Render(stdout, rs)
}
