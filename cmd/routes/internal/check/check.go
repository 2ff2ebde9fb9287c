package check

import (
	"fmt"
	"io"
	"os"

	"github.com/broady/routes"
	"github.com/broady/routes/cmd/routes/internal/scan"
	"github.com/broady/routes/internal/config"
)

type Cmd struct {
	scan.Flags `embed:""`
}

func (c *Cmd) Run() error {
	return c.run(os.Stdout, os.Stderr)
}

func (c *Cmd) run(stdout, stderr io.Writer) error {
	cfg, err := c.Load(config.Config{})
	if err != nil {
		return err
	}
	logger := scan.NewLogger(stderr, cfg)

	// Load descriptors directly so handler types can be counted
	types, err := scan.NewLoader(cfg, logger).Types(cfg.ScanPackages)
	if err != nil {
		return err
	}
	handlers := routes.Candidates(types)
	rs := routes.Discover(types)

	fmt.Fprintf(stdout, "✓ Scanned %s\n", cfg.ScanPackages)
	fmt.Fprintf(stdout, "✓ %d handler types, %d routes\n", len(handlers), len(rs))
	fmt.Fprintln(stdout, "✓ All route markers valid")
	return nil
}
