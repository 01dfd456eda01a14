package lifecycle

import (
	"context"
	"os"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/deskview/internal/backend"
	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
)

// Start validates d and runs it on the backend linked into this binary.
// Configuration errors are reported before any native call.
func Start(ctx context.Context, d config.Descriptor) int {
	return StartWith(ctx, d, backend.New())
}

func StartWith(ctx context.Context, d config.Descriptor, b desktop.Backend) int {
	ConfigureLogging(d.DevelopMode)

	cfg, err := config.New(d)
	if err != nil {
		log.Errorw("invalid configuration", "err", err)
		return desktop.StatusOf(err)
	}
	return New(b).Run(ctx, cfg)
}

// ConfigureLogging sets every deskview logger to debug in developer mode and
// info otherwise. An explicit GOLOG_LOG_LEVEL wins.
func ConfigureLogging(develop bool) {
	if os.Getenv("GOLOG_LOG_LEVEL") != "" {
		return
	}
	level := "info"
	if develop {
		level = "debug"
	}
	if err := logging.SetLogLevelRegex("^deskview/", level); err != nil {
		log.Warnf("set log level: %v", err)
	}
}
