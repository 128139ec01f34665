package system

import (
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tui"
)

type TuiCmd struct {
	NoWatch bool `help:"Do not reload when another process changes the store."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	var watcher *storage.Watcher
	if ctx.IsFileStore() && !c.NoWatch {
		watcher, err = storage.NewWatcher(ctx.Store.GetConfigPath(), constants.WatchDebounce)
		if err != nil {
			logger.Warn("File watcher unavailable, external changes will not be shown", "error", err)
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	return tui.Run(coord, watcher)
}
