package cli

import (
	"log/slog"

	"github.com/roach88/perov/internal/store"
)

func openStore(path string, logger *slog.Logger) (*store.Store, error) {
	logger.Debug("opening database", "path", path)
	return store.Open(path)
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}
