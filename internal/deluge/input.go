package deluge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"reel/internal/config"
	"reel/internal/entry"
	"reel/internal/logging"
)

// Input generates entries for torrents in the daemon session.
type Input struct {
	session Session
	cfg     config.Deluge
	logger  *slog.Logger
}

// NewInput creates the session input adapter.
func NewInput(session Session, cfg config.Deluge, logger *slog.Logger) *Input {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Input{
		session: session,
		cfg:     cfg,
		logger:  logger.With(logging.String("component", "deluge_input")),
	}
}

// Entries fetches all torrents matching the configured filter and returns
// one entry per torrent, mapped through the status field table.
func (in *Input) Entries(ctx context.Context) ([]*entry.Entry, error) {
	if err := in.session.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to deluge: %w", err)
	}
	defer in.session.Close()

	extras := extraMapping(in.cfg.ExtraKeys)
	fields := append(statusMapping.SourceFields(), extras.SourceFields()...)

	raw, err := in.session.Call(ctx, "core.get_torrents_status", in.filters(), fields)
	if err != nil {
		return nil, fmt.Errorf("get torrents status: %w", err)
	}
	torrents, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("torrents status is %T, want map", raw)
	}

	hashes := make([]string, 0, len(torrents))
	for hash := range torrents {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	entries := make([]*entry.Entry, 0, len(hashes))
	for _, hash := range hashes {
		status, ok := torrents[hash].(map[string]any)
		if !ok {
			in.logger.Warn("skipping malformed torrent status", logging.String("hash", hash))
			continue
		}
		entries = append(entries, in.makeEntry(hash, status, extras))
	}
	return entries, nil
}

func (in *Input) makeEntry(hash string, status map[string]any, extras entry.Mapping) *entry.Entry {
	e := entry.New()
	e.SetLogger(in.logger)
	e.Set("deluge_id", hash)
	// Every entry carries a url so downstream plugins never crash on it.
	e.Set("url", "")

	if in.cfg.ConfigPath != "" {
		torrentPath := filepath.Join(in.cfg.ConfigPath, "state", hash+".torrent")
		if info, err := os.Stat(torrentPath); err == nil && !info.IsDir() {
			e.Set("location", torrentPath)
			e.Set("url", "file://"+torrentPath)
		} else {
			in.logger.Warn("torrent file not found",
				logging.String("path", torrentPath))
		}
	}

	source := entry.MapSource(status)
	statusMapping.Apply(source, e)
	extras.Apply(source, e)
	return e
}

func (in *Input) filters() map[string]any {
	filters := make(map[string]any)
	if in.cfg.FilterLabel != "" {
		filters["label"] = in.cfg.FilterLabel
	}
	if in.cfg.FilterState != "" {
		filters["state"] = in.cfg.FilterState
	}
	return filters
}
