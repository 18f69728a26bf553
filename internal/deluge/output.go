package deluge

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"reel/internal/config"
	"reel/internal/entry"
	"reel/internal/logging"
)

var labelCleaner = regexp.MustCompile(`[^\w-]+`)

// Output adds accepted entries to the daemon and applies post-add
// options such as labels, move locations, and queue position.
type Output struct {
	session Session
	cfg     config.Deluge
	logger  *slog.Logger
}

// NewOutput creates the session output adapter.
func NewOutput(session Session, cfg config.Deluge, logger *slog.Logger) *Output {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Output{
		session: session,
		cfg:     cfg,
		logger:  logger.With(logging.String("component", "deluge_output")),
	}
}

// Options are per-entry output knobs. Entry fields named deluge_* take
// precedence over the configured defaults when present.
type Options struct {
	Label        string
	MoveDone     string
	Path         string
	AddPaused    bool
	MaxUpSpeed   float64
	MaxDownSpeed float64
	StopRatio    float64
	QueueToTop   *bool
}

// Add sends each entry to the daemon. Entries that are already in the
// session only get their options updated. A failure on one entry marks
// that entry failed and moves on; the first error is returned after all
// entries have been attempted.
func (out *Output) Add(ctx context.Context, entries []*entry.Entry) error {
	if err := out.session.Connect(ctx); err != nil {
		return fmt.Errorf("connect to deluge: %w", err)
	}
	defer out.session.Close()

	if err := out.ensureLabels(ctx, entries); err != nil {
		return err
	}

	existing, err := out.sessionState(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, e := range entries {
		if err := out.addEntry(ctx, e, existing); err != nil {
			out.logger.Error("failed to add entry",
				logging.String("entry", e.String()),
				logging.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (out *Output) addEntry(ctx context.Context, e *entry.Entry, existing map[string]bool) error {
	opts := out.entryOptions(e)

	if hash := out.infoHash(e); hash != "" && existing[hash] {
		out.logger.Info("torrent already in session, updating options",
			logging.String("hash", hash))
		if err := out.maybeMoveStorage(ctx, hash, opts.Path); err != nil {
			return err
		}
		return out.postAdd(ctx, e, hash, opts)
	}

	addOpts := map[string]any{"add_paused": opts.AddPaused}
	if opts.Path != "" {
		addOpts["download_location"] = opts.Path
	}

	id, err := out.addTorrent(ctx, e, addOpts)
	if err != nil {
		return err
	}
	return out.postAdd(ctx, e, id, opts)
}

func (out *Output) addTorrent(ctx context.Context, e *entry.Entry, addOpts map[string]any) (string, error) {
	url := e.GetDefaultString("url", "")
	if strings.HasPrefix(url, "magnet:") {
		raw, err := out.session.Call(ctx, "core.add_torrent_magnet", url, addOpts)
		if err != nil {
			return "", fmt.Errorf("add magnet: %w", err)
		}
		return torrentID(raw)
	}

	location := e.GetDefaultString("location", "")
	if location == "" {
		return "", fmt.Errorf("entry %s has no downloaded torrent file", e)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return "", fmt.Errorf("read torrent file: %w", err)
	}
	raw, err := out.session.Call(ctx, "core.add_torrent_file",
		filepath.Base(location), base64.StdEncoding.EncodeToString(data), addOpts)
	if err != nil {
		return "", fmt.Errorf("add torrent file: %w", err)
	}
	return torrentID(raw)
}

func (out *Output) postAdd(ctx context.Context, e *entry.Entry, id string, opts Options) error {
	e.Set("deluge_id", id)

	if options := torrentOptions(opts); len(options) > 0 {
		if _, err := out.session.Call(ctx, "core.set_torrent_options", []string{id}, options); err != nil {
			return fmt.Errorf("set torrent options: %w", err)
		}
	}
	if opts.Label != "" {
		if _, err := out.session.Call(ctx, "label.set_torrent", id, formatLabel(opts.Label)); err != nil {
			return fmt.Errorf("set label: %w", err)
		}
	}
	if opts.QueueToTop != nil {
		method := "core.queue_bottom"
		if *opts.QueueToTop {
			method = "core.queue_top"
		}
		if _, err := out.session.Call(ctx, method, []string{id}); err != nil {
			return fmt.Errorf("set queue position: %w", err)
		}
	}
	return nil
}

// maybeMoveStorage relocates an existing torrent when its save path
// differs from the wanted one. download_location only affects new adds;
// existing torrents need an explicit move.
func (out *Output) maybeMoveStorage(ctx context.Context, id, path string) error {
	if path == "" {
		return nil
	}
	raw, err := out.session.Call(ctx, "core.get_torrent_status", id, []string{"save_path"})
	if err != nil {
		return fmt.Errorf("get torrent status: %w", err)
	}
	status, _ := raw.(map[string]any)
	if current, _ := status["save_path"].(string); current == path {
		return nil
	}
	if _, err := out.session.Call(ctx, "core.move_storage", []string{id}, path); err != nil {
		return fmt.Errorf("move storage: %w", err)
	}
	out.logger.Info("moved torrent storage",
		logging.String("id", id),
		logging.String("path", path))
	return nil
}

// torrentOptions collects the post-add options that go through a single
// core.set_torrent_options call.
func torrentOptions(opts Options) map[string]any {
	options := make(map[string]any)
	if opts.MoveDone != "" {
		options["move_completed"] = true
		options["move_completed_path"] = opts.MoveDone
	}
	if opts.MaxUpSpeed > 0 {
		options["max_upload_speed"] = opts.MaxUpSpeed
	}
	if opts.MaxDownSpeed > 0 {
		options["max_download_speed"] = opts.MaxDownSpeed
	}
	if opts.StopRatio > 0 {
		options["stop_at_ratio"] = true
		options["stop_ratio"] = opts.StopRatio
	}
	return options
}

// ensureLabels registers every label the batch needs so label.set_torrent
// cannot fail on an unknown label. The label plugin is enabled on demand.
func (out *Output) ensureLabels(ctx context.Context, entries []*entry.Entry) error {
	labels := make(map[string]bool)
	for _, e := range entries {
		if label := formatLabel(out.entryOptions(e).Label); label != "" {
			labels[label] = true
		}
	}
	if len(labels) == 0 {
		return nil
	}

	raw, err := out.session.Call(ctx, "core.get_enabled_plugins")
	if err != nil {
		return fmt.Errorf("get enabled plugins: %w", err)
	}
	if !pluginEnabled(raw, "Label") {
		if _, err := out.session.Call(ctx, "core.enable_plugin", "Label"); err != nil {
			return fmt.Errorf("enable label plugin: %w", err)
		}
	}

	raw, err = out.session.Call(ctx, "label.get_labels")
	if err != nil {
		return fmt.Errorf("get labels: %w", err)
	}
	known := make(map[string]bool)
	if list, ok := raw.([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				known[s] = true
			}
		}
	}
	for label := range labels {
		if known[label] {
			continue
		}
		if _, err := out.session.Call(ctx, "label.add", label); err != nil {
			return fmt.Errorf("add label %q: %w", label, err)
		}
		out.logger.Info("created label", logging.String("label", label))
	}
	return nil
}

func (out *Output) sessionState(ctx context.Context) (map[string]bool, error) {
	raw, err := out.session.Call(ctx, "core.get_session_state")
	if err != nil {
		return nil, fmt.Errorf("get session state: %w", err)
	}
	state := make(map[string]bool)
	if list, ok := raw.([]any); ok {
		for _, item := range list {
			if hash, ok := item.(string); ok {
				state[strings.ToLower(hash)] = true
			}
		}
	}
	return state, nil
}

func (out *Output) entryOptions(e *entry.Entry) Options {
	opts := Options{
		Label:        out.cfg.Label,
		MoveDone:     out.cfg.MoveDone,
		Path:         out.cfg.Path,
		AddPaused:    out.cfg.AddPaused,
		MaxUpSpeed:   out.cfg.MaxUpSpeed,
		MaxDownSpeed: out.cfg.MaxDownSpeed,
		StopRatio:    out.cfg.StopRatio,
	}
	if label := e.GetDefaultString("deluge_label", ""); label != "" {
		opts.Label = label
	}
	if movedone := e.GetDefaultString("deluge_movedone", ""); movedone != "" {
		opts.MoveDone = movedone
	}
	if path := e.GetDefaultString("deluge_path", ""); path != "" {
		opts.Path = path
	}
	if speed, ok := floatField(e, "deluge_max_up_speed"); ok {
		opts.MaxUpSpeed = speed
	}
	if speed, ok := floatField(e, "deluge_max_down_speed"); ok {
		opts.MaxDownSpeed = speed
	}
	if ratio, ok := floatField(e, "deluge_stop_ratio"); ok {
		opts.StopRatio = ratio
	}
	if value, ok := e.Peek("deluge_queue_to_top"); ok {
		if top, ok := value.(bool); ok {
			opts.QueueToTop = &top
		}
	}
	return opts
}

func floatField(e *entry.Entry, field string) (float64, bool) {
	value, ok := e.Peek(field)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (out *Output) infoHash(e *entry.Entry) string {
	return strings.ToLower(e.GetDefaultString("torrent_info_hash", ""))
}

// formatLabel normalizes a label the way the daemon's label plugin
// expects: lowercase with runs of disallowed characters collapsed to
// underscores.
func formatLabel(label string) string {
	if label == "" {
		return ""
	}
	return labelCleaner.ReplaceAllString(strings.ToLower(label), "_")
}

func torrentID(raw any) (string, error) {
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("daemon returned %T as torrent id, want string", raw)
	}
	return strings.ToLower(id), nil
}

func pluginEnabled(raw any, name string) bool {
	list, ok := raw.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if s, ok := item.(string); ok && s == name {
			return true
		}
	}
	return false
}
