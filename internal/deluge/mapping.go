package deluge

import (
	"fmt"

	"reel/internal/entry"
)

// statusMapping translates torrent status attributes onto entry fields.
// Times are converted to hours and sizes to MiB so entry consumers never
// deal in daemon-native units.
var statusMapping = entry.Mapping{
	entry.Direct("title", "name"),
	entry.Direct("torrent_info_hash", "hash"),
	entry.Direct("torrent_peers", "num_peers"),
	entry.Direct("torrent_seeds", "num_seeds"),
	entry.Direct("deluge_progress", "progress"),
	entry.Transformed("deluge_seed_time", "seeding_time", secondsToHours),
	entry.Direct("deluge_private", "private"),
	entry.Direct("deluge_state", "state"),
	entry.Direct("deluge_eta", "eta"),
	entry.Direct("deluge_ratio", "ratio"),
	entry.Direct("deluge_movedone", "move_on_completed_path"),
	entry.Direct("deluge_path", "save_path"),
	entry.Direct("deluge_label", "label"),
	entry.Transformed("content_size", "total_size", bytesToMiB),
	entry.Transformed("content_files", "files", filePaths),
}

// extraStatusKeys are daemon status attributes callers may request beyond
// the standard mapping; they are copied onto entries under their own
// names, except active_time which is converted to hours.
var extraStatusKeys = map[string]entry.Field{
	"active_time":            entry.Transformed("active_time", "active_time", secondsToHours),
	"compact":                entry.Direct("compact", "compact"),
	"distributed_copies":     entry.Direct("distributed_copies", "distributed_copies"),
	"download_payload_rate":  entry.Direct("download_payload_rate", "download_payload_rate"),
	"file_progress":          entry.Direct("file_progress", "file_progress"),
	"is_auto_managed":        entry.Direct("is_auto_managed", "is_auto_managed"),
	"is_seed":                entry.Direct("is_seed", "is_seed"),
	"max_connections":        entry.Direct("max_connections", "max_connections"),
	"max_download_speed":     entry.Direct("max_download_speed", "max_download_speed"),
	"max_upload_slots":       entry.Direct("max_upload_slots", "max_upload_slots"),
	"max_upload_speed":       entry.Direct("max_upload_speed", "max_upload_speed"),
	"message":                entry.Direct("message", "message"),
	"move_on_completed":      entry.Direct("move_on_completed", "move_on_completed"),
	"next_announce":          entry.Direct("next_announce", "next_announce"),
	"num_files":              entry.Direct("num_files", "num_files"),
	"num_pieces":             entry.Direct("num_pieces", "num_pieces"),
	"paused":                 entry.Direct("paused", "paused"),
	"peers":                  entry.Direct("peers", "peers"),
	"piece_length":           entry.Direct("piece_length", "piece_length"),
	"prioritize_first_last":  entry.Direct("prioritize_first_last", "prioritize_first_last"),
	"queue":                  entry.Direct("queue", "queue"),
	"remove_at_ratio":        entry.Direct("remove_at_ratio", "remove_at_ratio"),
	"seed_rank":              entry.Direct("seed_rank", "seed_rank"),
	"stop_at_ratio":          entry.Direct("stop_at_ratio", "stop_at_ratio"),
	"stop_ratio":             entry.Direct("stop_ratio", "stop_ratio"),
	"total_done":             entry.Direct("total_done", "total_done"),
	"total_payload_download": entry.Direct("total_payload_download", "total_payload_download"),
	"total_payload_upload":   entry.Direct("total_payload_upload", "total_payload_upload"),
	"total_peers":            entry.Direct("total_peers", "total_peers"),
	"total_seeds":            entry.Direct("total_seeds", "total_seeds"),
	"total_uploaded":         entry.Direct("total_uploaded", "total_uploaded"),
	"total_wanted":           entry.Direct("total_wanted", "total_wanted"),
	"tracker":                entry.Direct("tracker", "tracker"),
	"tracker_host":           entry.Direct("tracker_host", "tracker_host"),
	"tracker_status":         entry.Direct("tracker_status", "tracker_status"),
	"trackers":               entry.Direct("trackers", "trackers"),
	"upload_payload_rate":    entry.Direct("upload_payload_rate", "upload_payload_rate"),
}

// extraMapping builds the passthrough mapping for the configured keys.
// Unknown keys are ignored.
func extraMapping(keys []string) entry.Mapping {
	mapping := make(entry.Mapping, 0, len(keys))
	for _, key := range keys {
		if field, ok := extraStatusKeys[key]; ok {
			mapping = append(mapping, field)
		}
	}
	return mapping
}

func secondsToHours(value any) (any, error) {
	seconds, err := toFloat64(value)
	if err != nil {
		return nil, err
	}
	return seconds / 3600, nil
}

func bytesToMiB(value any) (any, error) {
	size, err := toFloat64(value)
	if err != nil {
		return nil, err
	}
	return size / 1024 / 1024, nil
}

func filePaths(value any) (any, error) {
	files, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("files is %T, want list", value)
	}
	paths := make([]string, 0, len(files))
	for _, file := range files {
		dict, ok := file.(map[string]any)
		if !ok {
			continue
		}
		if path, ok := dict["path"].(string); ok {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("value is %T, want number", value)
}
