package ipc

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// IRCStatus describes one managed IRC connection.
type IRCStatus struct {
	Name      string   `json:"name"`
	Server    string   `json:"server"`
	Port      int      `json:"port"`
	Alive     bool     `json:"alive"`
	Channels  []string `json:"channels"`
	Connected []string `json:"connected"`
	LastError string   `json:"last_error"`
}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running     bool        `json:"running"`
	PID         int         `json:"pid"`
	RunID       string      `json:"run_id"`
	StartedAt   string      `json:"started_at"`
	StoreDBPath string      `json:"store_db_path"`
	LockPath    string      `json:"lock_path"`
	SocketPath  string      `json:"socket_path"`
	IRC         []IRCStatus `json:"irc"`
}

// IRCStatusRequest fetches snapshots for one connection, or all when
// Name is empty or "all".
type IRCStatusRequest struct {
	Name string `json:"name"`
}

// IRCStatusResponse contains connection snapshots.
type IRCStatusResponse struct {
	Connections []IRCStatus `json:"connections"`
}

// IRCRestartRequest restarts one connection, or all.
type IRCRestartRequest struct {
	Name string `json:"name"`
}

// IRCRestartResponse indicates restart completion.
type IRCRestartResponse struct {
	Restarted bool `json:"restarted"`
}

// IRCStopRequest stops one connection, or all.
type IRCStopRequest struct {
	Name string `json:"name"`
}

// IRCStopResponse indicates stop completion.
type IRCStopResponse struct {
	Stopped bool `json:"stopped"`
}

// StoreGetRequest reads one persisted value.
type StoreGetRequest struct {
	Scope     string `json:"scope"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

// StoreGetResponse carries the value when the key exists.
type StoreGetResponse struct {
	Found bool `json:"found"`
	Value any  `json:"value"`
}

// StoreSetRequest stages one persisted value.
type StoreSetRequest struct {
	Scope     string `json:"scope"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
}

// StoreSetResponse indicates the write was staged.
type StoreSetResponse struct {
	Staged bool `json:"staged"`
}

// StoreDeleteRequest stages one deletion.
type StoreDeleteRequest struct {
	Scope     string `json:"scope"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

// StoreDeleteResponse indicates the deletion was staged.
type StoreDeleteResponse struct {
	Staged bool `json:"staged"`
}

// StoreFlushRequest commits staged writes and deletions.
type StoreFlushRequest struct{}

// StoreFlushResponse indicates flush completion.
type StoreFlushResponse struct {
	Flushed bool `json:"flushed"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
