package cache

// Simple JSON protocol for the cache daemon over a Unix domain socket.
// One request -> one response using json.Encoder/Decoder per connection.

type Request struct {
	Op         string `json:"op"` // "get" | "put" | "delete" | "purge" | "stats" | "log" | "history"
	Key        string `json:"key,omitempty"`
	Value      []byte `json:"value,omitempty"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`

	// Lookup history fields.
	Success bool   `json:"success,omitempty"`
	Source  string `json:"source,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type Response struct {
	OK      bool           `json:"ok"`
	Value   []byte         `json:"value,omitempty"`
	Count   int            `json:"count,omitempty"`
	Stats   *Stats         `json:"stats,omitempty"`
	History []LookupRecord `json:"history,omitempty"`
	Error   string         `json:"error,omitempty"`
}
