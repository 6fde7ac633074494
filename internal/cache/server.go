package cache

import (
	"encoding/json"
	"net"
	"time"
)

// ServeConn answers protocol requests on one connection until the peer
// disconnects. The daemon runs this in a goroutine per accepted connection.
func ServeConn(conn net.Conn, store *Store) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		_ = enc.Encode(handle(store, req))
	}
}

func handle(store *Store, req Request) Response {
	switch req.Op {
	case "get":
		v, err := store.Get(req.Key)
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true, Value: v}
	case "put":
		ttl := time.Duration(req.TTLSeconds) * time.Second
		if err := store.Put(req.Key, req.Value, ttl); err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true}
	case "delete":
		if err := store.Delete(req.Key); err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true}
	case "purge":
		n, err := store.PurgeExpired()
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true, Count: n}
	case "stats":
		st, err := store.Stats()
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true, Stats: &st}
	case "log":
		if err := store.LogLookup(req.Key, req.Success, req.Source); err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true}
	case "history":
		records, err := store.History(req.Limit)
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true, History: records, Count: len(records)}
	default:
		return Response{OK: false, Error: "unknown op"}
	}
}
