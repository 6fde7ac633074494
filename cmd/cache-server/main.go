package main

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dkwarude-cell/foodscan/internal/cache"
)

// Product payloads stay fresh for a week unless FOODSCAN_CACHE_TTL
// overrides the value (in seconds).
const defaultTTL = 7 * 24 * time.Hour

func main() {
	sock := defaultString(os.Getenv("FOODSCAN_CACHE_SOCK"), defaultSocketPath())
	db := defaultString(os.Getenv("FOODSCAN_CACHE_DB"), defaultDBPath())

	ttl := defaultTTL
	if s := os.Getenv("FOODSCAN_CACHE_TTL"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	// Ensure socket dir exists and remove stale socket
	_ = os.MkdirAll(filepath.Dir(sock), 0o755)
	_ = os.Remove(sock)

	l, err := net.Listen("unix", sock)
	if err != nil {
		panic(err)
	}
	defer l.Close()
	_ = os.Chmod(sock, 0o600)

	store, err := cache.Open(db, cache.Options{Bucket: "products", DefaultTTL: ttl})
	if err != nil {
		panic(err)
	}
	defer store.Close()

	for {
		conn, err := l.Accept()
		if err != nil {
			continue
		}
		go cache.ServeConn(conn, store)
	}
}

func defaultSocketPath() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "foodscan", "cache.sock")
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "foodscan", "cache.bbolt")
}

func defaultString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
