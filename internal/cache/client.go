package cache

import (
	"encoding/json"
	"errors"
	"net"
	"time"
)

// Client implements KV, Maintainer and HistoryLogger over a Unix socket.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) roundTrip(req Request) (Response, error) {
	var resp Response
	conn, err := net.DialTimeout("unix", c.socketPath, 500*time.Millisecond)
	if err != nil {
		return resp, err
	}
	defer conn.Close()
	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return resp, err
	}
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return resp, err
	}
	if !resp.OK {
		switch resp.Error {
		case ErrNotFound.Error():
			return resp, ErrNotFound
		case ErrExpired.Error():
			return resp, ErrExpired
		}
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}

func (c *Client) Get(key string) ([]byte, error) {
	resp, err := c.roundTrip(Request{Op: "get", Key: key})
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), resp.Value...), nil
}

func (c *Client) Put(key string, value []byte, ttl time.Duration) error {
	_, err := c.roundTrip(Request{Op: "put", Key: key, Value: value, TTLSeconds: int64(ttl / time.Second)})
	return err
}

func (c *Client) Delete(key string) error {
	_, err := c.roundTrip(Request{Op: "delete", Key: key})
	return err
}

func (c *Client) PurgeExpired() (int, error) {
	resp, err := c.roundTrip(Request{Op: "purge"})
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Stats() (Stats, error) {
	resp, err := c.roundTrip(Request{Op: "stats"})
	if err != nil || resp.Stats == nil {
		return Stats{}, err
	}
	return *resp.Stats, nil
}

func (c *Client) LogLookup(barcode string, success bool, source string) error {
	_, err := c.roundTrip(Request{Op: "log", Key: barcode, Success: success, Source: source})
	return err
}

func (c *Client) History(limit int) ([]LookupRecord, error) {
	resp, err := c.roundTrip(Request{Op: "history", Limit: limit})
	if err != nil {
		return nil, err
	}
	return resp.History, nil
}
