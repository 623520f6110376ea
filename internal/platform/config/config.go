package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr string
	// Seed controls whether the default roster is installed at startup.
	Seed bool
	// WSSendBuffer is the per-connection outbound queue size; a connection
	// that falls this far behind is dropped rather than slowing the rest.
	WSSendBuffer int
	// WSWriteTimeout bounds a single websocket write.
	WSWriteTimeout time.Duration
	// WSPingInterval is how often idle connections are pinged.
	WSPingInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ROLLCALL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	seed := true
	if v := os.Getenv("ROLLCALL_SEED"); v != "" {
		seed = v == "true"
	}

	sendBuffer := 64
	if v, err := strconv.Atoi(os.Getenv("ROLLCALL_WS_SEND_BUFFER")); err == nil && v > 0 {
		sendBuffer = v
	}

	return Server{
		Addr:           addr,
		Seed:           seed,
		WSSendBuffer:   sendBuffer,
		WSWriteTimeout: 5 * time.Second,
		WSPingInterval: 25 * time.Second,
	}
}
