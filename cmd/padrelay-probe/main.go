// padrelay-probe checks connectivity against a running relay: it dials the
// websocket endpoint, optionally authenticates with a pairing code, and
// measures latency-probe round trips.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"padrelay/internal/protocol"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8765", "relay address (host:port)")
	code := flag.String("code", "", "pairing code to authenticate with")
	count := flag.Int("count", 3, "latency probes to send")
	flag.Parse()

	if err := run(*addr, *code, *count); err != nil {
		fmt.Fprintf(os.Stderr, "padrelay-probe: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, code string, count int) error {
	target := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(target.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", target.String(), err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	if err := conn.WriteJSON(protocol.Register{Type: protocol.TypeRegister, ClientType: protocol.ClientRemote}); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	var reg protocol.Ack
	if err := conn.ReadJSON(&reg); err != nil {
		return fmt.Errorf("register ack: %w", err)
	}
	if reg.Type != protocol.TypeRegistered || !reg.Success {
		return fmt.Errorf("unexpected register reply type=%q", reg.Type)
	}
	fmt.Printf("connected to %s\n", addr)

	if code != "" {
		if err := conn.WriteJSON(protocol.Auth{Type: protocol.TypeAuth, Code: code}); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
		var result protocol.AuthResult
		if err := conn.ReadJSON(&result); err != nil {
			return fmt.Errorf("auth result: %w", err)
		}
		if !result.Success {
			return fmt.Errorf("authentication rejected: %s", result.Error)
		}
		fmt.Println("authenticated")
	}

	for i := 0; i < count; i++ {
		ts, _ := json.Marshal(time.Now().UnixMilli())
		start := time.Now()
		if err := conn.WriteJSON(protocol.Ping{Type: protocol.TypePing, Timestamp: ts}); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		var pong protocol.Pong
		if err := conn.ReadJSON(&pong); err != nil {
			return fmt.Errorf("pong: %w", err)
		}
		if pong.Type != protocol.TypePong {
			return fmt.Errorf("unexpected reply type=%q", pong.Type)
		}
		fmt.Printf("probe %d: rtt=%s\n", i+1, time.Since(start).Round(time.Microsecond))
	}
	return nil
}
