package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/AVEHD/fox-bunny/sim"
)

var (
	depth    = flag.Int("depth", sim.DefaultDepth, "Rows of the field.")
	width    = flag.Int("width", sim.DefaultWidth, "Columns of the field.")
	seed     = flag.Int64("seed", 0, "Random seed, 0 picks one from the clock.")
	interval = flag.Duration("interval", sim.DefaultTickInterval, "Time between ticks.")
	steps    = flag.Int("steps", 0, "Run this many steps headless, print stats and exit.")
	debug    = flag.Bool("debug", false, "Log every tick.")
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

type hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*Client]struct{})}
}

func (h *hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// broadcast sends state to every client, dropping the ones that fail.
func (h *hub) broadcast(state interface{}) {
	h.mu.Lock()
	list := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.Send(state); err != nil {
			log.Printf("client send error: %v", err)
			h.remove(c)
			c.conn.Close()
		}
	}
}

// newMux serves the state stream and command channel on /ws.
func newMux(s *sim.Sim, h *hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{conn: conn}
		h.add(client)

		_ = client.Send(map[string]interface{}{"type": "config", "w": s.W, "h": s.H, "run_id": s.RunID().String()})

		for {
			var msg command
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}
			if err := handle(s, msg); err != nil {
				_ = client.Send(map[string]string{"error": err.Error()})
				continue
			}
			_ = client.Send(map[string]string{"ok": "received"})
		}

		h.remove(client)
		conn.Close()
	})
	return mux
}

type command struct {
	Type    string `json:"type"`
	Species string `json:"species"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

func main() {
	flag.Parse()
	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg := sim.DefaultConfig()
	cfg.Depth = *depth
	cfg.Width = *width
	cfg.Seed = *seed
	cfg.TickInterval = *interval

	s, err := sim.NewSim(cfg)
	if err != nil {
		log.Fatalf("sim: %v", err)
	}

	if *steps > 0 {
		n := s.Simulate(*steps)
		log.Printf("ran %d of %d steps", n, *steps)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.Stats()); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go s.Run(ctx)

	h := newHub()
	go func() {
		for state := range s.StateChan {
			h.broadcast(state)
		}
	}()

	basePort := 8080
	if p := os.Getenv("PORT"); p != "" {
		fmt.Sscanf(p, "%d", &basePort)
	}

	for i := 0; i < 10; i++ {
		port := basePort + i
		addr := fmt.Sprintf(":%d", port)
		log.Printf("Trying to start server on %s", addr)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			log.Printf("failed to listen on %s: %v", addr, err)
			continue
		}
		log.Printf("Server started at http://localhost:%d", port)
		srv := &http.Server{Handler: newMux(s, h)}
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve error: %v", err)
		}
		return
	}
	log.Fatal("unable to start server on any port")
}

func handle(s *sim.Sim, msg command) error {
	switch msg.Type {
	case "add_animal":
		_, err := s.AddAnimalAt(msg.Species, msg.Row, msg.Col)
		return err
	case "reset":
		s.Reset()
	case "pause":
		s.Pause()
	case "resume":
		s.Resume()
	case "step":
		s.Tick()
	default:
		return errors.Errorf("unknown command %q", msg.Type)
	}
	return nil
}
