package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"voxelsandbox/internal/protocol"
	"voxelsandbox/internal/sim/encoding"
)

func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name  = flag.String("name", "bot", "player name")
		step  = flag.Float64("step", 4, "blocks walked per observe")
		every = flag.Duration("every", 500*time.Millisecond, "delay between observes")
		steps = flag.Int("steps", 0, "stop after this many observes (0 = run until interrupted)")
		save  = flag.String("save", "", "save under this name before exiting (optional)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		logger.Fatalf("read WELCOME: %v", err)
	}
	logger.Printf("WELCOME world=%s seed=%d spawn=%v render=%d", welcome.WorldID, welcome.WorldParams.Seed, welcome.Spawn, welcome.WorldParams.RenderDistance)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	b := &bot{conn: conn, logger: logger, params: welcome.WorldParams}
	pos := welcome.Spawn
loop:
	for i := 0; *steps == 0 || i < *steps; i++ {
		select {
		case <-stop:
			break loop
		case <-time.After(*every):
		}
		if err := b.observe(pos); err != nil {
			logger.Printf("observe: %v", err)
			return
		}
		pos[0] += *step
	}

	if *save != "" {
		if err := b.conn.WriteJSON(protocol.SaveMsg{Type: protocol.TypeSave, ProtocolVersion: protocol.Version, Name: *save}); err != nil {
			logger.Fatalf("send SAVE: %v", err)
		}
		var res protocol.ResultMsg
		if err := b.conn.ReadJSON(&res); err != nil {
			logger.Fatalf("read RESULT: %v", err)
		}
		logger.Printf("SAVE ok=%v code=%s %s", res.OK, res.Code, res.Message)
	}
}

type bot struct {
	conn   *websocket.Conn
	logger *log.Logger
	params protocol.WorldParams
}

// observe moves the observer and fetches every newly loaded chunk.
func (b *bot) observe(pos [3]float64) error {
	req := protocol.ObserveMsg{Type: protocol.TypeObserve, ProtocolVersion: protocol.Version, Pos: pos}
	if err := b.conn.WriteJSON(req); err != nil {
		return err
	}
	raw, err := b.read()
	if err != nil {
		return err
	}
	var chunks protocol.ChunksMsg
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return err
	}
	b.logger.Printf("CHUNKS tick=%d center=%v loaded=%d evicted=%d resident=%d",
		chunks.Tick, chunks.Center, len(chunks.Loaded), len(chunks.Evicted), chunks.Resident)

	for _, k := range chunks.Loaded {
		if err := b.conn.WriteJSON(protocol.ChunkReqMsg{Type: protocol.TypeChunkReq, ProtocolVersion: protocol.Version, Key: k}); err != nil {
			return err
		}
		raw, err := b.read()
		if err != nil {
			return err
		}
		var data protocol.ChunkDataMsg
		if err := json.Unmarshal(raw, &data); err != nil || data.Type != protocol.TypeChunkData {
			b.logger.Printf("chunk %v: unexpected reply %s", k, raw)
			continue
		}
		blocks, err := encoding.DecodeBlocks(data.BlocksRLE, data.Size*data.Height*data.Size)
		if err != nil {
			b.logger.Printf("chunk %v: %v", k, err)
			continue
		}
		air := 0
		for _, id := range blocks {
			if id == 0 {
				air++
			}
		}
		b.logger.Printf("CHUNK_DATA %v digest=%s air=%.1f%%", data.Key, data.Digest[:12], 100*float64(air)/float64(len(blocks)))
	}
	return nil
}

func (b *bot) read() ([]byte, error) {
	_ = b.conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := b.conn.ReadMessage()
	return msg, err
}
