package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirechat-inbox/internal/proto"
)

type outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	base := flag.String("base", "http://localhost:8080", "inbox server base URL")
	room := flag.Int64("room", 0, "room id to send to (0 = active room)")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	var first outbound
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	var state proto.State
	if err := json.Unmarshal(first.Data, &state); err != nil {
		return fmt.Errorf("unmarshal state: %w", err)
	}
	fmt.Printf("State: %s user=%s (%s)\n", state.State, state.User.Name, state.User.ID)
	if state.Error != nil {
		return fmt.Errorf("session failed: %s", state.Error.Msg)
	}

	if *room == 0 {
		id, err := activeRoom(ctx, *base)
		if err != nil {
			return err
		}
		*room = id
	}
	if err := send(ctx, *base, *room, *text); err != nil {
		return err
	}

	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("Received outbound: type=%s event=%s\n", out.Type, out.Event)

		if out.Event != proto.EventMessageAppended {
			continue
		}
		var evt proto.Appended
		if err := json.Unmarshal(out.Data, &evt); err != nil {
			fmt.Printf("Raw data: %s\n", string(out.Data))
			return fmt.Errorf("unmarshal message: %w", err)
		}
		fmt.Printf("Appended: room=%d sender=%s text=%q id=%d\n", evt.Room.ID, evt.Message.SenderName, evt.Message.Message, evt.Message.ID)
		return nil
	}
}

func activeRoom(ctx context.Context, base string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/rooms/active", nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("active room: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("active room: status %d", resp.StatusCode)
	}

	var conv proto.Conversation
	if err := json.NewDecoder(resp.Body).Decode(&conv); err != nil {
		return 0, fmt.Errorf("decode active room: %w", err)
	}
	return conv.Room.ID, nil
}

func send(ctx context.Context, base string, room int64, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/rooms/%d/messages", base, room)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("send: status %d", resp.StatusCode)
	}
	return nil
}
