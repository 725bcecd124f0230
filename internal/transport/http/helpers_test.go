package http

import (
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/config"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
	"github.com/vovakirdan/wirechat-inbox/internal/store"
)

const testUser = "customer@mail.com"

type staticSource struct {
	snap *store.Snapshot
}

func (s staticSource) Snapshot(context.Context) (*store.Snapshot, error) {
	return s.snap, nil
}

func testSnapshot() *store.Snapshot {
	ts := time.Date(2024, time.March, 14, 10, 0, 0, 0, time.Local).Format(time.RFC3339)
	return &store.Snapshot{Results: []store.ChatData{
		{
			Room: store.Room{
				ID:   1,
				Name: "General",
				Type: "group",
				Participants: []store.Participant{
					{ID: "admin@mail.com", Name: "Admin", Role: 0},
					{ID: testUser, Name: "Tom", Role: 2},
				},
			},
			Comments: []store.Comment{
				{ID: 10, Type: "text", Message: "welcome", Sender: "admin@mail.com", Timestamp: ts},
			},
		},
		{
			Room: store.Room{
				ID:           2,
				Name:         "Support",
				Type:         "single",
				Participants: []store.Participant{{ID: "agent@mail.com", Name: "Agent", Role: 1}},
			},
		},
	}}
}

type testEnv struct {
	server   *httptest.Server
	hub      *core.Hub
	registry *attachment.Registry
	stop     context.CancelFunc
}

func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.MaxAttachmentBytes = "1KiB"

	registry := attachment.NewRegistry(cfg.MediaPrefix)
	session := core.NewSession(core.Identity{ID: cfg.UserID, Name: cfg.UserName}, &logger)
	hub := core.NewHub(session, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	loadCtx, loadCancel := context.WithTimeout(ctx, 2*time.Second)
	defer loadCancel()
	if err := hub.Load(loadCtx, staticSource{snap: testSnapshot()}); err != nil {
		t.Fatalf("load: %v", err)
	}

	server := NewServer(hub, registry, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, hub: hub, registry: registry, stop: cancel}
}

func (e *testEnv) do(t *testing.T, method, path, contentType string, body io.Reader) *stdhttp.Response {
	t.Helper()

	req, err := stdhttp.NewRequest(method, e.server.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path string) *stdhttp.Response {
	t.Helper()
	return e.do(t, stdhttp.MethodGet, path, "", nil)
}

func (e *testEnv) postJSON(t *testing.T, path, body string) *stdhttp.Response {
	t.Helper()
	return e.do(t, stdhttp.MethodPost, path, "application/json", strings.NewReader(body))
}

func decodeBody(t *testing.T, resp *stdhttp.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
