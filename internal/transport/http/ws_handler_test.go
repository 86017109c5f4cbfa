package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirechat-roster/internal/core"
	"github.com/vovakirdan/wirechat-roster/internal/proto"
)

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func dial(t *testing.T, ctx context.Context, env *testEnv) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(env.server.URL, "http", "ws", 1) + "/ws?name=net"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil returns the first outbound of the given type and event name.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, typ, event string) rawOutbound {
	t.Helper()

	for {
		var out rawOutbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for %s/%s: %v", typ, event, err)
		}
		if out.Type == typ && out.Event == event {
			return out
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := startTestServer(t)

	resp, err := env.server.Client().Get(env.server.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinProducesRosterAndChat(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, env)

	send(t, ctx, conn, proto.InboundTypeLocalIdentity, proto.PlayerData{Nick: "me"})
	send(t, ctx, conn, proto.InboundTypeJoinLobby, proto.PlayerData{Nick: "alice"})

	out := readUntil(t, ctx, conn, proto.OutboundTypeEvent, "player_added")
	var ev proto.EventRoster
	if err := json.Unmarshal(out.Data, &ev); err != nil {
		t.Fatalf("unmarshal roster event: %v", err)
	}
	if ev.Nick != "alice" || ev.Scope != "lobby" || ev.Player == nil {
		t.Fatalf("unexpected roster event: %+v", ev)
	}
	if ev.Player.Color != "#ffcc00" || ev.Player.SortKey != "11100alice" {
		t.Fatalf("unexpected player: %+v", ev.Player)
	}

	out = readUntil(t, ctx, conn, proto.OutboundTypeEvent, "chat_line")
	var line proto.EventChatLine
	if err := json.Unmarshal(out.Data, &line); err != nil {
		t.Fatalf("unmarshal chat line: %v", err)
	}
	if line.Scope != "lobby" || line.Class != "msg_UserJoin" || !strings.Contains(line.HTML, "has joined") {
		t.Fatalf("unexpected chat line: %+v", line)
	}
}

func TestWebSocketAutoKickCommand(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, env)

	env.submit(t,
		&core.Command{Kind: core.CommandLocalIdentity, Nickname: "me"},
		&core.Command{Kind: core.CommandAdminAccess, Value: true},
	)
	if rec := doRequest(t, env, http.MethodPut, "/api/settings", `{"auto_kick":true}`); rec.Code != http.StatusNoContent {
		t.Fatalf("settings: %d", rec.Code)
	}
	if rec := doRequest(t, env, http.MethodPost, "/api/players/mallory/ignore", ""); rec.Code != http.StatusOK {
		t.Fatalf("ignore: %d", rec.Code)
	}

	send(t, ctx, conn, proto.InboundTypeJoinRoom, proto.PlayerData{Nick: "mallory", Notify: true})

	out := readUntil(t, ctx, conn, proto.OutboundTypeCommand, "kick")
	var cmd proto.CommandData
	if err := json.Unmarshal(out.Data, &cmd); err != nil {
		t.Fatalf("unmarshal command: %v", err)
	}
	if cmd.Nick != "mallory" || cmd.Scope != "room" {
		t.Fatalf("unexpected kick target: %+v", cmd)
	}
}

func TestWebSocketErrors(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, env)

	send(t, ctx, conn, "bogus", struct{}{})
	out := readUntil(t, ctx, conn, proto.OutboundTypeError, "")
	if out.Error == nil || out.Error.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got %+v", out.Error)
	}

	send(t, ctx, conn, proto.InboundTypeFlag, proto.FlagData{Nick: "alice", Flag: "friend", Value: true})
	out = readUntil(t, ctx, conn, proto.OutboundTypeError, "")
	if out.Error == nil || out.Error.Code != "flag_not_server_owned" {
		t.Fatalf("expected flag_not_server_owned, got %+v", out.Error)
	}

	send(t, ctx, conn, proto.InboundTypeFlag, proto.FlagData{Nick: "alice", Flag: "wizard"})
	out = readUntil(t, ctx, conn, proto.OutboundTypeError, "")
	if out.Error == nil || out.Error.Code != "unknown_flag" {
		t.Fatalf("expected unknown_flag, got %+v", out.Error)
	}

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeChat, Data: json.RawMessage(`"oops"`)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out = readUntil(t, ctx, conn, proto.OutboundTypeError, "")
	if out.Error == nil || out.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request, got %+v", out.Error)
	}
}
