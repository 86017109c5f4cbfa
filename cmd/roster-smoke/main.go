// Command roster-smoke plays the network collaborator against a running
// roster server: it announces a local identity, lets a player join and chat,
// and prints the events coming back.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-roster/internal/proto"
)

type options struct {
	addr    string
	me      string
	player  string
	text    string
	timeout time.Duration
}

func main() {
	var o options

	cmd := &cobra.Command{
		Use:           "roster-smoke",
		Short:         "Smoke-test the roster bridge socket.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), o)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.addr, "addr", "ws://127.0.0.1:46631/ws", "bridge WebSocket address")
	fs.StringVar(&o.me, "me", "tester", "local nickname to announce")
	fs.StringVar(&o.player, "player", "visitor", "player that joins and chats")
	fs.StringVar(&o.text, "text", "hello tester", "chat text to send")
	fs.DurationVar(&o.timeout, "timeout", 5*time.Second, "total timeout for the run")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, o.addr+"?name=smoke", nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	steps := []struct {
		typ  string
		data any
	}{
		{proto.InboundTypeLocalIdentity, proto.PlayerData{Nick: o.me}},
		{proto.InboundTypeJoinLobby, proto.PlayerData{Nick: o.player, Notify: true}},
		{proto.InboundTypeChat, proto.ChatData{Nick: o.player, Text: o.text}},
		{proto.InboundTypeLeaveLobby, proto.LeaveData{Nick: o.player, Reason: "smoke test done"}},
	}
	for _, s := range steps {
		if err := send(s.typ, s.data); err != nil {
			return err
		}
	}

	for seen := 0; ; seen++ {
		var out struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			if seen > 0 && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("%s", out.Type)
		if out.Event != "" {
			fmt.Printf(" %s", out.Event)
		}
		if out.Error != nil {
			fmt.Printf(" %s: %s", out.Error.Code, out.Error.Msg)
		}
		if len(out.Data) > 0 {
			fmt.Printf(" %s", out.Data)
		}
		fmt.Println()

		// The leave is the last step; its roster event ends the run.
		if out.Event == "player_removed" {
			return nil
		}
	}
}
