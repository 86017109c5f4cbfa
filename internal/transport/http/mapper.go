package http

import (
	"encoding/json"

	"github.com/vovakirdan/wirechat-roster/internal/chat"
	"github.com/vovakirdan/wirechat-roster/internal/core"
	"github.com/vovakirdan/wirechat-roster/internal/proto"
	"github.com/vovakirdan/wirechat-roster/internal/roster"
)

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinLobby, proto.InboundTypeJoinRoom:
		var p proto.PlayerData
		if err := json.Unmarshal(inbound.Data, &p); err != nil {
			return nil, nil, err
		}
		if p.Nick == "" {
			return nil, badRequest("nick is required"), nil
		}
		kind := core.CommandJoinLobby
		if inbound.Type == proto.InboundTypeJoinRoom {
			kind = core.CommandJoinRoom
		}
		return &core.Command{Kind: kind, Nickname: p.Nick, Notify: p.Notify}, nil, nil
	case proto.InboundTypeLeaveLobby, proto.InboundTypeLeaveRoom:
		var leave proto.LeaveData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		if leave.Nick == "" {
			return nil, badRequest("nick is required"), nil
		}
		if inbound.Type == proto.InboundTypeLeaveRoom {
			return &core.Command{Kind: core.CommandLeaveRoom, Nickname: leave.Nick}, nil, nil
		}
		return &core.Command{Kind: core.CommandLeaveLobby, Nickname: leave.Nick, Reason: leave.Reason}, nil, nil
	case proto.InboundTypeResetRoom:
		return &core.Command{Kind: core.CommandResetRoom}, nil, nil
	case proto.InboundTypeFlag:
		var f proto.FlagData
		if err := json.Unmarshal(inbound.Data, &f); err != nil {
			return nil, nil, err
		}
		if f.Nick == "" {
			return nil, badRequest("nick is required"), nil
		}
		flag, err := roster.ParseFlag(f.Flag)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeUnknownFlag, Msg: err.Error()}, nil
		}
		return &core.Command{Kind: core.CommandSetFlag, Nickname: f.Nick, Flag: flag, Value: f.Value}, nil, nil
	case proto.InboundTypePlayerInfo:
		var info proto.PlayerInfoData
		if err := json.Unmarshal(inbound.Data, &info); err != nil {
			return nil, nil, err
		}
		if info.Nick == "" {
			return nil, badRequest("nick is required"), nil
		}
		return &core.Command{
			Kind:     core.CommandPlayerInfo,
			Nickname: info.Nick,
			Identity: info.Identity,
			Version:  info.Version,
			RoomInfo: info.RoomInfo,
			Scope:    scopeOf(info.Room),
		}, nil, nil
	case proto.InboundTypeLocalIdentity:
		var p proto.PlayerData
		if err := json.Unmarshal(inbound.Data, &p); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandLocalIdentity, Nickname: p.Nick}, nil, nil
	case proto.InboundTypeAdminAccess:
		var a proto.AdminData
		if err := json.Unmarshal(inbound.Data, &a); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandAdminAccess, Value: a.Admin}, nil, nil
	case proto.InboundTypeChat, proto.InboundTypeChatAction:
		var msg proto.ChatData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Nick == "" {
			return nil, badRequest("nick is required"), nil
		}
		kind := core.CommandChat
		if inbound.Type == proto.InboundTypeChatAction {
			kind = core.CommandChatAction
		}
		return &core.Command{Kind: kind, Nickname: msg.Nick, Text: msg.Text, Scope: scopeOf(msg.Room)}, nil, nil
	case proto.InboundTypeServerMessage:
		var msg proto.ServerMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandServerMessage, Text: msg.HTML}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeUnknownType, Msg: "unknown message type"}, nil
	}
}

func scopeOf(room bool) roster.Scope {
	if room {
		return roster.ScopeRoom
	}
	return roster.ScopeLobby
}

func playerFromView(v roster.View) proto.Player {
	p := proto.Player{
		Nick:          v.Nickname,
		Flags:         v.Flags.Names(),
		SortKey:       v.SortKey,
		IconKey:       uint16(v.IconKey),
		Color:         string(v.Color),
		Italic:        v.Italic,
		IdentityKnown: v.IdentityKnown,
	}
	if p.Flags == nil {
		p.Flags = []string{}
	}
	if v.Badge != nil {
		p.Badge = v.Badge.Layers
	}
	return p
}

func lineFromChat(l chat.Line, scope roster.Scope) proto.EventChatLine {
	return proto.EventChatLine{
		Scope:     scope.String(),
		Class:     l.Class,
		HTML:      l.HTML,
		Nick:      l.Nickname,
		Highlight: l.Highlight,
		TS:        l.Time.Unix(),
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoster:
		ev := event.Roster
		data := proto.EventRoster{
			Nick:   ev.Nickname,
			Scope:  ev.Scope().String(),
			Notify: ev.Notify,
			Reason: ev.Reason,
		}
		if ev.View != nil {
			p := playerFromView(*ev.View)
			data.Player = &p
		}
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: ev.Kind.String(), Data: data}
	case core.EventChatLine:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "chat_line", Data: lineFromChat(*event.Line, event.Scope)}
	case core.EventAlert:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "alert",
			Data: proto.EventAlert{
				Scope: event.Scope.String(),
				Nick:  event.Alert.Nickname,
				Sound: event.Alert.Sound,
				Flash: event.Alert.Flash,
			},
		}
	case core.EventNickCount:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "nick_count",
			Data:  proto.EventNickCount{Scope: event.Scope.String(), Count: event.Count},
		}
	case core.EventModeration:
		return proto.Outbound{
			Type:  proto.OutboundTypeCommand,
			Event: event.Moderation.Kind.String(),
			Data:  proto.CommandData{Nick: event.Moderation.Nickname, Scope: event.Scope.String()},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
