// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"go.uber.org/zap"

	"github.com/ava-labs/numbervm/api"
	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/event"
	"github.com/ava-labs/numbervm/pubsub"
)

const Endpoint = "/ws"

var (
	_ api.HandlerFactory[api.VM]      = (*WebSocketServerFactory)(nil)
	_ event.Subscription[chain.Event] = (*WebSocketServer)(nil)
)

func NewWebSocketServerFactory(server *WebSocketServer) *WebSocketServerFactory {
	return &WebSocketServerFactory{server: server}
}

type WebSocketServerFactory struct {
	server *WebSocketServer
}

func (w WebSocketServerFactory) New(api.VM) (api.Handler, error) {
	return api.Handler{
		Path:    Endpoint,
		Handler: w.server.s,
	}, nil
}

// WebSocketServer streams events to registered listeners and executes
// transactions submitted over the socket.
type WebSocketServer struct {
	vm api.VM
	s  *pubsub.Server

	l                sync.Mutex
	eventListeners   *pubsub.Connections
	accountListeners map[codec.Address]*pubsub.Connections
}

func NewWebSocketServer(vm api.VM, config pubsub.ServerConfig) *WebSocketServer {
	w := &WebSocketServer{
		vm:               vm,
		eventListeners:   pubsub.NewConnections(),
		accountListeners: map[codec.Address]*pubsub.Connections{},
	}
	w.s = pubsub.New(vm.Logger(), config, w.MessageCallback())
	return w
}

// Accept forwards [evt] to every listener interested in it.
func (w *WebSocketServer) Accept(ctx context.Context, evt chain.Event) error {
	_, span := w.vm.Tracer().Start(ctx, "WebSocketServer.Accept")
	defer span.End()

	w.l.Lock()
	defer w.l.Unlock()

	owner := evt.Owner()
	accountListeners, hasAccountListeners := w.accountListeners[owner]
	if w.eventListeners.Len() == 0 && !hasAccountListeners {
		return nil
	}
	bytes, err := chain.MarshalEvent(evt)
	if err != nil {
		return err
	}
	msg := append([]byte{EventMode}, bytes...)

	for _, conn := range w.s.Publish(msg, w.eventListeners) {
		w.eventListeners.Remove(conn)
	}
	if !hasAccountListeners {
		return nil
	}
	for _, conn := range w.s.Publish(msg, accountListeners) {
		accountListeners.Remove(conn)
	}
	if accountListeners.Len() == 0 {
		delete(w.accountListeners, owner)
	}
	return nil
}

func (w *WebSocketServer) Close() error {
	return w.s.Close()
}

func (w *WebSocketServer) addEventListener(c *pubsub.Connection, msg []byte) error {
	addr, filtered, err := unpackEventRegistration(msg)
	if err != nil {
		return err
	}

	w.l.Lock()
	defer w.l.Unlock()

	if !filtered {
		w.eventListeners.Add(c)
		return nil
	}
	connections, ok := w.accountListeners[addr]
	if !ok {
		connections = pubsub.NewConnections()
		w.accountListeners[addr] = connections
	}
	connections.Add(c)
	return nil
}

func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	log := w.vm.Logger()
	return func(msgBytes []byte, c *pubsub.Connection) {
		ctx, span := w.vm.Tracer().Start(context.Background(), "WebSocketServer.Callback")
		defer span.End()

		// Check empty messages
		if len(msgBytes) == 0 {
			log.Error("failed to unmarshal msg",
				zap.Int("len", len(msgBytes)),
			)
			return
		}

		switch msgBytes[0] {
		case EventMode:
			if err := w.addEventListener(c, msgBytes[1:]); err != nil {
				log.Error("failed to register event listener",
					zap.Error(err),
				)
				return
			}
			log.Debug("added event listener")
		case TxMode:
			msgBytes = msgBytes[1:]
			txID := ids.ID(hashing.ComputeHash256Array(msgBytes))
			_, err := w.vm.Submit(ctx, msgBytes)
			if err != nil {
				log.Debug("failed to submit tx",
					zap.Stringer("txID", txID),
					zap.Error(err),
				)
			}
			if !c.Send(append([]byte{TxMode}, packTxMessage(txID, err)...)) {
				log.Debug("failed to reply to tx",
					zap.Stringer("txID", txID),
				)
			}
		default:
			log.Error("unexpected message type",
				zap.Int("len", len(msgBytes)),
				zap.Uint8("mode", msgBytes[0]),
			)
		}
	}
}
