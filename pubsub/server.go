// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `yaml:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `yaml:"writeBufferSize"`
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int `yaml:"maxPendingMessages"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int `yaml:"maxReadMessageSize"`
	// Maximum size of a batch message sent to a peer.
	MaxWriteMessageSize int `yaml:"maxWriteMessageSize"`
	// Maximum time a message waits to be batched.
	MaxMessageWait time.Duration `yaml:"maxMessageWait"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `yaml:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `yaml:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `yaml:"pingPeriod"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadBufferSize:      ReadBufferSize,
		WriteBufferSize:     WriteBufferSize,
		MaxPendingMessages:  MaxPendingMessages,
		MaxReadMessageSize:  MaxReadMessageSize,
		MaxWriteMessageSize: MaxWriteMessageSize,
		MaxMessageWait:      MaxMessageWait,
		WriteWait:           WriteWait,
		PongWait:            PongWait,
		PingPeriod:          PingPeriod,
	}
}

// Server maintains the set of active clients and sends messages to the clients.
//
// Connect to the server after starting using websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader *websocket.Upgrader

	lock   sync.RWMutex
	closed bool
	// conns a set of all our connections
	conns *Connections
	// Callback function when server receives a message
	callback Callback
}

// New returns a new Server instance. The callback function [f] is called
// by the server in response to messages if not nil.
func New(log logging.Logger, config ServerConfig, f Callback) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:    NewConnections(),
		callback: f,
	}
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrader.upgrade() is called to upgrade the HTTP connection.
	// No nead to set any headers so we pass nil as the last argument.
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	s.addConnection(&Connection{
		s:    s,
		conn: wsConn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessageSize,
			s.config.MaxMessageWait,
		),
	})
}

// Publish sends msg from [s] to [toConns]. It returns the connections that
// are no longer active.
func (s *Server) Publish(msg []byte, toConns *Connections) []*Connection {
	inactive := []*Connection{}
	for _, conn := range toConns.Conns() {
		// check server has connection O(1)
		if !s.conns.Has(conn) {
			inactive = append(inactive, conn)
			continue
		}
		if !conn.Send(msg) {
			s.log.Verbo(
				"dropping message to subscribed connection due to too many pending messages",
			)
		}
	}
	return inactive
}

// Broadcast sends [msg] to every connection.
func (s *Server) Broadcast(msg []byte) {
	_ = s.Publish(msg, s.conns)
}

// Connections returns the set of active connections.
func (s *Server) Connections() *Connections {
	return s.conns
}

// addConnection adds [conn] to the servers connection set and starts go
// routines for reading and writing messages for the connection.
func (s *Server) addConnection(conn *Connection) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		_ = conn.mb.Close()
		_ = conn.conn.Close()
		return
	}
	conn.active.Store(true)
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// removeConnection removes [conn] from the servers connection set.
func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}

// Close deactivates every connection. Their write pumps flush what is
// pending and send a close frame.
func (s *Server) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	for _, conn := range s.conns.Conns() {
		conn.deactivate()
	}
	return nil
}
