// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Callback handles a single message read from [*Connection].
type Callback func([]byte, *Connection)

// Connection is one websocket client. Outbound messages are batched by its
// [MessageBuffer] and written by a dedicated goroutine; inbound batches are
// split and handed to the server callback by another.
type Connection struct {
	s    *Server
	conn *websocket.Conn
	mb   *MessageBuffer

	// active is cleared once, when either pump exits or the server closes.
	active atomic.Bool
}

// deactivate stops accepting messages. Closing the buffer makes the write
// pump send a close frame and exit.
func (c *Connection) deactivate() {
	if c.active.CompareAndSwap(true, false) {
		_ = c.mb.Close()
	}
}

// teardown runs when a pump exits. Both pumps call it, so closing the
// underlying conn twice is expected.
func (c *Connection) teardown() {
	c.s.removeConnection(c)
	c.deactivate()
	_ = c.conn.Close()
}

// Send queues [msg] and reports whether it was accepted.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	if err := c.mb.Send(msg); err != nil {
		c.s.log.Debug("dropping outbound message", zap.Error(err))
		return false
	}
	return true
}

func (c *Connection) readPump() {
	defer c.teardown()

	cfg := c.s.config
	c.conn.SetReadLimit(int64(cfg.MaxReadMessageSize))
	if err := c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
		if c.s.callback == nil {
			continue
		}
		b, err := io.ReadAll(r)
		if err != nil {
			c.s.log.Debug("failed to read websocket frame", zap.Error(err))
			return
		}
		msgs, err := ParseBatchMessage(cfg.MaxReadMessageSize, b)
		if err != nil {
			c.s.log.Debug("dropping malformed batch", zap.Error(err))
			return
		}
		for _, msg := range msgs {
			c.s.callback(msg, c)
		}
	}
}

// write sends a single frame under the configured write deadline.
func (c *Connection) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()

	for {
		select {
		case batch, ok := <-c.mb.Queue:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.BinaryMessage, batch); err != nil {
				c.s.log.Debug("closing websocket",
					zap.String("reason", "write failed"),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
