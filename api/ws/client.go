// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/gorilla/websocket"

	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/pubsub"
)

const pendingMessages = 1024

type WebSocketClient struct {
	conn *websocket.Conn

	wl sync.Mutex
	cl sync.Once

	pendingEvents chan []byte
	pendingTxs    chan []byte

	closing chan struct{}
	done    chan struct{}
	err     error
}

// NewWebSocketClient dials the server at [uri] and starts reading its
// messages in the background.
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	if err := resp.Body.Close(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c := &WebSocketClient{
		conn:          conn,
		pendingEvents: make(chan []byte, pendingMessages),
		pendingTxs:    make(chan []byte, pendingMessages),
		closing:       make(chan struct{}),
		done:          make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *WebSocketClient) readLoop() {
	defer close(c.done)

	for {
		_, msgBatch, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closing:
			default:
				c.err = err
			}
			return
		}
		msgs, err := pubsub.ParseBatchMessage(pubsub.MaxWriteMessageSize, msgBatch)
		if err != nil {
			c.err = err
			return
		}
		for _, msg := range msgs {
			if len(msg) == 0 {
				c.err = ErrUnexpectedMode
				return
			}
			var pending chan []byte
			switch msg[0] {
			case EventMode:
				pending = c.pendingEvents
			case TxMode:
				pending = c.pendingTxs
			default:
				c.err = ErrUnexpectedMode
				return
			}
			select {
			case pending <- msg[1:]:
			case <-c.closing:
				return
			}
		}
	}
}

func (c *WebSocketClient) write(msg []byte) error {
	batch, err := pubsub.CreateBatchMessage(pubsub.MaxReadMessageSize, [][]byte{msg})
	if err != nil {
		return err
	}

	c.wl.Lock()
	defer c.wl.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, batch)
}

// RegisterEvents subscribes to every event the server emits.
func (c *WebSocketClient) RegisterEvents() error {
	return c.write(packEventRegistration(nil))
}

// RegisterAccountEvents subscribes to events owned by [addr].
func (c *WebSocketClient) RegisterAccountEvents(addr codec.Address) error {
	return c.write(packEventRegistration(&addr))
}

// RegisterTx submits [tx]. Its outcome is returned by [ListenTx].
func (c *WebSocketClient) RegisterTx(tx *chain.Transaction) error {
	return c.write(append([]byte{TxMode}, tx.Bytes()...))
}

// ListenEvent blocks until the next event arrives.
func (c *WebSocketClient) ListenEvent(parser *chain.Parser) (chain.Event, error) {
	select {
	case msg := <-c.pendingEvents:
		return parser.ParseEvent(msg)
	case <-c.done:
		// Events read before the connection closed are still delivered.
		select {
		case msg := <-c.pendingEvents:
			return parser.ParseEvent(msg)
		default:
			return nil, c.closeErr()
		}
	}
}

// ListenTx blocks until the server reports the outcome of a submitted
// transaction. The second return value is the execution error, if any.
func (c *WebSocketClient) ListenTx() (ids.ID, error, error) {
	select {
	case msg := <-c.pendingTxs:
		return unpackTxMessage(msg)
	case <-c.done:
		select {
		case msg := <-c.pendingTxs:
			return unpackTxMessage(msg)
		default:
			return ids.Empty, nil, c.closeErr()
		}
	}
}

func (c *WebSocketClient) closeErr() error {
	if c.err != nil {
		return c.err
	}
	return ErrClosed
}

// Close closes [c]'s connection to the server.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		close(c.closing)
		err = c.conn.Close()
		<-c.done
	})
	return err
}
