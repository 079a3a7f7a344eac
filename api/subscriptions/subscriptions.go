// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams committed operation receipts over websocket.
package subscriptions

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/api/restutil"
	"github.com/freyrlabs/freyr/cache"
	"github.com/freyrlabs/freyr/log"
	"github.com/freyrlabs/freyr/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	msgCacheSize = 256
)

// Subscriptions serves live receipt streams.
type Subscriptions struct {
	rt             *runtime.Runtime
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	msgCache       *cache.LRU
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	msgCache, err := cache.NewLRU(msgCacheSize)
	if err != nil {
		// NewLRU only fails for sizes below 1
		panic(fmt.Errorf("failed to create message cache: %w", err))
	}
	return &Subscriptions{
		rt:             rt,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(req *http.Request) bool {
				origin := req.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		msgCache: msgCache,
		done:     make(chan struct{}),
	}
}

// parsePosition resolves the pos query argument to the sequence number the
// stream resumes after. An empty pos means the latest committed operation.
func (s *Subscriptions) parsePosition(posStr string) (uint64, error) {
	seq := s.rt.Seq()
	if posStr == "" {
		return seq, nil
	}
	pos, err := strconv.ParseUint(posStr, 10, 64)
	if err != nil {
		return 0, err
	}
	if pos > seq {
		return 0, errors.New("not found")
	}
	if seq-pos > s.backtraceLimit {
		return 0, errors.New("backtrace limit exceeded")
	}
	return pos, nil
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	pos, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "pos"))
	}
	reader := newReceiptReader(s.rt, pos, s.msgCache)

	s.wg.Add(1)
	defer s.wg.Done()

	conn, closed, err := s.setupConn(w, req)
	// the connection is hijacked beyond this point, so errors go to the peer
	// as close messages instead of HTTP statuses
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	err = s.pipe(conn, reader, closed)
	if err != nil {
		logger.Debug("websocket pipe ended", "err", err)
	}
	s.closeConn(conn, err)
	return nil
}

func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// read loop detects the peer closing or failing the connection
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
		logger.Debug("failed to send close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("failed to close websocket connection", "err", err)
	}
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader *receiptReader, closed chan struct{}) error {
	ticker := s.rt.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()
	for {
		// capture the tick channel before draining so commits during the
		// drain are not missed
		tickerC := ticker.C()
		msgs, hasMore, err := reader.Read()
		if err != nil {
			return errors.WithMessage(err, "read")
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return errors.WithMessage(err, "write")
			}
		}
		if hasMore {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			default:
			}
		} else {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			case <-tickerC:
			case <-pingTicker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return err
				}
			}
		}
	}
}

// Close ends all active subscriptions and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").
		Methods(http.MethodGet).
		Name("GET /subscriptions/receipt").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeReceipts))
}
