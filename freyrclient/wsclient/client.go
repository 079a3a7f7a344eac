// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wsclient streams committed operation receipts from a Freyr node
// over websocket.
package wsclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/freyrclient/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(rawURL string) (*Client, error) {
	var host string
	var scheme string

	switch {
	case strings.Contains(rawURL, "https://") || strings.Contains(rawURL, "wss://"):
		host = strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "wss://")
		scheme = "wss"
	case strings.Contains(rawURL, "http://") || strings.Contains(rawURL, "ws://"):
		host = strings.TrimPrefix(strings.TrimPrefix(rawURL, "http://"), "ws://")
		scheme = "ws"
	default:
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeReceipts opens a receipt stream starting after position pos. An
// empty pos starts at the latest committed operation.
func (c *Client) SubscribeReceipts(pos string) (<-chan common.EventWrapper[*receipts.ReceiptMessage], error) {
	var query string
	if pos != "" {
		query = "pos=" + pos
	}
	conn, err := c.connect("/subscriptions/receipt", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[receipts.ReceiptMessage](conn), nil
}

// subscribe pumps messages of type T from conn into the returned channel.
// The channel closes after the first read error; the error is delivered as
// the final wrapper.
func subscribe[T any](conn *websocket.Conn) <-chan common.EventWrapper[*T] {
	eventChan := make(chan common.EventWrapper[*T])

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}
				return
			}
			eventChan <- common.EventWrapper[*T]{Data: &data}
		}
	}()

	return eventChan
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
