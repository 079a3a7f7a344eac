// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/cache"
	"github.com/freyrlabs/freyr/runtime"
)

// readBatch caps receipts drained per Read so a slow peer cannot pin the
// writer loop.
const readBatch = 64

// receiptReader streams committed receipts from the runtime backlog,
// starting right after a given sequence number.
type receiptReader struct {
	rt       *runtime.Runtime
	msgCache *cache.LRU
	next     uint64
}

func newReceiptReader(rt *runtime.Runtime, pos uint64, msgCache *cache.LRU) *receiptReader {
	return &receiptReader{
		rt:       rt,
		msgCache: msgCache,
		next:     pos + 1,
	}
}

// Read drains up to readBatch receipts past the reader position. A receipt
// evicted from the backlog before it was read ends the stream with an error.
func (r *receiptReader) Read() ([][]byte, bool, error) {
	var msgs [][]byte
	seq := r.rt.Seq()
	for r.next <= seq && len(msgs) < readBatch {
		rec, ok := r.rt.Receipt(r.next)
		if !ok {
			return nil, false, errors.Errorf("receipt %d pruned from backlog", r.next)
		}
		msg, err := r.marshalReceipt(rec)
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
		r.next++
	}
	return msgs, r.next <= seq, nil
}

// marshalReceipt converts a receipt to its wire form, caching the result so
// concurrent subscribers marshal each receipt once.
func (r *receiptReader) marshalReceipt(rec *runtime.Receipt) ([]byte, error) {
	msg, err := r.msgCache.GetOrLoad(rec.Seq, func(any) (any, error) {
		return json.Marshal(receipts.Convert(rec))
	})
	if err != nil {
		return nil, err
	}
	return msg.([]byte), nil
}
