// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

const (
	timeFormat     = "2006-01-02T15:04:05-0700"
	termTimeFormat = "01-02|15:04:05.000"
	floatFormat    = 'f'

	termMsgJust       = 40
	termCtxMaxPadding = 40
)

const colorReset = "\x1b[0m"

var spaces = []byte("                                        ")

func levelColor(l slog.Level) string {
	switch l {
	case LevelCrit:
		return "\x1b[35m"
	case slog.LevelError:
		return "\x1b[31m"
	case slog.LevelWarn:
		return "\x1b[33m"
	case slog.LevelInfo:
		return "\x1b[32m"
	case slog.LevelDebug:
		return "\x1b[36m"
	case LevelTrace:
		return "\x1b[34m"
	default:
		return ""
	}
}

func (h *TerminalHandler) format(buf []byte, r slog.Record, usecolor bool) []byte {
	msg := escapeMessage(r.Message)
	if buf == nil {
		buf = make([]byte, 0, 30+termMsgJust)
	}
	color := ""
	if usecolor {
		color = levelColor(r.Level)
	}
	if color != "" {
		buf = append(buf, color...)
		buf = append(buf, LevelAlignedString(r.Level)...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, LevelAlignedString(r.Level)...)
	}
	buf = append(buf, '[')
	buf = r.Time.AppendFormat(buf, termTimeFormat)
	buf = append(buf, "] "...)
	buf = append(buf, msg...)

	// justify short messages so attribute columns line up
	if r.NumAttrs()+len(h.attrs) > 0 {
		if n := utf8.RuneCountInString(msg); n < termMsgJust {
			buf = append(buf, spaces[:termMsgJust-n]...)
		}
	}
	return h.formatAttributes(buf, r, color)
}

func (h *TerminalHandler) formatAttributes(buf []byte, r slog.Record, color string) []byte {
	writeAttr := func(attr slog.Attr) {
		buf = append(buf, ' ')
		if color != "" {
			buf = append(buf, color...)
			buf = appendEscapeString(buf, attr.Key)
			buf = append(buf, colorReset...)
		} else {
			buf = appendEscapeString(buf, attr.Key)
		}
		buf = append(buf, '=')

		mark := len(buf)
		buf = appendValue(buf, attr.Value)

		n := utf8.RuneCount(buf[mark:])
		padding := h.fieldPadding[attr.Key]
		if padding < n && n <= termCtxMaxPadding {
			padding = n
			h.fieldPadding[attr.Key] = padding
		}
		if padding > n {
			buf = append(buf, spaces[:padding-n]...)
		}
	}
	for _, attr := range h.attrs {
		writeAttr(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(attr)
		return true
	})
	return append(buf, '\n')
}

func appendValue(dst []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return appendEscapeString(dst, v.String())
	case slog.KindInt64:
		return appendInt64(dst, v.Int64())
	case slog.KindUint64:
		return appendUint64(dst, v.Uint64(), false)
	case slog.KindFloat64:
		return strconv.AppendFloat(dst, v.Float64(), floatFormat, 3, 64)
	case slog.KindBool:
		return strconv.AppendBool(dst, v.Bool())
	case slog.KindDuration:
		return appendEscapeString(dst, v.Duration().String())
	case slog.KindTime:
		// timeFormat contains no characters that need escaping
		return v.Time().AppendFormat(dst, timeFormat)
	default:
	}

	value := v.Any()
	if value == nil {
		return append(dst, "<nil>"...)
	}
	switch v := value.(type) {
	case *big.Int:
		// big ints would otherwise be consumed by the Stringer clause
		if v == nil {
			return append(dst, "<nil>"...)
		}
		return appendEscapeString(dst, v.String())
	case *uint256.Int:
		if v == nil {
			return append(dst, "<nil>"...)
		}
		return appendEscapeString(dst, v.Dec())
	case error:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return append(dst, "<nil>"...)
		}
		return appendEscapeString(dst, v.Error())
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return append(dst, "<nil>"...)
		}
		return appendEscapeString(dst, v.String())
	}
	return appendEscapeString(dst, fmt.Sprintf("%+v", value))
}

// appendInt64 appends n to dst with thousands separators.
func appendInt64(dst []byte, n int64) []byte {
	if n < 0 {
		return appendUint64(dst, uint64(-n), true)
	}
	return appendUint64(dst, uint64(n), false)
}

// appendUint64 appends n to dst with thousands separators.
func appendUint64(dst []byte, n uint64, neg bool) []byte {
	// small numbers are fine as is
	if n < 100000 {
		if neg {
			return strconv.AppendInt(dst, -int64(n), 10)
		}
		return strconv.AppendInt(dst, int64(n), 10)
	}
	const maxLength = 26

	var (
		out   = make([]byte, maxLength)
		i     = maxLength - 1
		comma = 0
	)
	for ; n > 0; i-- {
		if comma == 3 {
			comma = 0
			out[i] = ','
		} else {
			comma++
			out[i] = '0' + byte(n%10)
			n /= 10
		}
	}
	if neg {
		out[i] = '-'
		i--
	}
	return append(dst, out[i+1:]...)
}

// escapeMessage quotes the message if it contains characters that would
// disturb the log line layout.
func escapeMessage(s string) string {
	needsQuoting := false
	for _, r := range s {
		// allow CR/LF/TAB so multi-line messages work
		if r == '\r' || r == '\n' || r == '\t' {
			continue
		}
		if r < ' ' || r > '~' || r == '=' {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return strconv.Quote(s)
}

// appendEscapeString appends s to dst, quoted or escaped if needed.
func appendEscapeString(dst []byte, s string) []byte {
	needsQuoting := false
	needsEscaping := false
	for _, r := range s {
		// spaces and equal-signs require quoting
		if r == ' ' || r == '=' {
			needsQuoting = true
			continue
		}
		// control chars, quote marks and non-ASCII require escaping
		if r <= '"' || r > '~' {
			needsEscaping = true
			break
		}
	}
	if needsEscaping {
		return strconv.AppendQuote(dst, s)
	}
	if needsQuoting {
		dst = append(dst, '"')
		dst = append(dst, s...)
		return append(dst, '"')
	}
	return append(dst, s...)
}
