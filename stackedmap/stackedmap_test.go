// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"fmt"
	"maps"
	"math/rand"
	"reflect"
	"slices"
	"strconv"
	"testing"
	"testing/quick"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"

	"github.com/freyrlabs/freyr/stackedmap"
)

func init() {
	spew.Config.Indent = "    "
	spew.Config.DisableMethods = false
}

func TestStackedMap(t *testing.T) {
	src := map[string]string{"base": "b"}
	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})

	assert.Equal(t, 0, sm.Depth())

	// read-through to source
	v, ok, err := sm.Get("base")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	rev := sm.Push()
	assert.Equal(t, 0, rev)
	sm.Put("k", "v1")

	v, ok, _ = sm.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	// deeper level shadows
	sm.Push()
	sm.Put("k", "v2")
	v, _, _ = sm.Get("k")
	assert.Equal(t, "v2", v)

	sm.Pop()
	v, _, _ = sm.Get("k")
	assert.Equal(t, "v1", v)

	sm.PopTo(0)
	_, ok, _ = sm.Get("k")
	assert.False(t, ok)
}

func TestStackedMapRepeatedPut(t *testing.T) {
	sm := stackedmap.New(func(string) (string, bool, error) {
		return "", false, nil
	})

	sm.Push()
	sm.Put("k", "a")
	sm.Put("k", "b")
	sm.Pop()

	// no stale revision survives the pop
	_, ok, _ := sm.Get("k")
	assert.False(t, ok)

	sm.Push()
	sm.Put("k", "c")
	v, ok, _ := sm.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestStackedMapJournal(t *testing.T) {
	sm := stackedmap.New(func(string) (string, bool, error) {
		return "", false, nil
	})

	sm.Push()
	sm.Put("a", "1")
	sm.Push()
	sm.Put("a", "2")
	sm.Put("b", "3")

	var got []string
	sm.Journal(func(k, v string) bool {
		got = append(got, k+v)
		return true
	})
	assert.Equal(t, []string{"a1", "a2", "b3"}, got)

	// reverted levels leave the journal
	sm.Pop()
	got = got[:0]
	sm.Journal(func(k, v string) bool {
		got = append(got, k+v)
		return true
	})
	assert.Equal(t, []string{"a1"}, got)

	// early stop
	sm.Put("c", "4")
	count := 0
	sm.Journal(func(_, _ string) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

// randTest performs random stacked map operations.
// Instances of this test are created by Generate.
type randTest []randTestStep

type randTestStep struct {
	op    int
	key   string // for opPut, opGet
	value string // for opPut
	depth int    // for opPopTo
	err   error  // for debugging
}

const (
	opPut = iota
	opGet
	opPush
	opPop
	opPopTo
	opJournal
	opMax // boundary value, not an actual op
)

func (randTest) Generate(r *rand.Rand, size int) reflect.Value {
	var allKeys []string
	genKey := func() string {
		if len(allKeys) < 2 || r.Intn(100) < 10 {
			// new key
			key := make([]byte, r.Intn(8)+1)
			r.Read(key)
			allKeys = append(allKeys, string(key))
			return string(key)
		}
		// use existing key
		return allKeys[r.Intn(len(allKeys))]
	}

	var steps randTest
	depth := 0
	for i := range size {
		step := randTestStep{op: r.Intn(opMax)}
		switch step.op {
		case opPut:
			if depth == 0 {
				// puts need a level to land on
				step.op = opPush
				depth++
			} else {
				step.key = genKey()
				step.value = strconv.Itoa(i)
			}
		case opGet:
			step.key = genKey()
		case opPush:
			depth++
		case opPop:
			if depth == 0 {
				step.op = opPush
				depth++
			} else {
				depth--
			}
		case opPopTo:
			step.depth = r.Intn(depth + 1)
			depth = step.depth
		}
		steps = append(steps, step)
	}
	return reflect.ValueOf(steps)
}

// refLevel tracks one stack level with full copies instead of journaling.
type refLevel struct {
	kvs     map[string]string
	journal []string
}

func runRandTest(rt randTest) bool {
	src := map[string]string{"src1": "a", "src2": "b"}
	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})

	var ref []refLevel // tracks content of the stacked map

	refGet := func(key string) (string, bool) {
		if len(ref) > 0 {
			if v, ok := ref[len(ref)-1].kvs[key]; ok {
				return v, true
			}
		}
		v, ok := src[key]
		return v, ok
	}

	for i, step := range rt {
		switch step.op {
		case opPut:
			sm.Put(step.key, step.value)
			top := &ref[len(ref)-1]
			top.kvs[step.key] = step.value
			top.journal = append(top.journal, step.key+"="+step.value)
		case opGet:
			v, ok, _ := sm.Get(step.key)
			want, wantOK := refGet(step.key)
			if ok != wantOK || v != want {
				rt[i].err = fmt.Errorf("mismatch for key %q, got (%q, %v) want (%q, %v)", step.key, v, ok, want, wantOK)
			}
		case opPush:
			kvs := make(map[string]string)
			if len(ref) > 0 {
				maps.Copy(kvs, ref[len(ref)-1].kvs)
			}
			if got := sm.Push(); got != len(ref) {
				rt[i].err = fmt.Errorf("push returned depth %d, want %d", got, len(ref))
			}
			ref = append(ref, refLevel{kvs: kvs})
		case opPop:
			sm.Pop()
			ref = ref[:len(ref)-1]
		case opPopTo:
			sm.PopTo(step.depth)
			ref = ref[:step.depth]
		case opJournal:
			var got []string
			sm.Journal(func(k, v string) bool {
				got = append(got, k+"="+v)
				return true
			})
			var want []string
			for _, lvl := range ref {
				want = append(want, lvl.journal...)
			}
			if !slices.Equal(got, want) {
				rt[i].err = fmt.Errorf("journal mismatch, got %v want %v", got, want)
			}
		}
		if sm.Depth() != len(ref) {
			rt[i].err = fmt.Errorf("depth mismatch, got %d want %d", sm.Depth(), len(ref))
		}
		// Abort the test on error.
		if rt[i].err != nil {
			return false
		}
	}
	return true
}

func TestRandom(t *testing.T) {
	if err := quick.Check(runRandTest, nil); err != nil {
		if cerr, ok := err.(*quick.CheckError); ok {
			t.Fatalf("random test iteration %d failed: %s", cerr.Count, spew.Sdump(cerr.In))
		}
		t.Fatal(err)
	}
}
