// Copyright 2024 Maxime Ripard. All rights reserved.

package mem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	dmabuf "github.com/mripard/dma-buf"
)

func TestHandle(t *testing.T) {
	a := assert.New(t)
	h := New(16)
	a.Equal(16, h.Len())
	a.NoError(h.SyncStart(dmabuf.ReadOnly))
	a.NoError(h.SyncEnd(dmabuf.ReadOnly))
	m, err := h.CreateMapping(dmabuf.ReadWrite)
	if !a.NoError(err) {
		return
	}
	a.Equal(16, m.Len())
}

func TestWriteThenRead(t *testing.T) {
	a := assert.New(t)
	buf := dmabuf.NewBuffer(New(16))
	w, err := buf.MapWrite()
	if !a.NoError(err) {
		return
	}
	w.Bytes()[0] = 0xFF
	a.NoError(w.Close())
	r, err := buf.MapRead()
	if !a.NoError(err) {
		return
	}
	a.Equal(byte(0xFF), r.Bytes()[0])
	a.Equal(make([]byte, 15), r.Bytes()[1:])
	a.NoError(r.Close())
}

func TestFromBytesAliases(t *testing.T) {
	a := assert.New(t)
	backing := []byte("01234567")
	buf := dmabuf.NewBuffer(FromBytes(backing))
	w, err := buf.MapWrite()
	if !a.NoError(err) {
		return
	}
	copy(w.Bytes(), "dma-data")
	a.NoError(w.Close())
	a.Equal([]byte("dma-data"), backing)
}

func TestConcurrentReaders(t *testing.T) {
	a := assert.New(t)
	buf := dmabuf.NewBuffer(FromBytes([]byte("dma-data")))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := buf.MapRead()
			if !a.NoError(err) {
				return
			}
			a.Equal([]byte("dma-data"), g.Bytes())
			a.NoError(g.Close())
		}()
	}
	wg.Wait()
}
