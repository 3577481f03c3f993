// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	"github.com/stretchr/testify/require"

	"github.com/wrenaudio/synthio/lfq"
)

func TestSPSCCapacityRoundsUpToPow2(t *testing.T) {
	q := lfq.NewSPSC[int](3)
	require.Equal(t, 4, q.Cap())
}

func TestSPSCFullAndEmptySignalWouldBlock(t *testing.T) {
	q := lfq.NewSPSC[int](2)
	v := 1
	require.NoError(t, q.Enqueue(&v))
	require.NoError(t, q.Enqueue(&v))
	require.ErrorIs(t, q.Enqueue(&v), lfq.ErrWouldBlock)

	got, err := q.Dequeue()
	require.NoError(t, err)
	require.Equal(t, 1, got)
	got, err = q.Dequeue()
	require.NoError(t, err)
	require.Equal(t, 1, got)

	_, err = q.Dequeue()
	require.ErrorIs(t, err, lfq.ErrWouldBlock)
}

func TestSPSCProducerConsumerOrder(t *testing.T) {
	const n = 10000
	q := lfq.NewSPSC[int](64)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := 0; i < n; i++ {
			v := i
			for q.Enqueue(&v) != nil {
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	got := make([]int, 0, n)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for len(got) < n {
			v, err := q.Dequeue()
			if err != nil {
				backoff.Wait()
				continue
			}
			backoff.Reset()
			got = append(got, v)
		}
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timeout")
	}

	for i, v := range got {
		require.Equal(t, i, v)
	}
}
