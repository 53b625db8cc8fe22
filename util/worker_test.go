package util

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWorker(t *testing.T) {
	var wg sync.WaitGroup
	var handled atomic.Int32
	w := NewWorker("test", &wg, func(task Task) error {
		handled.Add(1)
		if task.(int) < 0 {
			return errors.New("negative")
		}
		return nil
	}, 2)

	require.True(t, w.Offer(1))
	require.True(t, w.Offer(-1))
	require.False(t, w.Offer(2))

	w.Start()
	require.Eventually(t, func() bool { return handled.Load() == 2 }, time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()
	wg.Wait()
}

func TestTickWorker(t *testing.T) {
	var wg sync.WaitGroup
	var ticks atomic.Int32
	tw := NewTickWorker("tick", 5*time.Millisecond, func() { ticks.Add(1) }, &wg)
	tw.Start()
	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, 5*time.Millisecond)
	tw.Stop()
	tw.Stop()
	wg.Wait()
}

func TestResolveTemplate(t *testing.T) {
	data := map[string]any{
		"amount": "5",
		"token":  map[string]any{"symbol": "ETH"},
	}
	require.Equal(t, "Send 5 ETH", ResolveTemplate("Send {$.amount} {$.token.symbol}", data))
	require.Equal(t, "Send {$.missing}", ResolveTemplate("Send {$.missing}", data))
	require.Equal(t, "plain {text}", ResolveTemplate("plain {text}", data))
	require.Equal(t, "Send {$.amount}", ResolveTemplate("Send {$.amount}", nil))
}

func TestToDataMap(t *testing.T) {
	type params struct {
		Amount string `json:"amount"`
	}
	m, err := ToDataMap(params{Amount: "1"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"amount": "1"}, m)

	_, err = ToDataMap([]int{1})
	require.Error(t, err)
}
