package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-operator/parameter"
)

func TestBus_DispatchInOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(EventWaveStarted, func(ev GameEvent) {
		got = append(got, "first:"+GetEventName(ev.Type))
	})
	b.Subscribe(EventWaveStarted, func(ev GameEvent) {
		got = append(got, "second")
	})
	b.Subscribe(EventWaveEnded, func(ev GameEvent) {
		got = append(got, "ended")
	})

	b.Push(GameEvent{Type: EventWaveStarted, Payload: &WavePayload{WaveIndex: 0}})
	b.Push(GameEvent{Type: EventWaveEnded, Payload: &WavePayload{WaveIndex: 0}})

	assert.Empty(t, got, "push only buffers")
	assert.Equal(t, 2, b.Dispatch())
	assert.Equal(t, []string{"first:EventWaveStarted", "second", "ended"}, got)
	assert.Equal(t, 0, b.Pending())
}

func TestBus_UnsubscribeMatchedPairs(t *testing.T) {
	b := NewBus()
	calls := 0
	sub := b.Subscribe(EventHealthChanged, func(GameEvent) { calls++ })
	require.Equal(t, 1, b.HandlerCount(EventHealthChanged))

	assert.True(t, b.Unsubscribe(sub))
	assert.False(t, b.Unsubscribe(sub), "second unsubscribe is a no-op")
	assert.Equal(t, 0, b.HandlerCount(EventHealthChanged))

	b.Publish(GameEvent{Type: EventHealthChanged})
	assert.Equal(t, 0, calls)
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	b := NewBus()
	var second Subscription
	secondCalls := 0

	b.Subscribe(EventOperatorReset, func(GameEvent) { b.Unsubscribe(second) })
	second = b.Subscribe(EventOperatorReset, func(GameEvent) { secondCalls++ })

	b.Publish(GameEvent{Type: EventOperatorReset})
	assert.Equal(t, 0, secondCalls)
}

func TestBus_PushFromHandlerDefers(t *testing.T) {
	b := NewBus()
	count := 0
	b.Subscribe(EventWaveEnded, func(GameEvent) {
		count++
		if count == 1 {
			b.Push(GameEvent{Type: EventWaveEnded})
		}
	})

	b.Push(GameEvent{Type: EventWaveEnded})
	assert.Equal(t, 1, b.Dispatch())
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, b.Dispatch())
	assert.Equal(t, 2, count)
}

func TestBus_OverflowDropsOldest(t *testing.T) {
	b := NewBus()
	var first int
	seen := false
	b.Subscribe(EventWaveStarted, func(ev GameEvent) {
		if !seen {
			first = ev.Payload.(*WavePayload).WaveIndex
			seen = true
		}
	})

	for i := 0; i < parameter.MaxPendingEvents+5; i++ {
		b.Push(GameEvent{Type: EventWaveStarted, Payload: &WavePayload{WaveIndex: i}})
	}
	assert.Equal(t, uint64(5), b.Dropped())
	assert.Equal(t, parameter.MaxPendingEvents, b.Dispatch())
	assert.Equal(t, 5, first)
}

func TestBus_ConcurrentPush(t *testing.T) {
	b := NewBus()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				b.Push(GameEvent{Type: EventHealthChanged})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, b.Dispatch())
}

func TestRegistry_Names(t *testing.T) {
	et, ok := GetEventType("EventEnhanceSlotChanged")
	require.True(t, ok)
	assert.Equal(t, EventEnhanceSlotChanged, et)

	et, ok = GetEventType("tick")
	require.True(t, ok)
	assert.Equal(t, EventTick, et)

	_, ok = GetEventType("EventUnknown")
	assert.False(t, ok)

	p, ok := NewPayloadStruct(EventTutorialOperateString).(*OperateStringPayload)
	require.True(t, ok)
	assert.NotNil(t, p)
	assert.Nil(t, NewPayloadStruct(EventOperatorReset))
}
