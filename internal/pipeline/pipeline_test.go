package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	require.False(t, tm.Has(StageLoad))
	tm.Add(StageLoad, 2*time.Millisecond)
	tm.Add(StageLoad, 3*time.Millisecond)
	tm.Add(StageQuery, time.Millisecond)
	require.True(t, tm.Has(StageLoad))
	require.Equal(t, 5*time.Millisecond, tm.Duration(StageLoad))
	require.Equal(t, time.Millisecond, tm.Sum(StageQuery))
	require.Equal(t, 6*time.Millisecond, tm.Sum())

	var nilTimings *Timings
	nilTimings.Add(StageLoad, time.Second)
}

func TestTerminalStatuses(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusQueued:  false,
		StatusWorking: false,
		StatusDone:    true,
		StatusCached:  true,
		StatusError:   true,
	} {
		require.Equal(t, want, status.Terminal(), status)
	}
}

func TestSinks(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ChannelSink{Ch: ch}, Event{File: "a.rq", Stage: StageLoad, Status: StatusWorking})
	require.Equal(t, "a.rq", (<-ch).File)

	Emit(nil, Event{})
	ChannelSink{}.OnEvent(Event{})

	var got []Event
	Emit(FuncSink(func(e Event) { got = append(got, e) }), Event{Status: StatusDone})
	require.Len(t, got, 1)

	var rec Recorder
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.OnEvent(Event{Status: StatusWorking})
		}()
	}
	wg.Wait()
	require.Len(t, rec.Events(), 8)
}
