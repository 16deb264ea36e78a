package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleLog() *EventLog {
	l := newEventLog(SimulationParameters{ArrivalRate: 1, ServiceRate: 1, Servers: 1, Clients: 2})
	l.append(EventRecord{Time: 0.5, ClientID: 1, Kind: Arrival})
	l.append(EventRecord{Time: 0.5, ClientID: 1, Kind: ServiceStart})
	l.append(EventRecord{Time: 0.7, ClientID: 2, Kind: Arrival})
	l.append(EventRecord{Time: 1.1, ClientID: 1, Kind: Exit})
	l.append(EventRecord{Time: 1.1, ClientID: 2, Kind: ServiceStart})
	l.append(EventRecord{Time: 1.4, ClientID: 2, Kind: Exit})
	return l
}

func TestEventLog_Accessors(t *testing.T) {
	l := sampleLog()

	assert.Equal(t, 6, l.Len())
	assert.False(t, l.Empty())
	assert.Equal(t, 2, l.Count(Arrival))
	assert.Equal(t, 2, l.Count(Exit))
	assert.Equal(t, 1.4, l.Duration())
	assert.Equal(t, EventRecord{Time: 0.7, ClientID: 2, Kind: Arrival}, l.At(2))

	client2 := l.ForClient(2)
	require.Len(t, client2, 3)
	assert.Equal(t, []EventKind{Arrival, ServiceStart, Exit},
		[]EventKind{client2[0].Kind, client2[1].Kind, client2[2].Kind})
}

func TestEventLog_RecordsIsReadOnlyCopy(t *testing.T) {
	l := sampleLog()
	rs := l.Records()
	rs[0].Time = 99

	assert.Equal(t, 0.5, l.At(0).Time)
}

func TestEventLog_NilLogIsEmpty(t *testing.T) {
	var l *EventLog
	assert.True(t, l.Empty())
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Count(Arrival))
	assert.Nil(t, l.Records())
	assert.Empty(t, l.Timeline())
}

func TestEventLog_OutOfOrderAppend_Panics(t *testing.T) {
	l := sampleLog()
	assert.Panics(t, func() { l.append(EventRecord{Time: 0.1, ClientID: 3, Kind: Arrival}) })
}

func TestEventLog_Timeline(t *testing.T) {
	tl := sampleLog().Timeline()
	require.Len(t, tl, 2)
	assert.Equal(t, 0.7, tl[1].ArrivalTime)
	assert.Equal(t, 1.1, tl[1].ServiceStartTime)
	assert.Equal(t, 1.4, tl[1].DepartureTime)
	assert.InDelta(t, 0.4, tl[1].WaitTime(), 1e-12)
	assert.Equal(t, ClientDeparted, tl[1].State)
}

func TestEventKind_TextEncoding(t *testing.T) {
	for _, k := range []EventKind{Arrival, ServiceStart, Exit} {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var back EventKind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	_, err := EventKind(42).MarshalText()
	assert.Error(t, err)
	_, err = ParseEventKind("checkout")
	assert.Error(t, err)
	assert.Equal(t, "EventKind(42)", EventKind(42).String())
}

func TestEventRecord_JSONAndYAMLUseKindNames(t *testing.T) {
	r := EventRecord{Time: 0.25, ClientID: 3, Kind: ServiceStart}

	js, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":0.25,"client_id":3,"event":"service_start"}`, string(js))

	ys, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(ys), "event: service_start")

	var back EventRecord
	require.NoError(t, yaml.Unmarshal(ys, &back))
	assert.Equal(t, r, back)
}
