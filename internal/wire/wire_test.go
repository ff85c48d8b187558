package wire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeControlMessages(t *testing.T) {
	for _, typ := range []string{
		TypeConnectionEstablished,
		TypeSubscriptionConfirmed,
		TypeUnsubscriptionConfirmed,
		TypePong,
	} {
		t.Run(typ, func(t *testing.T) {
			msg, err := Decode([]byte(`{"type":"` + typ + `"}`))
			require.NoError(t, err)
			require.Equal(t, KindControl, msg.Kind)
			require.Equal(t, typ, msg.Type)
		})
	}
}

func TestDecodeEvent(t *testing.T) {
	payload := `{
		"type": "status_change",
		"sourceType": "scraping",
		"sourceId": "job-1",
		"userId": "u1",
		"timestamp": "2026-08-30T12:00:00Z",
		"data": {"progress": 42}
	}`

	msg, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Equal(t, KindEvent, msg.Kind)

	ev := msg.Event
	require.Equal(t, "status_change", ev.Type)
	require.Equal(t, "scraping", ev.SourceType)
	require.Equal(t, "job-1", ev.SourceID)
	require.Equal(t, "u1", ev.UserID)
	require.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), ev.Timestamp)
	require.JSONEq(t, `{"progress": 42}`, string(ev.Data))
}

func TestDecodeRejectsIncompleteEvents(t *testing.T) {
	cases := map[string]string{
		"missing everything but type": `{"type":"status_change"}`,
		"missing sourceId":            `{"type":"status_change","sourceType":"scraping","userId":"u1","timestamp":"2026-08-30T12:00:00Z","data":{}}`,
		"missing userId":              `{"type":"status_change","sourceType":"scraping","sourceId":"job-1","timestamp":"2026-08-30T12:00:00Z","data":{}}`,
		"missing timestamp":           `{"type":"status_change","sourceType":"scraping","sourceId":"job-1","userId":"u1","data":{}}`,
		"missing data":                `{"type":"status_change","sourceType":"scraping","sourceId":"job-1","userId":"u1","timestamp":"2026-08-30T12:00:00Z"}`,
		"missing type":                `{"sourceType":"scraping","sourceId":"job-1","userId":"u1","timestamp":"2026-08-30T12:00:00Z","data":{}}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			msg, err := Decode([]byte(payload))
			require.NoError(t, err)
			require.Equal(t, KindUnknown, msg.Kind)
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"type": "status_change",`))
	require.Error(t, err)

	// Wrong field types are malformed, not unknown-but-valid.
	_, err = Decode([]byte(`{"type":"x","sourceType":"s","sourceId":"i","userId":"u","timestamp":12345,"data":{}}`))
	require.Error(t, err)
}

func TestOutboundFrames(t *testing.T) {
	sub, err := json.Marshal(NewSubscribe([]string{"scraping:job-1", "type:streaming"}))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"subscribe","channels":["scraping:job-1","type:streaming"]}`, string(sub))

	unsub, err := json.Marshal(NewUnsubscribe([]string{"scraping:job-1"}))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"unsubscribe","channels":["scraping:job-1"]}`, string(unsub))

	ping, err := json.Marshal(NewPing())
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"ping"}`, string(ping))
}
