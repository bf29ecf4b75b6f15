package journal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateUnmarshalJSON(t *testing.T) {
	var d Date
	assert.NoError(t, json.Unmarshal([]byte(`"2025-06-10"`), &d))
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), time.Time(d))

	// Full timestamps from date pickers truncate to the day.
	var stamped Date
	assert.NoError(t, json.Unmarshal([]byte(`"2025-06-10T15:04:05.000Z"`), &stamped))
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), time.Time(stamped))

	var null Date
	assert.NoError(t, json.Unmarshal([]byte(`null`), &null))
	assert.True(t, time.Time(null).IsZero())
}

func TestDateMarshalJSON(t *testing.T) {
	d := Date(time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local))
	out, err := json.Marshal(&d)
	assert.NoError(t, err)
	assert.Equal(t, `"2025-06-10"`, string(out))
}

func TestDateScan(t *testing.T) {
	var d Date
	assert.NoError(t, d.Scan(time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2025-06-10", d.String())
}
