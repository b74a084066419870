package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstDay2023 テスト用の基準日 2023-01-01
func firstDay2023() time.Time {
	return time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
}

func at(date time.Time, hour, min, sec int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, sec, 0, time.UTC)
}

// --- New テスト ---

func TestNew_AllDay(t *testing.T) {
	date := firstDay2023()
	event := New("Birthday Party", date)

	assert.Equal(t, at(date, 0, 0, 0), event.Start())
	assert.Equal(t, at(date, 23, 59, 59), event.End())
	assert.Equal(t, "Birthday Party", event.Name())
	assert.NotEqual(t, uuid.Nil, event.ID())
	assert.True(t, event.IsAllDay())
}

func TestNew_UniqueIDs(t *testing.T) {
	a := New("A", firstDay2023())
	b := New("A", firstDay2023())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.False(t, a.Equal(b))
}

func TestNew_DropsLocation(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	event := New("A", time.Date(2023, 1, 1, 3, 0, 0, 0, jst))

	assert.Equal(t, at(firstDay2023(), 0, 0, 0), event.Start())
	assert.Equal(t, time.UTC, event.Start().Location())
}

// --- 開始・終了の変更テスト ---

func TestSetStart(t *testing.T) {
	date := firstDay2023()
	event := New("Birthday Party", date)

	updated, err := event.SetStart(at(date, 10, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, at(date, 10, 30, 0), updated.Start())
	assert.Equal(t, event.End(), updated.End())
	assert.Equal(t, event.ID(), updated.ID())
	assert.False(t, updated.IsAllDay())

	// 元のイベントは変わらない
	assert.Equal(t, at(date, 0, 0, 0), event.Start())
}

func TestSetEnd(t *testing.T) {
	date := firstDay2023()
	event := New("Birthday Party", date)

	updated, err := event.SetEnd(at(date, 22, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, at(date, 22, 30, 0), updated.End())
	assert.Equal(t, event.Start(), updated.Start())
}

func TestSetStart_Invalid(t *testing.T) {
	date := firstDay2023()
	event := New("Birthday Party", date)

	tests := []struct {
		name  string
		start time.Time
	}{
		{"終了と同じ", at(date, 23, 59, 59)},
		{"終了より後", at(date.AddDate(0, 0, 1), 0, 0, 0)},
		{"秒未満は切り捨て", at(date, 23, 59, 59).Add(500 * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := event.SetStart(tt.start)
			assert.ErrorIs(t, err, ErrInvalidStartTime)
			assert.Equal(t, at(date, 0, 0, 0), event.Start())
		})
	}
}

func TestSetEnd_Invalid(t *testing.T) {
	date := firstDay2023()
	event, err := New("Birthday", date).SetStart(at(date, 12, 0, 0))
	require.NoError(t, err)

	tests := []struct {
		name string
		end  time.Time
	}{
		{"開始と同じ", at(date, 12, 0, 0)},
		{"開始より前", at(date, 10, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := event.SetEnd(tt.end)
			assert.ErrorIs(t, err, ErrInvalidEndTime)
			assert.Equal(t, at(date, 23, 59, 59), event.End())
		})
	}
}

func TestSetStartTimeAndDate(t *testing.T) {
	date := firstDay2023()
	event, err := New("A", date).SetEndDate(date.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, at(date.AddDate(0, 0, 2), 23, 59, 59), event.End())

	event, err = event.SetStartTime(time.Date(0, 1, 1, 9, 15, 30, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, at(date, 9, 15, 30), event.Start())

	event, err = event.SetStartDate(date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, at(date.AddDate(0, 0, 1), 9, 15, 30), event.Start())

	_, err = event.SetStartDate(date.AddDate(0, 0, 3))
	assert.ErrorIs(t, err, ErrInvalidStartTime)
}

func TestSetEndTimeAndDate(t *testing.T) {
	date := firstDay2023()
	event := New("A", date)

	updated, err := event.SetEndTime(time.Date(0, 1, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, at(date, 18, 0, 0), updated.End())

	_, err = event.SetEndTime(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrInvalidEndTime)

	_, err = event.SetEndDate(date.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidEndTime)
}

func TestSetSpan(t *testing.T) {
	date := firstDay2023()
	event := New("A", date)

	// 片方ずつだと途中で不正になる移動
	next := date.AddDate(0, 0, 5)
	moved, err := event.SetSpan(at(next, 9, 0, 0), at(next, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, at(next, 9, 0, 0), moved.Start())
	assert.Equal(t, at(next, 10, 0, 0), moved.End())
	assert.Equal(t, time.Hour, moved.Duration())

	_, err = event.SetSpan(at(next, 10, 0, 0), at(next, 10, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidEndTime)
}

func TestSetName(t *testing.T) {
	event := New("A", firstDay2023())
	id := event.ID()

	event.SetName("B")
	assert.Equal(t, "B", event.Name())
	assert.Equal(t, id, event.ID())
}

// --- 順序テスト ---

func TestCompare_StartOrdering(t *testing.T) {
	date := firstDay2023()
	d1 := New("A", date)

	later := func(t *testing.T, start, end time.Time) Event {
		t.Helper()
		e, err := New("A", date).SetSpan(start, end)
		require.NoError(t, err)
		return e
	}

	tests := []struct {
		name  string
		other Event
	}{
		{"1秒後", later(t, at(date, 0, 0, 1), at(date, 23, 59, 59))},
		{"1分後", later(t, at(date, 0, 1, 0), at(date, 23, 59, 59))},
		{"1時間後", later(t, at(date, 1, 0, 0), at(date, 23, 59, 59))},
		{"翌日", later(t, at(date.AddDate(0, 0, 1), 0, 0, 0), at(date.AddDate(0, 0, 2), 0, 0, 0))},
		{"翌月", later(t, at(date.AddDate(0, 1, 0), 0, 0, 0), at(date.AddDate(0, 2, 0), 0, 0, 0))},
		{"翌年", New("A", date.AddDate(1, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, -1, d1.Compare(tt.other))
			assert.Equal(t, 1, tt.other.Compare(d1))
			assert.True(t, d1.Less(tt.other))
		})
	}
}

func TestCompare_TieBreakers(t *testing.T) {
	date := firstDay2023()
	base := New("B", date)

	shorter, err := base.SetEnd(at(date, 12, 0, 0))
	require.NoError(t, err)
	assert.True(t, shorter.Less(base), "終了が早い方が前")

	renamed := base
	renamed.SetName("A")
	assert.True(t, renamed.Less(base), "名前で比較")

	idA := uuid.MustParse("00000000-0000-4000-8000-000000000001")
	idB := uuid.MustParse("00000000-0000-4000-8000-000000000002")
	a := NewWithID(idA, "B", date)
	b := NewWithID(idB, "B", date)
	assert.True(t, a.Less(b), "最後にIDで比較")
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}

// --- シリアライズテスト ---

func TestSerialize(t *testing.T) {
	e := New("A", firstDay2023())

	expected := fmt.Sprintf(`{"start":"2023-01-01T00:00:00","end":"2023-01-01T23:59:59","name":"A","id":"%s"}`, e.ID().String())
	assert.Equal(t, expected, e.Serialize())
	assert.Equal(t, e.Serialize(), e.Serialize())
	assert.Len(t, e.ID().String(), 36)
}

func TestSerialize_NoHTMLEscape(t *testing.T) {
	e := New("<Tom & Jerry>", firstDay2023())
	assert.Contains(t, e.Serialize(), `"name":"<Tom & Jerry>"`)
}

func TestUnmarshalJSON(t *testing.T) {
	original, err := New("会議", firstDay2023()).SetStartTime(time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var parsed Event
	require.NoError(t, json.Unmarshal([]byte(original.Serialize()), &parsed))
	assert.True(t, original.Equal(parsed))
}

func TestUnmarshalJSON_Invalid(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "不正なID",
			input:   `{"start":"2023-01-01T00:00:00","end":"2023-01-01T23:59:59","name":"A","id":"not-a-uuid"}`,
			wantErr: ErrInvalidID,
		},
		{
			name:    "終了が開始と同じ",
			input:   `{"start":"2023-01-01T00:00:00","end":"2023-01-01T00:00:00","name":"A","id":"` + id + `"}`,
			wantErr: ErrInvalidEndTime,
		},
		{
			name:  "不正な日時",
			input: `{"start":"2023/01/01","end":"2023-01-01T00:00:00","name":"A","id":"` + id + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Event
			err := json.Unmarshal([]byte(tt.input), &e)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.True(t, e.Equal(Event{}))
		})
	}
}

// --- ParseID テスト ---

func TestParseID(t *testing.T) {
	id := uuid.New()

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("definitely-not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.NotErrorIs(t, err, ErrInvalidStartTime)
}
