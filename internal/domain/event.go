package domain

import (
	"bytes"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event カレンダーイベントのドメインエンティティ
//
// 開始・終了時刻はタイムゾーンを持たない秒精度の日時として扱う。
// 名前以外のフィールドはセッター経由で新しい値を生成する形でのみ変更できる。
type Event struct {
	start time.Time
	end   time.Time
	name  string
	id    uuid.UUID
}

// New 指定日の終日イベント (00:00:00〜23:59:59) を新しいIDで作成
func New(name string, date time.Time) Event {
	return NewWithID(uuid.New(), name, date)
}

// NewWithID 呼び出し側が決めたIDで終日イベントを作成
func NewWithID(id uuid.UUID, name string, date time.Time) Event {
	return Event{
		start: DayStart(date),
		end:   DayEnd(date),
		name:  name,
		id:    id,
	}
}

// Start 開始日時
func (e Event) Start() time.Time { return e.start }

// End 終了日時
func (e Event) End() time.Time { return e.end }

// Name イベント名
func (e Event) Name() string { return e.name }

// ID イベントの識別子
func (e Event) ID() uuid.UUID { return e.id }

// IsAllDay 00:00:00に始まり23:59:59に終わるイベントかどうか
func (e Event) IsAllDay() bool {
	return e.start.Equal(DayStart(e.start)) && e.end.Equal(DayEnd(e.end))
}

// Duration 開始から終了までの長さ
func (e Event) Duration() time.Duration {
	return e.end.Sub(e.start)
}

// spanValid 終了が開始より1秒以上後であるか
func spanValid(start, end time.Time) bool {
	return int64(end.Sub(start)/time.Second) > 0
}

// SetStart 開始日時を変更した新しいイベントを返す
func (e Event) SetStart(start time.Time) (Event, error) {
	start = Naive(start)
	if !spanValid(start, e.end) {
		return Event{}, ErrInvalidStartTime
	}
	e.start = start
	return e, nil
}

// SetStartTime 開始の時刻部分のみを変更
func (e Event) SetStartTime(clock time.Time) (Event, error) {
	return e.SetStart(combine(e.start, clock))
}

// SetStartDate 開始の日付部分のみを変更
func (e Event) SetStartDate(date time.Time) (Event, error) {
	return e.SetStart(combine(date, e.start))
}

// SetEnd 終了日時を変更した新しいイベントを返す
func (e Event) SetEnd(end time.Time) (Event, error) {
	end = Naive(end)
	if !spanValid(e.start, end) {
		return Event{}, ErrInvalidEndTime
	}
	e.end = end
	return e, nil
}

// SetEndTime 終了の時刻部分のみを変更
func (e Event) SetEndTime(clock time.Time) (Event, error) {
	return e.SetEnd(combine(e.end, clock))
}

// SetEndDate 終了の日付部分のみを変更
func (e Event) SetEndDate(date time.Time) (Event, error) {
	return e.SetEnd(combine(date, e.end))
}

// SetSpan 開始と終了をまとめて変更
//
// 片方ずつ変更すると途中で不正な組み合わせになる場合に使う。
// 失敗時は ErrInvalidEndTime を返す。
func (e Event) SetSpan(start, end time.Time) (Event, error) {
	start, end = Naive(start), Naive(end)
	if !spanValid(start, end) {
		return Event{}, ErrInvalidEndTime
	}
	e.start = start
	e.end = end
	return e, nil
}

// SetName イベント名を変更
func (e *Event) SetName(name string) {
	e.name = name
}

// Compare 開始、終了、名前、IDの順で比較する
func (e Event) Compare(o Event) int {
	if c := e.start.Compare(o.start); c != 0 {
		return c
	}
	if c := e.end.Compare(o.end); c != 0 {
		return c
	}
	if c := strings.Compare(e.name, o.name); c != 0 {
		return c
	}
	return bytes.Compare(e.id[:], o.id[:])
}

// Less e が o より前に並ぶかどうか
func (e Event) Less(o Event) bool {
	return e.Compare(o) < 0
}

// Equal 全フィールドが等しいかどうか
func (e Event) Equal(o Event) bool {
	return e.start.Equal(o.start) &&
		e.end.Equal(o.end) &&
		e.name == o.name &&
		e.id == o.id
}
