package calendar

import (
	"iter"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/k-negishi/eventcal/internal/domain"
)

// btreeDegree 時系列インデックスのBツリー次数
const btreeDegree = 16

// EventCalendar イベントをIDと時系列の2つのインデックスで保持するカレンダー
//
// ids と evts は常に同じイベント集合を持つ。どちらか一方だけを更新する操作はない。
// ゼロ値のまま使用できる。並行アクセスする場合は呼び出し側で排他制御すること。
type EventCalendar struct {
	ids  map[uuid.UUID]domain.Event
	evts *btree.BTreeG[domain.Event]
}

// New 空のカレンダーを作成
func New() *EventCalendar {
	c := &EventCalendar{}
	c.init()
	return c
}

func (c *EventCalendar) init() {
	if c.ids == nil {
		c.ids = make(map[uuid.UUID]domain.Event)
	}
	if c.evts == nil {
		c.evts = btree.NewG(btreeDegree, domain.Event.Less)
	}
}

// AddEvent イベントを追加する。同じIDのイベントがあれば置き換える
//
// IDが未登録だった場合は true、既存のイベントを置き換えた場合は false を返す。
func (c *EventCalendar) AddEvent(event domain.Event) bool {
	c.init()

	old, exists := c.ids[event.ID()]
	if exists {
		// 時刻が変わると並び位置も変わるので古い位置は先に消す
		c.evts.Delete(old)
	}
	c.ids[event.ID()] = event
	c.evts.ReplaceOrInsert(event)

	return !exists
}

// EventsInRange 開始または終了が [start, end] に含まれるイベントを時系列順に返す
//
// 範囲をまたぐだけで両端とも範囲外のイベントは含まない。
// 返すのは遅延評価のビューで、反復のたびにその時点のカレンダーを走査する。
func (c *EventCalendar) EventsInRange(start, end time.Time) iter.Seq[domain.Event] {
	start, end = domain.Naive(start), domain.Naive(end)
	within := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	return func(yield func(domain.Event) bool) {
		if c.evts == nil {
			return
		}
		c.evts.Ascend(func(evt domain.Event) bool {
			// 開始が範囲を過ぎたら以降のイベントは終了も範囲外
			if evt.Start().After(end) {
				return false
			}
			if within(evt.Start()) || within(evt.End()) {
				return yield(evt)
			}
			return true
		})
	}
}

// All 全イベントを時系列順に返す
func (c *EventCalendar) All() iter.Seq[domain.Event] {
	return func(yield func(domain.Event) bool) {
		if c.evts == nil {
			return
		}
		c.evts.Ascend(yield)
	}
}

// FirstEvent 最も早いイベント
func (c *EventCalendar) FirstEvent() (domain.Event, bool) {
	if c.evts == nil {
		return domain.Event{}, false
	}
	return c.evts.Min()
}

// Get IDでイベントを取得
func (c *EventCalendar) Get(id uuid.UUID) (domain.Event, bool) {
	evt, ok := c.ids[id]
	return evt, ok
}

// Remove IDでイベントを削除し、削除したイベントを返す
func (c *EventCalendar) Remove(id uuid.UUID) (domain.Event, bool) {
	evt, ok := c.ids[id]
	if !ok {
		return domain.Event{}, false
	}
	if _, found := c.evts.Delete(evt); !found {
		// インデックス不整合。到達しないはずだが片方だけ消すことはしない
		return domain.Event{}, false
	}
	delete(c.ids, id)
	return evt, true
}

// Len 登録されているイベント数
func (c *EventCalendar) Len() int {
	return len(c.ids)
}
