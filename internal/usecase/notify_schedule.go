package usecase

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/k-negishi/eventcal/internal/calendar"
	"github.com/k-negishi/eventcal/internal/domain"
)

// CalendarRepository カレンダーからイベントを取得するポート
type CalendarRepository interface {
	GetEvents(ctx context.Context, targetDate time.Time) ([]domain.Event, error)
}

// Notifier 通知を送信するポート
type Notifier interface {
	SendScheduleNotification(ctx context.Context, todayEvents, tomorrowEvents []domain.Event) error
}

// NotifyScheduleUseCase 予定通知ユースケース
type NotifyScheduleUseCase struct {
	calendarRepo CalendarRepository
	notifier     Notifier
	events       *calendar.EventCalendar
}

// NewNotifyScheduleUseCase ユースケースを生成
//
// events が nil の場合は空のカレンダーを使う。
func NewNotifyScheduleUseCase(calendarRepo CalendarRepository, notifier Notifier, events *calendar.EventCalendar) *NotifyScheduleUseCase {
	if events == nil {
		events = calendar.New()
	}
	return &NotifyScheduleUseCase{
		calendarRepo: calendarRepo,
		notifier:     notifier,
		events:       events,
	}
}

// Execute 今日と明日の予定を取得してカレンダーに取り込み、LINE通知を送信する
func (uc *NotifyScheduleUseCase) Execute(ctx context.Context, today, tomorrow time.Time) (skipped bool, err error) {
	// 今日の予定を取得
	todayFetched, err := uc.calendarRepo.GetEvents(ctx, today)
	if err != nil {
		log.Printf("今日の予定取得に失敗しました: %v", err)
		return false, err
	}

	// 明日の予定を取得
	tomorrowFetched, err := uc.calendarRepo.GetEvents(ctx, tomorrow)
	if err != nil {
		log.Printf("明日の予定取得に失敗しました: %v", err)
		return false, err
	}

	// 両日にまたがる予定は同じIDで2回取得されるが、カレンダー上では置き換えになる
	added, replaced := uc.importEvents(todayFetched)
	a, r := uc.importEvents(tomorrowFetched)
	added, replaced = added+a, replaced+r
	log.Printf("カレンダーに予定を取り込みました: 追加=%d件, 更新=%d件, 合計=%d件", added, replaced, uc.events.Len())

	todayEvents := uc.eventsOn(today)
	tomorrowEvents := uc.eventsOn(tomorrow)

	// 予定が両日ともない場合はスキップ
	if len(todayEvents) == 0 && len(tomorrowEvents) == 0 {
		return true, nil
	}

	// LINE通知を送信
	if err := uc.notifier.SendScheduleNotification(ctx, todayEvents, tomorrowEvents); err != nil {
		log.Printf("LINE通知の送信に失敗しました: %v", err)
		return false, err
	}

	return false, nil
}

// importEvents イベントをカレンダーへ追加し、追加件数と置き換え件数を返す
func (uc *NotifyScheduleUseCase) importEvents(events []domain.Event) (added, replaced int) {
	for _, e := range events {
		if uc.events.AddEvent(e) {
			added++
		} else {
			replaced++
		}
	}
	return added, replaced
}

// eventsOn 指定日の 00:00:00〜23:59:59 に開始または終了するイベント
func (uc *NotifyScheduleUseCase) eventsOn(date time.Time) []domain.Event {
	events := slices.Collect(uc.events.EventsInRange(domain.DayStart(date), domain.DayEnd(date)))
	if events == nil {
		return []domain.Event{}
	}
	return events
}
