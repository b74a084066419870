package gateway

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/k-negishi/eventcal/internal/domain"
)

// untitled タイトルが空のイベントに付ける名前
const untitled = "（無題）"

// EventsProvider Google Calendar APIからイベント一覧を取得するポート
type EventsProvider interface {
	ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error)
}

// googleEventsProvider calendar.Service を使った EventsProvider の実装
type googleEventsProvider struct {
	service *calendar.Service
}

// ListEvents 期間内のイベントを開始時刻順に取得
func (p *googleEventsProvider) ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error) {
	events, err := p.service.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(50). // 1日の予定上限を50件に設定
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}

// GoogleCalendarRepository Google Calendar APIを使用したCalendarRepositoryの実装
type GoogleCalendarRepository struct {
	provider   EventsProvider
	calendarID string
	timezone   *time.Location
}

// NewGoogleCalendarRepository Google Calendarリポジトリを作成
func NewGoogleCalendarRepository(credentialsJSON []byte, calendarID string, timezone *time.Location) (*GoogleCalendarRepository, error) {
	// サービスアカウント認証でCalendar APIクライアントを作成
	creds, err := google.CredentialsFromJSON(
		context.Background(),
		credentialsJSON,
		calendar.CalendarReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("google認証情報の読み込みに失敗しました: %w", err)
	}

	service, err := calendar.NewService(
		context.Background(),
		option.WithCredentials(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %w", err)
	}

	return NewGoogleCalendarRepositoryWithProvider(&googleEventsProvider{service: service}, calendarID, timezone), nil
}

// NewGoogleCalendarRepositoryWithService 作成済みの calendar.Service からリポジトリを作成
func NewGoogleCalendarRepositoryWithService(service *calendar.Service, calendarID string, timezone *time.Location) *GoogleCalendarRepository {
	return NewGoogleCalendarRepositoryWithProvider(&googleEventsProvider{service: service}, calendarID, timezone)
}

// NewGoogleCalendarRepositoryWithProvider 任意の EventsProvider でリポジトリを作成
func NewGoogleCalendarRepositoryWithProvider(provider EventsProvider, calendarID string, timezone *time.Location) *GoogleCalendarRepository {
	if timezone == nil {
		timezone = time.UTC
	}
	return &GoogleCalendarRepository{
		provider:   provider,
		calendarID: calendarID,
		timezone:   timezone,
	}
}

// GetEvents 指定された日の予定を取得
func (r *GoogleCalendarRepository) GetEvents(ctx context.Context, targetDate time.Time) ([]domain.Event, error) {
	// 開始時刻: 指定日の00:00:00 - inclusive
	startTime := time.Date(
		targetDate.Year(), targetDate.Month(), targetDate.Day(),
		0, 0, 0, 0, r.timezone,
	)

	// 終了時刻: 翌日の00:00:00 - exclusive
	endTime := startTime.AddDate(0, 0, 1)

	// RFC3339形式に変換（タイムゾーン情報付き）
	timeMinStr := startTime.Format(time.RFC3339)
	timeMaxStr := endTime.Format(time.RFC3339)

	items, err := r.provider.ListEvents(ctx, r.calendarID, timeMinStr, timeMaxStr)
	if err != nil {
		return nil, fmt.Errorf("カレンダーイベントの取得に失敗しました: %w", err)
	}

	// イベントを変換
	domainEvents := make([]domain.Event, 0, len(items))
	for _, item := range items {
		domainEvent, err := r.convertToEvent(item)
		if err != nil {
			log.Printf("Warning: イベントの変換をスキップしました: %v", err)
			continue
		}
		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// eventID Google側のイベントIDから安定したUUIDを生成
//
// 同じイベントを再取得しても同じIDになるため、カレンダー上では置き換えになる。
func (r *GoogleCalendarRepository) eventID(googleID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.calendarID+"/"+googleID))
}

// convertToEvent Google Calendar APIのイベントをドメインエンティティに変換
func (r *GoogleCalendarRepository) convertToEvent(event *calendar.Event) (domain.Event, error) {
	title := event.Summary
	// タイトルが空の場合は「（無題）」に設定
	if title == "" {
		title = untitled
	}

	if event.Start == nil || (event.Start.DateTime == "" && event.Start.Date == "") {
		return domain.Event{}, fmt.Errorf("開始時刻が設定されていません")
	}
	if event.End == nil || (event.End.DateTime == "" && event.End.Date == "") {
		return domain.Event{}, fmt.Errorf("終了時刻が設定されていません")
	}

	// 開始時刻の処理
	var start time.Time
	allDay := false
	if event.Start.DateTime != "" {
		// 時刻指定ありのイベント
		t, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("開始時刻の解析に失敗しました: %w", err)
		}
		start = t.In(r.timezone)
	} else {
		// 終日イベント
		t, err := time.Parse("2006-01-02", event.Start.Date)
		if err != nil {
			return domain.Event{}, fmt.Errorf("開始日の解析に失敗しました: %w", err)
		}
		start = t
		allDay = true
	}

	// 終了時刻の処理
	var end time.Time
	if event.End.DateTime != "" {
		t, err := time.Parse(time.RFC3339, event.End.DateTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("終了時刻の解析に失敗しました: %w", err)
		}
		end = t.In(r.timezone)
	} else {
		t, err := time.Parse("2006-01-02", event.End.Date)
		if err != nil {
			return domain.Event{}, fmt.Errorf("終了日の解析に失敗しました: %w", err)
		}
		end = t
	}

	domainEvent := domain.NewWithID(r.eventID(event.Id), title, start)
	if allDay {
		// Googleの終日イベントは終了日がexclusiveなので前日の23:59:59までとする
		lastDay := end.AddDate(0, 0, -1)
		if lastDay.After(start) {
			updated, err := domainEvent.SetEndDate(lastDay)
			if err != nil {
				return domain.Event{}, fmt.Errorf("終了日が不正です: %w", err)
			}
			domainEvent = updated
		}
		return domainEvent, nil
	}

	updated, err := domainEvent.SetSpan(start, end)
	if err != nil {
		return domain.Event{}, fmt.Errorf("イベント %s の期間が不正です: %w", event.Id, err)
	}
	return updated, nil
}
