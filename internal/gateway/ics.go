package gateway

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/k-negishi/eventcal/internal/domain"
)

const (
	icsDateLayout         = "20060102"
	icsFloatingTimeLayout = "20060102T150405"
	icsUTCTimeLayout      = "20060102T150405Z"
)

// icsNamespace UUID形式でないUIDからIDを導出するための名前空間
var icsNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:eventcal:ics"))

// ICSCodec カレンダーとiCalendar (RFC 5545) 形式の相互変換
type ICSCodec struct {
	productID string
	clock     func() time.Time
}

// NewICSCodec iCalendarコーデックを作成
func NewICSCodec() *ICSCodec {
	return &ICSCodec{
		productID: "-//k-negishi//eventcal//JA",
		clock:     time.Now,
	}
}

// ExportICS イベントをVCALENDARとして書き出す
//
// 日時はタイムゾーンなしのフローティング時刻で出力する。
// 終日イベントは VALUE=DATE で、終了日は翌日 (exclusive) になる。
func (c *ICSCodec) ExportICS(w io.Writer, events iter.Seq[domain.Event]) error {
	cal := ical.NewCalendar()
	cal.SetProductId(c.productID)
	cal.SetMethod(ical.MethodPublish)

	stamp := c.clock().UTC()
	for event := range events {
		ve := cal.AddEvent(event.ID().String())
		ve.SetDtStampTime(stamp)
		ve.SetSummary(event.Name())

		if event.IsAllDay() {
			dateValue := ical.WithValue(string(ical.ValueDataTypeDate))
			ve.SetProperty(ical.ComponentPropertyDtStart, event.Start().Format(icsDateLayout), dateValue)
			ve.SetProperty(ical.ComponentPropertyDtEnd, event.End().AddDate(0, 0, 1).Format(icsDateLayout), dateValue)
			continue
		}
		ve.SetProperty(ical.ComponentPropertyDtStart, event.Start().Format(icsFloatingTimeLayout))
		ve.SetProperty(ical.ComponentPropertyDtEnd, event.End().Format(icsFloatingTimeLayout))
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("iCalendarの書き出しに失敗しました: %w", err)
	}
	return nil
}

// ImportICS VCALENDARからイベントを読み込む
//
// 期間が不正なVEVENTは警告を出して読み飛ばす。
func (c *ICSCodec) ImportICS(r io.Reader) ([]domain.Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("iCalendarの解析に失敗しました: %w", err)
	}

	events := make([]domain.Event, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		event, err := convertVEvent(ve)
		if err != nil {
			log.Printf("Warning: VEVENTの変換をスキップしました: %v", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// convertVEvent VEVENTをドメインエンティティに変換
func convertVEvent(ve *ical.VEvent) (domain.Event, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return domain.Event{}, errors.New("UIDが設定されていません")
	}
	id := icsEventID(uidProp.Value)

	name := untitled
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && p.Value != "" {
		name = p.Value
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return domain.Event{}, fmt.Errorf("UID %s: DTSTARTが設定されていません", uidProp.Value)
	}
	start, allDay, err := parseICSValue(startProp.Value)
	if err != nil {
		return domain.Event{}, fmt.Errorf("UID %s: DTSTARTの解析に失敗しました: %w", uidProp.Value, err)
	}

	event := domain.NewWithID(id, name, start)

	endProp := ve.GetProperty(ical.ComponentPropertyDtEnd)
	if endProp == nil {
		// DTENDなしの終日イベントは1日分、時刻指定は終日扱いにせず拒否
		if allDay {
			return event, nil
		}
		return domain.Event{}, fmt.Errorf("UID %s: DTENDが設定されていません", uidProp.Value)
	}
	end, endAllDay, err := parseICSValue(endProp.Value)
	if err != nil {
		return domain.Event{}, fmt.Errorf("UID %s: DTENDの解析に失敗しました: %w", uidProp.Value, err)
	}

	if allDay && endAllDay {
		// 終了日はexclusive
		lastDay := end.AddDate(0, 0, -1)
		if !lastDay.After(start) {
			return event, nil
		}
		return event.SetEndDate(lastDay)
	}

	event, err = event.SetSpan(start, end)
	if err != nil {
		return domain.Event{}, fmt.Errorf("UID %s: %w", uidProp.Value, err)
	}
	return event, nil
}

// icsEventID UIDがUUID形式ならそのまま、そうでなければUIDから導出
func icsEventID(uid string) uuid.UUID {
	if id, err := uuid.Parse(uid); err == nil {
		return id
	}
	return uuid.NewSHA1(icsNamespace, []byte(uid))
}

// parseICSValue DATE / DATE-TIME の値を解析し、DATEかどうかを返す
//
// UTC指定 (Z) の時刻も壁時計の値をそのまま使う。
func parseICSValue(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, false, errors.New("値が空です")
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse(icsUTCTimeLayout, v)
		return t, false, err
	case strings.Contains(v, "T"):
		t, err := time.ParseInLocation(icsFloatingTimeLayout, v, time.UTC)
		return t, false, err
	default:
		t, err := time.ParseInLocation(icsDateLayout, v, time.UTC)
		return t, true, err
	}
}
