package gateway

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/k-negishi/eventcal/internal/domain"
)

const (
	yamlDateLayout  = "2006-01-02"
	yamlClockLayout = "15:04:05"
)

// yamlEvent YAMLファイル上のイベント定義
//
//	events:
//	  - name: 朝会
//	    date: 2024-01-15
//	    start: "09:00:00"
//	    end: "09:30:00"
type yamlEvent struct {
	ID      string `yaml:"id,omitempty"`
	Name    string `yaml:"name"`
	Date    string `yaml:"date"`
	EndDate string `yaml:"end_date,omitempty"`
	Start   string `yaml:"start,omitempty"`
	End     string `yaml:"end,omitempty"`
}

type yamlEventFile struct {
	Events []yamlEvent `yaml:"events"`
}

// LoadEventsYAML YAMLのイベント一覧を読み込む
//
// start / end を省略すると終日 (00:00:00 / 23:59:59) になる。
// end_date を指定すると終了日だけを変更する。
func LoadEventsYAML(r io.Reader) ([]domain.Event, error) {
	var file yamlEventFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return []domain.Event{}, nil
		}
		return nil, fmt.Errorf("YAMLの解析に失敗しました: %w", err)
	}

	events := make([]domain.Event, 0, len(file.Events))
	for i, ye := range file.Events {
		event, err := ye.toEvent()
		if err != nil {
			return nil, fmt.Errorf("events[%d] (%s): %w", i, ye.Name, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (ye yamlEvent) toEvent() (domain.Event, error) {
	date, err := time.Parse(yamlDateLayout, ye.Date)
	if err != nil {
		return domain.Event{}, fmt.Errorf("日付の解析に失敗しました: %w", err)
	}

	event := domain.New(ye.Name, date)
	if ye.ID != "" {
		id, err := domain.ParseID(ye.ID)
		if err != nil {
			return domain.Event{}, err
		}
		event = domain.NewWithID(id, ye.Name, date)
	}

	// 終了側を先に広げてから開始を動かす
	if ye.EndDate != "" {
		endDate, err := time.Parse(yamlDateLayout, ye.EndDate)
		if err != nil {
			return domain.Event{}, fmt.Errorf("終了日の解析に失敗しました: %w", err)
		}
		if event, err = event.SetEndDate(endDate); err != nil {
			return domain.Event{}, err
		}
	}
	if ye.End != "" {
		clock, err := time.Parse(yamlClockLayout, ye.End)
		if err != nil {
			return domain.Event{}, fmt.Errorf("終了時刻の解析に失敗しました: %w", err)
		}
		if event, err = event.SetEndTime(clock); err != nil {
			return domain.Event{}, err
		}
	}
	if ye.Start != "" {
		clock, err := time.Parse(yamlClockLayout, ye.Start)
		if err != nil {
			return domain.Event{}, fmt.Errorf("開始時刻の解析に失敗しました: %w", err)
		}
		if event, err = event.SetStartTime(clock); err != nil {
			return domain.Event{}, err
		}
	}

	return event, nil
}
