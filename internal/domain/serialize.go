package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// eventJSON シリアライズ形式。フィールドの並びがそのままキーの順序になる
type eventJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Name  string `json:"name"`
	ID    string `json:"id"`
}

// MarshalJSON {"start","end","name","id"} の順で出力
func (e Event) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(eventJSON{
		Start: e.start.Format(TimestampLayout),
		End:   e.end.Format(TimestampLayout),
		Name:  e.name,
		ID:    e.id.String(),
	}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Serialize イベントをJSON文字列に変換
func (e Event) Serialize() string {
	b, err := e.MarshalJSON()
	if err != nil {
		// 文字列と固定フォーマットのみなので失敗しない
		panic(fmt.Sprintf("イベントのシリアライズに失敗しました: %v", err))
	}
	return string(b)
}

// UnmarshalJSON MarshalJSON の逆変換。開始・終了の組み合わせも検証する
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("イベントJSONの解析に失敗しました: %w", err)
	}

	start, err := time.ParseInLocation(TimestampLayout, raw.Start, time.UTC)
	if err != nil {
		return fmt.Errorf("開始日時の解析に失敗しました: %w", err)
	}
	end, err := time.ParseInLocation(TimestampLayout, raw.End, time.UTC)
	if err != nil {
		return fmt.Errorf("終了日時の解析に失敗しました: %w", err)
	}
	id, err := ParseID(raw.ID)
	if err != nil {
		return err
	}

	parsed, err := NewWithID(id, raw.Name, start).SetSpan(start, end)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
