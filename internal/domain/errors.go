package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidStartTime 開始時刻が終了時刻より前でない
	ErrInvalidStartTime = errors.New("開始日時は終了日時より前である必要があります")

	// ErrInvalidEndTime 終了時刻が開始時刻より後でない
	ErrInvalidEndTime = errors.New("終了日時は開始日時より後である必要があります")

	// ErrInvalidID 識別子の文字列が解析できない
	ErrInvalidID = errors.New("イベントIDの形式が不正です")
)

// ParseID 文字列をイベントIDに変換
//
// 解析できない場合は ErrInvalidID をラップしたエラーを返す。
// 「見つからない」とは別のエラーとして呼び出し側で扱うこと。
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %v", ErrInvalidID, s, err)
	}
	return id, nil
}
