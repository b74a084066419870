package domain

import "time"

// TimestampLayout シリアライズ時の日時フォーマット (タイムゾーンなし)
const TimestampLayout = "2006-01-02T15:04:05"

// Naive 壁時計の値をそのまま保ち、秒未満を切り捨ててタイムゾーン情報を落とす
//
// ドメイン内の日時はすべてこの形 (UTC上の壁時計) で保持する。
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// DayStart その日の 00:00:00
func DayStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEnd その日の 23:59:59
func DayEnd(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, time.UTC)
}

// combine date の日付部分と clock の時刻部分を組み合わせる
func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}
