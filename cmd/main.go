package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/k-negishi/eventcal/internal/calendar"
	"github.com/k-negishi/eventcal/internal/config"
	"github.com/k-negishi/eventcal/internal/gateway"
	"github.com/k-negishi/eventcal/internal/usecase"
)

// LambdaEvent Lambda実行時のイベント構造体
type LambdaEvent struct {
	// EventBridge Schedulerからの実行なので特に使用しない
}

// LambdaResponse Lambda実行結果のレスポンス
type LambdaResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// handler Lambda関数のメインハンドラー
func handler(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {
	// 設定を読み込み
	cfg, err := config.Load()
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "設定読み込みエラー",
		}, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "タイムゾーン設定エラー",
		}, err
	}

	// Google Calendarリポジトリを初期化
	calendarRepo, err := gateway.NewGoogleCalendarRepository([]byte(cfg.GoogleCredentials), cfg.CalendarID, loc)
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "Google Calendar初期化エラー",
		}, err
	}

	// LINE通知クライアントを初期化
	lineNotifier := gateway.NewLINENotifier(cfg.LineChannelAccessToken, cfg.LineUserID, loc)

	// 呼び出しごとに新しいカレンダーを使う
	uc := usecase.NewNotifyScheduleUseCase(calendarRepo, lineNotifier, calendar.New())

	// 設定タイムゾーンで今日と明日の日付を計算
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)

	skipped, err := uc.Execute(ctx, today, tomorrow)
	if err != nil {
		log.Printf("予定通知に失敗しました: %v", err)
		return LambdaResponse{
			StatusCode: 500,
			Message:    "予定通知エラー",
		}, err
	}

	// 予定が両日ともない場合はスキップ
	if skipped {
		return LambdaResponse{
			StatusCode: 200,
			Message:    "予定なしのため通知スキップ",
		}, nil
	}

	return LambdaResponse{
		StatusCode: 200,
		Message:    "通知送信完了",
	}, nil
}

func main() {
	lambda.Start(handler)
}
