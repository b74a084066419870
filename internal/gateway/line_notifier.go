package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/k-negishi/eventcal/internal/domain"
)

// LINENotifier LINE Messaging APIを使用したNotifierの実装
type LINENotifier struct {
	channelAccessToken string
	userID             string
	httpClient         *http.Client
	endpoint           string
	clock              func() time.Time
	timezone           *time.Location
}

// lineMessage LINE APIに送信するメッセージ構造体
type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// linePushRequest LINE Push APIのリクエスト構造体
type linePushRequest struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

// lineErrorResponse LINE APIのエラーレスポンス構造体
type lineErrorResponse struct {
	Message string `json:"message"`
	Details []struct {
		Message  string `json:"message"`
		Property string `json:"property"`
	} `json:"details"`
}

// NewLINENotifier LINE通知クライアントを作成
//
// timezone は「本日」「翌日」の日付を決めるために使う。
func NewLINENotifier(channelAccessToken, userID string, timezone *time.Location) *LINENotifier {
	if timezone == nil {
		timezone = time.UTC
	}
	return &LINENotifier{
		channelAccessToken: channelAccessToken,
		userID:             userID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint: "https://api.line.me/v2/bot/message/push",
		clock:    time.Now,
		timezone: timezone,
	}
}

// SendScheduleNotification カレンダー予定をLINEで通知
func (n *LINENotifier) SendScheduleNotification(ctx context.Context, todayEvents, tomorrowEvents []domain.Event) error {
	// 通知メッセージを作成
	message := n.buildScheduleMessage(todayEvents, tomorrowEvents)

	// LINE Push APIでメッセージを送信
	return n.sendPushMessage(ctx, message)
}

// buildScheduleMessage 予定通知用のメッセージを構築
func (n *LINENotifier) buildScheduleMessage(todayEvents, tomorrowEvents []domain.Event) string {
	var messageBuilder strings.Builder
	today := n.clock().In(n.timezone)

	messageBuilder.WriteString("Event Calendar Notifier\n\n")

	// 本日の予定
	appendDaySection(&messageBuilder, "本日", today, todayEvents)

	messageBuilder.WriteString("\n\n")

	// 翌日の予定
	appendDaySection(&messageBuilder, "翌日", today.AddDate(0, 0, 1), tomorrowEvents)

	return messageBuilder.String()
}

// appendDaySection 1日分の見出しと予定をメッセージに追加
func appendDaySection(builder *strings.Builder, label string, date time.Time, events []domain.Event) {
	dow := getWeekdayJapanese(date.Weekday())
	if len(events) == 0 {
		builder.WriteString(fmt.Sprintf("%s %s(%s): 予定なし\n", label, date.Format("1/2"), dow))
		return
	}

	builder.WriteString(fmt.Sprintf("%s %s(%s) (%d件):\n", label, date.Format("1/2"), dow, len(events)))
	for _, event := range events {
		appendEventToMessage(builder, event)
	}
}

// appendEventToMessage イベントをメッセージに追加
func appendEventToMessage(builder *strings.Builder, event domain.Event) {
	if event.IsAllDay() {
		builder.WriteString(fmt.Sprintf("🔸 %s (終日)\n", event.Name()))
		return
	}

	// 日をまたぐ予定は終了側に日付も付ける
	endLayout := "15:04"
	if !domain.DayStart(event.Start()).Equal(domain.DayStart(event.End())) {
		endLayout = "1/2 15:04"
	}
	timeRange := fmt.Sprintf("%s〜%s",
		event.Start().Format("15:04"),
		event.End().Format(endLayout))
	builder.WriteString(fmt.Sprintf("🔸 %s %s\n", timeRange, event.Name()))
}

// sendPushMessage LINE Push APIでメッセージを送信
func (n *LINENotifier) sendPushMessage(ctx context.Context, message string) error {
	// リクエストボディを作成
	pushRequest := linePushRequest{
		To: n.userID,
		Messages: []lineMessage{
			{
				Type: "text",
				Text: message,
			},
		},
	}

	requestBody, err := json.Marshal(pushRequest)
	if err != nil {
		return fmt.Errorf("リクエストボディのJSON変換に失敗しました: %w", err)
	}

	// HTTPリクエストを作成
	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		n.endpoint,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	// ヘッダーを設定
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", n.channelAccessToken))

	// APIリクエストを送信
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("LINE APIリクエストの送信に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	// レスポンスを確認
	if resp.StatusCode != http.StatusOK {
		// エラーレスポンスの詳細を取得
		var errorResponse lineErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errorResponse); err != nil {
			return fmt.Errorf("LINE API呼び出しが失敗しました (Status: %d, レスポンス解析不可: %v)", resp.StatusCode, err)
		}

		errorDetails := errorResponse.Message
		if len(errorResponse.Details) > 0 {
			errorDetails += fmt.Sprintf(" (詳細: %s)", errorResponse.Details[0].Message)
		}

		return fmt.Errorf("LINE API呼び出しが失敗しました (Status: %d): %s", resp.StatusCode, errorDetails)
	}

	return nil
}

// getWeekdayJapanese 曜日を日本語に変換
func getWeekdayJapanese(weekday time.Weekday) string {
	weekdays := map[time.Weekday]string{
		time.Sunday:    "日",
		time.Monday:    "月",
		time.Tuesday:   "火",
		time.Wednesday: "水",
		time.Thursday:  "木",
		time.Friday:    "金",
		time.Saturday:  "土",
	}
	return weekdays[weekday]
}
