package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/k-negishi/eventcal/internal/calendar"
	"github.com/k-negishi/eventcal/internal/domain"
	"github.com/k-negishi/eventcal/internal/gateway"
)

// options CLIフラグの値
type options struct {
	eventsPath string
	icsIn      string
	icsOut     string
	from       string
	to         string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Printf("eventcal: %v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("eventcal", flag.ContinueOnError)
	fs.StringVar(&opts.eventsPath, "events", "", "イベント一覧のYAMLファイル")
	fs.StringVar(&opts.icsIn, "ics-in", "", "読み込むiCalendarファイル")
	fs.StringVar(&opts.icsOut, "ics", "", "書き出すiCalendarファイル")
	fs.StringVar(&opts.from, "from", "", "範囲の開始 (YYYY-MM-DDTHH:MM:SS)")
	fs.StringVar(&opts.to, "to", "", "範囲の終了 (YYYY-MM-DDTHH:MM:SS)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.eventsPath == "" && opts.icsIn == "" {
		return opts, errors.New("-events または -ics-in を指定してください")
	}
	return opts, nil
}

// run イベントを読み込み、範囲内のイベントを1行1件のJSONで出力する
func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cal := calendar.New()
	codec := gateway.NewICSCodec()

	if opts.eventsPath != "" {
		if err := loadInto(cal, opts.eventsPath, gateway.LoadEventsYAML); err != nil {
			return err
		}
	}
	if opts.icsIn != "" {
		if err := loadInto(cal, opts.icsIn, codec.ImportICS); err != nil {
			return err
		}
	}

	first, ok := cal.FirstEvent()
	if !ok {
		fmt.Fprintln(stdout, "イベントがありません")
		return nil
	}
	fmt.Fprintf(stdout, "first: %s\n", first.Serialize())

	from, to, err := resolveRange(opts, cal)
	if err != nil {
		return err
	}
	for event := range cal.EventsInRange(from, to) {
		fmt.Fprintln(stdout, event.Serialize())
	}

	if opts.icsOut != "" {
		return exportICS(codec, cal, opts.icsOut)
	}
	return nil
}

// exportICS カレンダー全体をiCalendarファイルに書き出す
func exportICS(codec *gateway.ICSCodec, cal *calendar.EventCalendar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ファイルの作成に失敗しました: %w", err)
	}
	if err := codec.ExportICS(f, cal.All()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s の書き込みに失敗しました: %w", path, err)
	}
	return nil
}

// loadInto ファイルを読み込みカレンダーに追加
func loadInto(cal *calendar.EventCalendar, path string, load func(io.Reader) ([]domain.Event, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ファイルを開けませんでした: %w", err)
	}
	defer f.Close()

	events, err := load(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	replaced := 0
	for _, e := range events {
		if !cal.AddEvent(e) {
			replaced++
		}
	}
	log.Printf("%s から %d件読み込みました (置き換え %d件)", path, len(events), replaced)
	return nil
}

// resolveRange 指定がなければ最初のイベントの開始から最後のイベントの終了まで
func resolveRange(opts options, cal *calendar.EventCalendar) (time.Time, time.Time, error) {
	var from, to time.Time
	for e := range cal.All() {
		if from.IsZero() {
			from = e.Start()
		}
		if e.End().After(to) {
			to = e.End()
		}
	}

	var err error
	if opts.from != "" {
		if from, err = time.ParseInLocation(domain.TimestampLayout, opts.from, time.UTC); err != nil {
			return from, to, fmt.Errorf("-from の解析に失敗しました: %w", err)
		}
	}
	if opts.to != "" {
		if to, err = time.ParseInLocation(domain.TimestampLayout, opts.to, time.UTC); err != nil {
			return from, to, fmt.Errorf("-to の解析に失敗しました: %w", err)
		}
	}
	return from, to, nil
}
