package cache

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts the same six-field (with seconds) specs as the ingest scheduler.
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// TimeUntilNextRun は次回の取り込み実行時刻までの期間を返します。
// キャッシュのTTLをこの値にすると、取り込み後に古いテーブルが残りません。
func TimeUntilNextRun(spec string, now time.Time) (time.Duration, error) {
	sched, err := scheduleParser.Parse(spec)
	if err != nil {
		return 0, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	next := sched.Next(now)
	if next.IsZero() {
		return 0, fmt.Errorf("schedule %q never fires", spec)
	}
	return next.Sub(now), nil
}

// UntilNextRun はエントリ書き込みのたびに次回実行までの期間を計算する TTLFunc を返します。
// スケジュールが不正な場合はエラーを返します。
func UntilNextRun(spec string) (TTLFunc, error) {
	if _, err := scheduleParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return func(now time.Time) time.Duration {
		d, err := TimeUntilNextRun(spec, now)
		if err != nil {
			return 0
		}
		return d
	}, nil
}
