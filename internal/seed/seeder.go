// Package seed は起動時にカタログAPIへ参照データ（カテゴリ、割引、税、仕入先）を投入する。
//
// 投入は1件ずつ独立しており、失敗しても次のレコードに進む。
// 結果はReportに集約され、起動処理やサーバーの待ち受けを妨げない。
package seed

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nao1215/catalogfront/pkg/catalogapi"
	"github.com/nao1215/catalogfront/pkg/metrics"
)

// Outcome はレコード1件の投入結果。
type Outcome struct {
	Kind       string
	Name       string
	StatusCode int
	Err        error
}

// OK は投入が2xxで受理されたかを返す。
func (o Outcome) OK() bool {
	return o.Err == nil && o.StatusCode >= 200 && o.StatusCode < 300
}

// Report は投入結果の一覧。
type Report struct {
	Outcomes []Outcome
}

// Succeeded は受理された件数を返す。
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed は受理されなかった件数を返す。
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Seeder は参照データの投入を行う。
type Seeder struct {
	api     *catalogapi.Client
	records []Record
	timeout time.Duration
	logger  logrus.FieldLogger
	metrics *metrics.Registry
}

// NewSeeder は新しいSeederを生成する。timeoutはレコード1件あたりの上限。
func NewSeeder(api *catalogapi.Client, timeout time.Duration, logger logrus.FieldLogger, m *metrics.Registry) *Seeder {
	return &Seeder{
		api:     api,
		records: DefaultRecords(),
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

// Run は全レコードを順に投入し、結果を返す。ctxが終了した時点で残りは投入しない。
func (s *Seeder) Run(ctx context.Context) Report {
	report := Report{Outcomes: make([]Outcome, 0, len(s.records))}

	for _, rec := range s.records {
		if ctx.Err() != nil {
			break
		}
		outcome := s.post(ctx, rec)
		report.Outcomes = append(report.Outcomes, outcome)

		entry := s.logger.WithFields(logrus.Fields{
			"kind":   outcome.Kind,
			"name":   outcome.Name,
			"status": outcome.StatusCode,
		})
		label := metrics.OutcomeOK
		switch {
		case outcome.Err != nil:
			label = metrics.OutcomeNetworkError
			entry.WithError(outcome.Err).Debug("初期データの投入に失敗")
		case !outcome.OK():
			label = metrics.OutcomeRejected
			entry.Debug("初期データが受理されませんでした")
		default:
			entry.Debug("初期データを投入しました")
		}
		if s.metrics != nil {
			s.metrics.SeedRecords.WithLabelValues(outcome.Kind, label).Inc()
		}
	}

	s.logger.WithFields(logrus.Fields{
		"succeeded": report.Succeeded(),
		"failed":    report.Failed(),
	}).Info("初期データの投入が完了しました")
	return report
}

func (s *Seeder) post(ctx context.Context, rec Record) Outcome {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	outcome := Outcome{Kind: rec.Kind, Name: rec.Name}
	resp, err := s.api.PostRecord(ctx, rec.Path, rec.Body)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.StatusCode = resp.StatusCode
	return outcome
}
