package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/csv-sentiment/internal/application"
	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/sentiment"
)

// TimestampLayout is used for timestamps generated at classification time.
const TimestampLayout = time.RFC3339Nano

const previewRows = 5

// Service implements the batch scoring use-case. It keeps no state between
// calls and is safe for concurrent use.
type Service struct {
	Classifier Classifier
	Clock      application.Clock
	// Archive is optional; nil disables upload archiving.
	Archive domain.UploadArchive
	Logger  *slog.Logger
	// MaxUploadBytes caps a single upload; 0 means unlimited.
	MaxUploadBytes int64
}

// AnalyzeCommand carries one uploaded CSV.
type AnalyzeCommand struct {
	Subject  string
	Filename string
	Data     []byte
}

type AnalyzeResult struct {
	BatchID    string          `json:"-"`
	Results    []domain.Record `json:"results"`
	Counts     domain.Counts   `json:"-"`
	ArchiveURL string          `json:"-"`
}

// Analyze archives the upload (if configured) and scores it. The returned
// error is a *domain.ValidationError or *domain.ProcessingError.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	batchID := uuid.NewString()
	log := s.logger().With(slog.String("batch_id", batchID), slog.String("subject", cmd.Subject))

	if s.MaxUploadBytes > 0 && int64(len(cmd.Data)) > s.MaxUploadBytes {
		return AnalyzeResult{BatchID: batchID}, &domain.ValidationError{
			Err: fmt.Errorf("%w (%d bytes)", domain.ErrUploadTooLarge, s.MaxUploadBytes),
		}
	}

	var archiveURL string
	if s.Archive != nil {
		key := archiveKey(cmd.Subject, s.Clock.Now(), batchID)
		url, err := s.Archive.Archive(ctx, key, cmd.Data)
		if err != nil {
			log.Warn("upload archive failed", slog.String("key", key), slog.String("error", err.Error()))
		} else {
			archiveURL = url
		}
	}

	records, err := s.process(bytes.NewReader(cmd.Data), log)
	if err != nil {
		log.Warn("batch failed", slog.String("filename", cmd.Filename), slog.String("error", err.Error()))
		return AnalyzeResult{BatchID: batchID, ArchiveURL: archiveURL}, err
	}

	counts := domain.CountLabels(records)
	log.Info("batch scored",
		slog.String("filename", cmd.Filename),
		slog.Int("rows", counts.Total),
		slog.Int("positive", counts.Positive),
		slog.Int("negative", counts.Negative),
		slog.Int("neutral", counts.Neutral),
	)
	return AnalyzeResult{BatchID: batchID, Results: records, Counts: counts, ArchiveURL: archiveURL}, nil
}

// Process scores a CSV stream and returns one record per data row, in input
// order. Any failing row fails the whole batch.
func (s *Service) Process(r io.Reader) ([]domain.Record, error) {
	return s.process(r, s.logger())
}

func (s *Service) process(r io.Reader, log *slog.Logger) ([]domain.Record, error) {
	table, err := domain.ParseTable(r)
	if err != nil {
		return nil, err
	}
	logTable(log, table)

	records := make([]domain.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		ts := row.Timestamp
		if ts == "" {
			ts = s.Clock.Now().UTC().Format(TimestampLayout)
		}
		records = append(records, domain.Record{
			ID:        row.ID,
			Text:      row.Text,
			Sentiment: s.Classifier.Classify(row.Text),
			Timestamp: ts,
		})
	}
	return records, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func logTable(log *slog.Logger, t *domain.Table) {
	log.Info("parsed upload", slog.Any("columns", t.Columns), slog.Int("rows", len(t.Rows)))
	n := min(len(t.Rows), previewRows)
	for i := 0; i < n; i++ {
		row := t.Rows[i]
		log.Debug("row",
			slog.Int("index", i),
			slog.Int64("id", row.ID),
			slog.String("text", row.Text),
			slog.String("timestamp", row.Timestamp),
		)
	}
}

// archiveKey → uploads/<subject>/<yyyy>/<mm>/<dd>/<batch>.csv
func archiveKey(subject string, now time.Time, batchID string) string {
	if subject == "" {
		subject = "-"
	}
	return fmt.Sprintf("uploads/%s/%s/%s.csv", subject, now.UTC().Format("2006/01/02"), batchID)
}
