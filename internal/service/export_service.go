package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
	"finance-tracker/internal/storage"
)

const statementURLTTL = 15 * time.Minute

// Statement describes a CSV export stored in object storage.
type Statement struct {
	Key       string
	Location  string
	URL       string
	// Rows is only known for statements produced by Export.
	Rows      int
	Size      int64
	CreatedAt *time.Time
}

// ExportService writes per-user CSV statements to object storage.
type ExportService interface {
	Export(ctx context.Context, userID string, r *domain.DateRange) (*Statement, error)
	List(ctx context.Context, userID string) ([]Statement, error)
	Purge(ctx context.Context, userID string) (int, error)
}

// ExportOptions names the bucket layout; an empty bucket disables exports.
type ExportOptions struct {
	Bucket    string
	KeyPrefix string
	Location  *time.Location
}

type exportService struct {
	txs    repository.TransactionRepository
	store  storage.Service
	opts   ExportOptions
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewExportService(txs repository.TransactionRepository, store storage.Service, opts ExportOptions, logger logrus.FieldLogger) ExportService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &exportService{
		txs:    txs,
		store:  store,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

func (s *exportService) enabled() bool {
	return s.store != nil && s.opts.Bucket != ""
}

func (s *exportService) userPrefix(userID string) string {
	return path.Join(strings.Trim(s.opts.KeyPrefix, "/"), userID) + "/"
}

func (s *exportService) Export(ctx context.Context, userID string, r *domain.DateRange) (*Statement, error) {
	if !s.enabled() {
		return nil, domain.ErrExportUnavailable
	}

	txs, err := s.txs.ListByUser(ctx, userID, r)
	if err != nil {
		return nil, domain.Internal(err)
	}

	body, err := RenderCSV(txs, s.opts.Location)
	if err != nil {
		return nil, domain.Internal(err)
	}

	now := s.now()
	key := s.userPrefix(userID) + fmt.Sprintf("%s-%s.csv", now.UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	location, err := s.store.PutObject(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.opts.Bucket,
		Key:         key,
		ContentType: "text/csv",
	})
	if err != nil {
		return nil, domain.Internal(err)
	}

	url, err := s.store.GetObjectURL(ctx, s.opts.Bucket, key, statementURLTTL)
	if err != nil {
		return nil, domain.Internal(err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"key":     key,
		"rows":    len(txs),
	}).Info("statement exported")

	return &Statement{
		Key:       key,
		Location:  location,
		URL:       url,
		Rows:      len(txs),
		Size:      int64(len(body)),
		CreatedAt: &now,
	}, nil
}

func (s *exportService) List(ctx context.Context, userID string) ([]Statement, error) {
	if !s.enabled() {
		return nil, domain.ErrExportUnavailable
	}
	objects, err := s.store.ListObjects(ctx, s.opts.Bucket, s.userPrefix(userID))
	if err != nil {
		return nil, domain.Internal(err)
	}

	out := make([]Statement, 0, len(objects))
	for _, obj := range objects {
		url, err := s.store.GetObjectURL(ctx, s.opts.Bucket, obj.Key, statementURLTTL)
		if err != nil {
			return nil, domain.Internal(err)
		}
		out = append(out, Statement{
			Key:       obj.Key,
			Location:  fmt.Sprintf("s3://%s/%s", s.opts.Bucket, obj.Key),
			URL:       url,
			Size:      obj.Size,
			CreatedAt: obj.LastModified,
		})
	}
	return out, nil
}

func (s *exportService) Purge(ctx context.Context, userID string) (int, error) {
	if !s.enabled() {
		return 0, domain.ErrExportUnavailable
	}
	n, err := s.store.DeletePrefix(ctx, s.opts.Bucket, s.userPrefix(userID))
	if err != nil {
		return n, domain.Internal(err)
	}
	return n, nil
}

// RenderCSV writes txs as a statement with a header row. Dates are calendar
// days in loc and amounts are plain decimals.
func RenderCSV(txs []domain.Transaction, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "date", "type", "amount", "description"}); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.Date.In(loc).Format(time.DateOnly),
			string(tx.Kind),
			tx.Amount.String(),
			tx.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
