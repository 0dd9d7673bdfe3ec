package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hotelapi/internal/storage"
)

const reportPrefix = "reports/"

var (
	ErrReportNotFound    = fmt.Errorf("report %w", ErrNotFound)
	ErrInvalidReportName = errors.New("invalid report name")
)

var reportHeader = []string{"id", "room_number", "employee_id", "priority", "date_added"}

// Report describes an exported snapshot of the cleaning queue.
type Report struct {
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportService exports the cleaning queue to object storage.
type ReportService interface {
	// ExportQueue writes the whole queue as CSV and returns a presigned download link.
	ExportQueue(ctx context.Context) (*Report, error)
	// Open streams a previously exported report by name.
	Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error)
}

type reportService struct {
	cleanings CleaningService
	store     storage.Storage
	expiry    time.Duration
	now       func() time.Time
}

// NewReportService constructs a ReportService. A nil now uses time.Now.
func NewReportService(cleanings CleaningService, store storage.Storage, expiry time.Duration, now func() time.Time) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{cleanings: cleanings, store: store, expiry: expiry, now: now}
}

func (s *reportService) ExportQueue(ctx context.Context) (rep *Report, err error) {
	ctx, span := tracer.Start(ctx, "ReportService.ExportQueue")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	rows := 0
	for page := (Page{Size: MaxPageSize}); ; page.Index++ {
		res, err := s.cleanings.ListCleanings(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("list cleanings: %w", err)
		}
		for _, t := range res.Items {
			rec := []string{
				strconv.FormatInt(t.ID, 10),
				strconv.Itoa(t.RoomNumber),
				strconv.Itoa(t.EmployeeID),
				strconv.Itoa(t.Priority),
				strconv.FormatInt(t.DateAdded, 10),
			}
			if err := w.Write(rec); err != nil {
				return nil, fmt.Errorf("write report: %w", err)
			}
		}
		rows += len(res.Items)
		if len(res.Items) < page.Size || rows >= res.Total {
			break
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	created := s.now()
	name := fmt.Sprintf("cleanings-%d.csv", created.UnixMilli())
	key := reportPrefix + name
	span.SetAttributes(attribute.String("report.key", key), attribute.Int("report.rows", rows))

	if _, err := s.store.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
		Metadata:    map[string]string{"rows": strconv.Itoa(rows)},
	}); err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, s.expiry)
	if err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			return nil, fmt.Errorf("presign report: %w; cleanup failed: %v", err, derr)
		}
		return nil, fmt.Errorf("presign report: %w", err)
	}

	return &Report{Name: name, Key: key, URL: url, Rows: rows, CreatedAt: created}, nil
}

func (s *reportService) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Open", trace.WithAttributes(attribute.String("report.name", name)))
	defer span.End()

	if ok, _ := path.Match("cleanings-*.csv", name); !ok {
		return nil, storage.ObjectInfo{}, ErrInvalidReportName
	}

	rc, info, err := s.store.Get(ctx, reportPrefix+name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ObjectInfo{}, ErrReportNotFound
		}
		span.RecordError(err)
		return nil, storage.ObjectInfo{}, fmt.Errorf("open report: %w", err)
	}
	return rc, info, nil
}
