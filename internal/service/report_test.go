package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotelapi/internal/model"
	"hotelapi/internal/storage"
	"hotelapi/internal/storage/mocks"
)

var reportTime = time.UnixMilli(1_700_000_000_000)

func reportFixture(t *testing.T) (*hotel, *mocks.MockStorage, ReportService) {
	t.Helper()
	h := newHotel(t)
	store := new(mocks.MockStorage)
	svc := NewReportService(h.svc, store, 5*time.Minute, func() time.Time { return reportTime })
	return h, store, svc
}

func TestReportService_ExportQueue(t *testing.T) {
	const key = "reports/cleanings-1700000000000.csv"
	ctx := context.Background()

	t.Run("writes queue in order and presigns", func(t *testing.T) {
		h, store, svc := reportFixture(t)
		h.clock.Set(100)
		_, err := h.svc.ScheduleCleaning(ctx, 7, 101, 1)
		require.NoError(t, err)
		h.clock.Set(200)
		_, err = h.svc.ScheduleCleaning(ctx, 5, 202, 4)
		require.NoError(t, err)

		store.On("Put", mock.Anything, key, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.ContentType == "text/csv" && o.Metadata["rows"] == "2" && o.Size > 0
		})).Return(storage.ObjectInfo{Key: key}, nil)
		store.On("PresignGet", mock.Anything, key, 5*time.Minute).Return("http://minio/signed", nil)

		rep, err := svc.ExportQueue(ctx)

		require.NoError(t, err)
		assert.Equal(t, "cleanings-1700000000000.csv", rep.Name)
		assert.Equal(t, key, rep.Key)
		assert.Equal(t, "http://minio/signed", rep.URL)
		assert.Equal(t, 2, rep.Rows)
		require.Len(t, store.Uploaded, 1)
		assert.Equal(t,
			"id,room_number,employee_id,priority,date_added\n"+
				"2,202,5,4,200\n"+
				"1,101,7,1,100\n",
			store.Uploaded[0])
		store.AssertExpectations(t)
	})

	t.Run("pages past the maximum page size", func(t *testing.T) {
		h, store, svc := reportFixture(t)
		for n := 1000; n < 1150; n++ {
			h.store.AddRoom(n, model.StatusAvailable)
			_, err := h.svc.ScheduleCleaning(ctx, 7, n, 0)
			require.NoError(t, err)
		}

		store.On("Put", mock.Anything, key, mock.Anything).Return(storage.ObjectInfo{Key: key}, nil)
		store.On("PresignGet", mock.Anything, key, mock.Anything).Return("u", nil)

		rep, err := svc.ExportQueue(ctx)

		require.NoError(t, err)
		assert.Equal(t, 150, rep.Rows)
		assert.Len(t, strings.Split(strings.TrimSpace(store.Uploaded[0]), "\n"), 151)
	})

	t.Run("empty queue still has a header", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		store.On("Put", mock.Anything, key, mock.Anything).Return(storage.ObjectInfo{Key: key}, nil)
		store.On("PresignGet", mock.Anything, key, mock.Anything).Return("u", nil)

		rep, err := svc.ExportQueue(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, rep.Rows)
		assert.Equal(t, "id,room_number,employee_id,priority,date_added\n", store.Uploaded[0])
	})

	t.Run("upload failure", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		store.On("Put", mock.Anything, key, mock.Anything).Return(storage.ObjectInfo{}, errors.New("s3 down"))

		rep, err := svc.ExportQueue(ctx)

		assert.Nil(t, rep)
		assert.EqualError(t, err, "upload report: s3 down")
		store.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("presign failure removes the object", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		store.On("Put", mock.Anything, key, mock.Anything).Return(storage.ObjectInfo{Key: key}, nil)
		store.On("PresignGet", mock.Anything, key, mock.Anything).Return("", errors.New("sign fail"))
		store.On("Delete", mock.Anything, key).Return(nil)

		rep, err := svc.ExportQueue(ctx)

		assert.Nil(t, rep)
		assert.EqualError(t, err, "presign report: sign fail")
		store.AssertExpectations(t)
	})

	t.Run("presign and cleanup both fail", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		store.On("Put", mock.Anything, key, mock.Anything).Return(storage.ObjectInfo{Key: key}, nil)
		store.On("PresignGet", mock.Anything, key, mock.Anything).Return("", errors.New("sign fail"))
		store.On("Delete", mock.Anything, key).Return(errors.New("gone"))

		_, err := svc.ExportQueue(ctx)

		assert.EqualError(t, err, "presign report: sign fail; cleanup failed: gone")
	})
}

func TestReportService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the object", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		info := storage.ObjectInfo{Key: "reports/cleanings-1.csv", ContentType: "text/csv"}
		store.On("Get", mock.Anything, "reports/cleanings-1.csv").
			Return(io.NopCloser(strings.NewReader("id\n")), info, nil)

		rc, got, err := svc.Open(ctx, "cleanings-1.csv")

		require.NoError(t, err)
		defer rc.Close()
		body, _ := io.ReadAll(rc)
		assert.Equal(t, "id\n", string(body))
		assert.Equal(t, info, got)
	})

	t.Run("rejects names outside the report namespace", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		for _, name := range []string{"../secret.csv", "cleanings-1.txt", "other.csv", "cleanings-a/b.csv", ""} {
			_, _, err := svc.Open(ctx, name)
			assert.ErrorIs(t, err, ErrInvalidReportName, name)
		}
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("missing object", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		store.On("Get", mock.Anything, "reports/cleanings-2.csv").
			Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

		_, _, err := svc.Open(ctx, "cleanings-2.csv")

		assert.ErrorIs(t, err, ErrReportNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("backend error", func(t *testing.T) {
		_, store, svc := reportFixture(t)
		store.On("Get", mock.Anything, "reports/cleanings-3.csv").
			Return(nil, storage.ObjectInfo{}, errors.New("timeout"))

		_, _, err := svc.Open(ctx, "cleanings-3.csv")

		assert.EqualError(t, err, "open report: timeout")
	})
}
