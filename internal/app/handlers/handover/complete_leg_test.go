package handover

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainagent "fleetrent/internal/domain/agent"
	domainbooking "fleetrent/internal/domain/booking"
	domainhandover "fleetrent/internal/domain/handover"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
	"fleetrent/internal/infra/storage/memory"
)

var fixedNow = time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

// stubUploader records uploaded object keys in order.
type stubUploader struct {
	keys []string
	err  error
}

func (u *stubUploader) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.keys = append(u.keys, key)
	return key, nil
}

func (u *stubUploader) EvidenceURL(ctx context.Context, key string) (string, error) {
	return "https://storage.fleetrent.test/" + key + "?signed=1", nil
}

func seedBooking(t *testing.T, factory memory.Factory, number string, status domainbooking.TripStatus) {
	t.Helper()
	rng, err := daterange.FromDays(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:          domainbooking.ID(number),
		Number:      number,
		CarID:       "car-1",
		CompanyID:   "co-1",
		CustomerID:  "cust-1",
		Range:       rng,
		RentPerDay:  money.Must(2500, "AED"),
		TotalAmount: money.Must(7500, "AED"),
		CreatedAt:   fixedNow.AddDate(0, 0, -7),
	})
	require.NoError(t, err)
	b.TripStatus = status
	require.NoError(t, factory.BookingRepo.Save(context.Background(), b))
}

func seedAssignment(t *testing.T, factory memory.Factory, number, agentID string) {
	t.Helper()
	a, err := domainagent.New(domainagent.CreateParams{
		ID:            "as-1",
		BookingNumber: number,
		AgentID:       agentID,
		CarID:         "car-1",
		CompanyID:     "co-1",
		AssignedAt:    fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.AssignmentRepo.Save(context.Background(), a))
}

func validCommand(number, leg string) CompleteLegCommand {
	return CompleteLegCommand{
		BookingNumber: number,
		Leg:           leg,
		AgentID:       "agent-1",
		Defects:       []domainhandover.DefectPoint{{Area: "rear door", Description: "dent"}},
		OdometerKM:    42000,
		FuelPercent:   80,
		Notes:         "clean",
		Signature: ImageUpload{
			FileName:    "signature.png",
			ContentType: "image/png",
			Reader:      strings.NewReader("png-bytes"),
		},
		Gallery: []ImageUpload{
			{FileName: "dent.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("jpg-bytes")},
		},
	}
}

func newHandler(factory memory.Factory, uploader *stubUploader) *CompleteLegHandler {
	return &CompleteLegHandler{
		UoWFactory: factory,
		Uploader:   uploader,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return fixedNow },
	}
}

func TestCompleteLeg(t *testing.T) {
	ctx := context.Background()

	t.Run("advances trip and stores evidence", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1", domainbooking.StatusUpcoming)
		seedAssignment(t, factory, "CR-1", "agent-1")
		uploader := &stubUploader{}

		res, err := newHandler(factory, uploader).Handle(ctx, validCommand("CR-1", "company_to_agent"))
		require.NoError(t, err)
		assert.Equal(t, string(domainbooking.StatusDelivering), res.TripStatus)
		assert.Equal(t, SyncOK, res.AssignmentSync)
		assert.Contains(t, res.SignatureName, "handover/CR-1/company_to_agent/signature-")
		require.Len(t, res.Gallery, 1)

		// Signature first, then gallery.
		require.Len(t, uploader.keys, 2)
		assert.Equal(t, res.SignatureName, uploader.keys[0])
		assert.Equal(t, res.Gallery[0], uploader.keys[1])

		saved, err := factory.BookingRepo.ByNumber(ctx, "CR-1")
		require.NoError(t, err)
		assert.Equal(t, domainbooking.StatusDelivering, saved.TripStatus)

		rec, err := factory.HandoverRepo.ByBookingAndLeg(ctx, "CR-1", domainhandover.LegCompanyToAgent)
		require.NoError(t, err)
		assert.Equal(t, "agent-1", rec.AgentID)
		assert.Equal(t, 42000, rec.OdometerKM)
		require.Len(t, rec.Defects, 1)

		mirror, err := factory.AssignmentRepo.ByBookingNumber(ctx, "CR-1")
		require.NoError(t, err)
		assert.Equal(t, domainbooking.StatusDelivering, mirror.TripStatus)
	})

	t.Run("missing assignment is not a sync failure", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1", domainbooking.StatusUpcoming)
		uploader := &stubUploader{}

		res, err := newHandler(factory, uploader).Handle(ctx, validCommand("CR-1", "company_to_agent"))
		require.NoError(t, err)
		assert.Equal(t, SyncOK, res.AssignmentSync)

		saved, err := factory.BookingRepo.ByNumber(ctx, "CR-1")
		require.NoError(t, err)
		assert.Equal(t, domainbooking.StatusDelivering, saved.TripStatus)
	})

	t.Run("no bytes uploaded for a rejected transition", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1", domainbooking.StatusUpcoming)
		uploader := &stubUploader{}

		_, err := newHandler(factory, uploader).Handle(ctx, validCommand("CR-1", "agent_to_customer"))
		assert.ErrorIs(t, err, domainhandover.ErrLegNotAllowed)
		assert.Empty(t, uploader.keys)
	})

	t.Run("no bytes uploaded for an invalid bundle", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1", domainbooking.StatusUpcoming)
		uploader := &stubUploader{}

		cmd := validCommand("CR-1", "company_to_agent")
		cmd.Defects = nil
		_, err := newHandler(factory, uploader).Handle(ctx, cmd)
		assert.ErrorIs(t, err, domainhandover.ErrDefectsRequired)
		assert.Empty(t, uploader.keys)
	})

	t.Run("rejected signature format", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1", domainbooking.StatusUpcoming)
		uploader := &stubUploader{}

		cmd := validCommand("CR-1", "company_to_agent")
		cmd.Signature.ContentType = "application/pdf"
		_, err := newHandler(factory, uploader).Handle(ctx, cmd)
		assert.ErrorIs(t, err, domainhandover.ErrSignatureFormat)
	})

	t.Run("missing signature stream", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1", domainbooking.StatusUpcoming)

		cmd := validCommand("CR-1", "company_to_agent")
		cmd.Signature = ImageUpload{}
		_, err := newHandler(factory, &stubUploader{}).Handle(ctx, cmd)
		assert.ErrorIs(t, err, ErrSignatureUpload)
	})

	t.Run("upload failure aborts the leg", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1", domainbooking.StatusUpcoming)
		uploader := &stubUploader{err: errors.New("bucket offline")}

		_, err := newHandler(factory, uploader).Handle(ctx, validCommand("CR-1", "company_to_agent"))
		require.Error(t, err)

		saved, err := factory.BookingRepo.ByNumber(ctx, "CR-1")
		require.NoError(t, err)
		assert.Equal(t, domainbooking.StatusUpcoming, saved.TripStatus)
	})

	t.Run("unknown leg name", func(t *testing.T) {
		factory := memory.NewFactory()
		_, err := newHandler(factory, &stubUploader{}).Handle(ctx, validCommand("CR-1", "customer_to_company"))
		assert.ErrorIs(t, err, domainhandover.ErrUnknownLeg)
	})

	t.Run("uploader required", func(t *testing.T) {
		handler := &CompleteLegHandler{UoWFactory: memory.NewFactory()}
		_, err := handler.Handle(ctx, validCommand("CR-1", "company_to_agent"))
		assert.ErrorIs(t, err, ErrUploaderRequired)
	})
}
