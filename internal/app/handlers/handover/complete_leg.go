package handover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/middleware"
	"fleetrent/internal/app/outbox"
	"fleetrent/internal/app/uow"
	domainagent "fleetrent/internal/domain/agent"
	domainhandover "fleetrent/internal/domain/handover"
	"fleetrent/internal/infra/storage/s3"
)

const completeLegKey = "handover.leg.complete"

// Assignment sync outcomes mirrored from the booking handlers.
const (
	SyncOK     = "success"
	SyncFailed = "failed"
)

var (
	ErrUnitOfWorkRequired = errors.New("handover: unit of work required")
	ErrUploaderRequired   = errors.New("handover: artifact uploader unavailable")
	ErrSignatureUpload    = errors.New("handover: signature upload is required")
)

// ImageUpload is a caller-supplied artifact stream.
type ImageUpload struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

func (u ImageUpload) empty() bool { return u.Reader == nil }

type CompleteLegCommand struct {
	BookingNumber   string
	Leg             string
	AgentID         string
	Defects         []domainhandover.DefectPoint
	OdometerKM      int
	FuelPercent     int
	Notes           string
	Signature       ImageUpload
	Gallery         []ImageUpload
	IdempotencyKeyV string
}

func (c CompleteLegCommand) Key() string { return completeLegKey }

func (c CompleteLegCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CompleteLegCommand) ResultPrototype() any { return &CompleteLegResult{} }

type CompleteLegResult struct {
	BookingNumber  string   `json:"booking_number"`
	Leg            string   `json:"leg"`
	TripStatus     string   `json:"trip_status"`
	SignatureName  string   `json:"signature"`
	Gallery        []string `json:"defect_gallery"`
	AssignmentSync string   `json:"assignment_sync"`
}

type CompleteLegHandler struct {
	UoWFactory     uow.UoWFactory
	Uploader       s3.Uploader
	Outbox         outbox.Outbox
	Encoder        outbox.EventEncoder
	SignatureTypes []string
	Logger         *slog.Logger
	Now            func() time.Time
}

func (h *CompleteLegHandler) Handle(ctx context.Context, cmd CompleteLegCommand) (*CompleteLegResult, error) {
	if h.Uploader == nil {
		return nil, ErrUploaderRequired
	}
	leg, err := domainhandover.ParseLeg(cmd.Leg)
	if err != nil {
		return nil, err
	}

	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		if injector, ok := unit.(interface {
			InjectContext(context.Context) context.Context
		}); ok {
			ctx = injector.InjectContext(ctx)
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	if cmd.Signature.empty() {
		return nil, ErrSignatureUpload
	}
	artifacts := domainhandover.Artifacts{
		Defects:     cmd.Defects,
		OdometerKM:  cmd.OdometerKM,
		FuelPercent: cmd.FuelPercent,
		Notes:       cmd.Notes,
		Signature: domainhandover.ImageRef{
			Name:        objectName(cmd.BookingNumber, string(leg), "signature", cmd.Signature.FileName, now),
			ContentType: cmd.Signature.ContentType,
		},
	}
	for i, img := range cmd.Gallery {
		if img.empty() {
			continue
		}
		artifacts.Gallery = append(artifacts.Gallery, domainhandover.ImageRef{
			Name:        objectName(cmd.BookingNumber, string(leg), fmt.Sprintf("defect-%d", i), img.FileName, now),
			ContentType: img.ContentType,
		})
	}
	if err := artifacts.Validate(h.SignatureTypes); err != nil {
		return nil, err
	}

	booking, err := unit.Bookings().ByNumber(ctx, cmd.BookingNumber)
	if err != nil {
		return nil, err
	}
	// Validate the transition before any byte is uploaded.
	if !leg.AllowedFrom(booking.TripStatus) {
		return nil, domainhandover.ErrLegNotAllowed
	}

	if _, err := h.Uploader.Upload(ctx, artifacts.Signature.Name, cmd.Signature.Reader, cmd.Signature.ContentType); err != nil {
		return nil, fmt.Errorf("upload signature: %w", err)
	}
	galleryIdx := 0
	for _, img := range cmd.Gallery {
		if img.empty() {
			continue
		}
		ref := artifacts.Gallery[galleryIdx]
		galleryIdx++
		if _, err := h.Uploader.Upload(ctx, ref.Name, img.Reader, img.ContentType); err != nil {
			return nil, fmt.Errorf("upload defect image: %w", err)
		}
	}

	if err := leg.Apply(booking, now); err != nil {
		return nil, err
	}

	record := &domainhandover.Record{
		BookingNumber: booking.Number,
		Leg:           leg,
		CarID:         booking.CarID,
		CompanyID:     booking.CompanyID,
		CustomerID:    booking.CustomerID,
		AgentID:       cmd.AgentID,
		Defects:       artifacts.Defects,
		OdometerKM:    artifacts.OdometerKM,
		FuelPercent:   artifacts.FuelPercent,
		Notes:         artifacts.Notes,
		Signature:     artifacts.Signature,
		DefectGallery: artifacts.Gallery,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := unit.Handovers().Upsert(ctx, record); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}

	booking.Record(domainhandover.LegCompleted{
		BookingNumber: booking.Number,
		Leg:           leg,
		NewStatus:     booking.TripStatus,
		AgentID:       cmd.AgentID,
		At:            now,
	})
	pending := booking.PendingEvents()
	booking.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	// Mirror write, after the booking. Failure leaves the booking
	// transition in place, and a booking with no assignment record
	// has nothing to mirror.
	sync := SyncOK
	if err := unit.Assignments().SyncTripStatus(ctx, booking.Number, booking.TripStatus); err != nil &&
		!errors.Is(err, domainagent.ErrAssignmentNotFound) {
		sync = SyncFailed
		if h.Logger != nil {
			h.Logger.Warn("assignment status sync failed", "booking_number", booking.Number, "leg", leg, "error", err)
		}
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	gallery := make([]string, 0, len(artifacts.Gallery))
	for _, ref := range artifacts.Gallery {
		gallery = append(gallery, ref.Name)
	}
	return &CompleteLegResult{
		BookingNumber:  booking.Number,
		Leg:            string(leg),
		TripStatus:     string(booking.TripStatus),
		SignatureName:  artifacts.Signature.Name,
		Gallery:        gallery,
		AssignmentSync: sync,
	}, nil
}

func (h *CompleteLegHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

// objectName builds a collision-free object key from the original file
// name and the submission timestamp.
func objectName(number, leg, kind, fileName string, now time.Time) string {
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	if base == "" || base == "." {
		base = kind
	}
	return fmt.Sprintf("handover/%s/%s/%s-%s-%d%s", number, leg, kind, base, now.UnixMilli(), path.Ext(fileName))
}

var _ commands.Handler[CompleteLegCommand, *CompleteLegResult] = (*CompleteLegHandler)(nil)
var _ middleware.IdempotentCommand = CompleteLegCommand{}
