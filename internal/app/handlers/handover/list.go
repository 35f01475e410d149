package handover

import (
	"context"
	"log/slog"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	"fleetrent/internal/infra/storage/s3"
)

const listHandoversKey = "handover.list"

type ListHandoversQuery struct {
	BookingNumber string
}

func (q ListHandoversQuery) Key() string { return listHandoversKey }

type ListHandoversHandler struct {
	UoWFactory uow.UoWFactory
	Uploader   s3.Uploader
	Logger     *slog.Logger
}

func (h *ListHandoversHandler) Handle(ctx context.Context, q ListHandoversQuery) (dto.HandoverCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HandoverCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	records, err := unit.Handovers().ListByBooking(execCtx, q.BookingNumber)
	if err != nil {
		return dto.HandoverCollection{}, err
	}
	items := make([]dto.HandoverRecord, 0, len(records))
	for _, rec := range records {
		item := dto.MapHandoverRecord(rec)
		h.signEvidence(ctx, &item)
		items = append(items, item)
	}
	return dto.HandoverCollection{BookingNumber: q.BookingNumber, Items: items}, nil
}

// signEvidence attaches expiring download links for the stored
// signature and defect photos. A record stays readable without links
// when signing is unavailable.
func (h *ListHandoversHandler) signEvidence(ctx context.Context, item *dto.HandoverRecord) {
	if h.Uploader == nil {
		return
	}
	if item.SignatureName != "" {
		signed, err := h.Uploader.EvidenceURL(ctx, item.SignatureName)
		if err == nil {
			item.SignatureURL = signed
		} else if h.Logger != nil {
			h.Logger.Warn("presign signature failed", "key", item.SignatureName, "error", err)
		}
	}
	for _, key := range item.Gallery {
		signed, err := h.Uploader.EvidenceURL(ctx, key)
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("presign defect photo failed", "key", key, "error", err)
			}
			continue
		}
		item.GalleryURLs = append(item.GalleryURLs, signed)
	}
}

var _ queries.Handler[ListHandoversQuery, dto.HandoverCollection] = (*ListHandoversHandler)(nil)
