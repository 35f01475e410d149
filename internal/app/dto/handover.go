package dto

import (
	"time"

	domainhandover "fleetrent/internal/domain/handover"
)

type DefectPoint struct {
	Area        string `json:"area"`
	Description string `json:"description"`
}

type HandoverRecord struct {
	BookingNumber string        `json:"booking_number"`
	Leg           string        `json:"leg"`
	AgentID       string        `json:"agent_id,omitempty"`
	CustomerID    string        `json:"customer_id,omitempty"`
	Defects       []DefectPoint `json:"defects"`
	OdometerKM    int           `json:"odometer_km"`
	FuelPercent   int           `json:"fuel_percent"`
	Notes         string        `json:"notes,omitempty"`
	SignatureName string        `json:"signature"`
	SignatureURL  string        `json:"signature_url,omitempty"`
	Gallery       []string      `json:"defect_gallery"`
	GalleryURLs   []string      `json:"defect_gallery_urls,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type HandoverCollection struct {
	BookingNumber string           `json:"booking_number"`
	Items         []HandoverRecord `json:"items"`
}

func MapHandoverRecord(rec *domainhandover.Record) HandoverRecord {
	defects := make([]DefectPoint, 0, len(rec.Defects))
	for _, d := range rec.Defects {
		defects = append(defects, DefectPoint{Area: d.Area, Description: d.Description})
	}
	gallery := make([]string, 0, len(rec.DefectGallery))
	for _, img := range rec.DefectGallery {
		gallery = append(gallery, img.Name)
	}
	return HandoverRecord{
		BookingNumber: rec.BookingNumber,
		Leg:           string(rec.Leg),
		AgentID:       rec.AgentID,
		CustomerID:    rec.CustomerID,
		Defects:       defects,
		OdometerKM:    rec.OdometerKM,
		FuelPercent:   rec.FuelPercent,
		Notes:         rec.Notes,
		SignatureName: rec.Signature.Name,
		Gallery:       gallery,
		UpdatedAt:     rec.UpdatedAt,
	}
}
