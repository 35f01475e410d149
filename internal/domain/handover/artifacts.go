package handover

import "strings"

// Artifacts is the caller-supplied bundle a leg must present before the
// transition is accepted. Defect annotations, odometer and fuel reading
// are mandatory on every leg; the signature is mandatory on every
// custody transfer and its content type must be on the accepted list.
type Artifacts struct {
	Defects     []DefectPoint
	OdometerKM  int
	FuelPercent int
	Notes       string
	Signature   ImageRef
	Gallery     []ImageRef
}

// DefaultSignatureTypes mirrors the upload formats the mobile apps send.
var DefaultSignatureTypes = []string{"image/png", "image/jpeg", "image/jpg"}

// Validate rejects the bundle before any record is written or status
// advanced. acceptedTypes defaults to DefaultSignatureTypes when empty.
func (a Artifacts) Validate(acceptedTypes []string) error {
	if len(a.Defects) == 0 {
		return ErrDefectsRequired
	}
	if a.OdometerKM < 0 {
		return ErrOdometerRequired
	}
	if a.FuelPercent < 0 || a.FuelPercent > 100 {
		return ErrFuelLevelOutOfRange
	}
	if a.Signature.Empty() {
		return ErrSignatureRequired
	}
	if len(acceptedTypes) == 0 {
		acceptedTypes = DefaultSignatureTypes
	}
	accepted := false
	for _, t := range acceptedTypes {
		if strings.EqualFold(t, a.Signature.ContentType) {
			accepted = true
			break
		}
	}
	if !accepted {
		return ErrSignatureFormat
	}
	return nil
}
