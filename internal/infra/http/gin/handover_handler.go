package ginserver

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handoverapp "fleetrent/internal/app/handlers/handover"
	"fleetrent/internal/app/queries"
	domainhandover "fleetrent/internal/domain/handover"
)

type HandoverHTTP interface {
	CompleteLeg(c *gin.Context)
	List(c *gin.Context)
}

type HandoverHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// CompleteLeg accepts a multipart form: leg, odometer_km, fuel_percent,
// notes, defects (JSON array), a signature file and any number of
// gallery files.
func (h HandoverHandler) CompleteLeg(c *gin.Context) {
	agent, ok := requireRole(c, roleAgent, roleAdmin)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "multipart form required"})
		return
	}

	defects, err := parseDefects(formValue(form, "defects"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "defects must be a JSON array"})
		return
	}
	odometer, err := strconv.Atoi(strings.TrimSpace(formValue(form, "odometer_km")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "odometer_km must be an integer"})
		return
	}
	fuel, err := strconv.Atoi(strings.TrimSpace(formValue(form, "fuel_percent")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "fuel_percent must be an integer"})
		return
	}

	signature, closeSig, err := openUpload(form, "signature")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	if closeSig != nil {
		defer closeSig()
	}
	gallery, closeGallery, err := openGallery(form, "gallery")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	defer closeGallery()

	cmd := handoverapp.CompleteLegCommand{
		BookingNumber:   c.Param("number"),
		Leg:             c.Param("leg"),
		AgentID:         agent.ID,
		Defects:         defects,
		OdometerKM:      odometer,
		FuelPercent:     fuel,
		Notes:           formValue(form, "notes"),
		Signature:       signature,
		Gallery:         gallery,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[handoverapp.CompleteLegCommand, *handoverapp.CompleteLegResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.AssignmentSync == handoverapp.SyncFailed {
		respondFailedWith(c, "leg recorded, assignment sync pending", result)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h HandoverHandler) List(c *gin.Context) {
	if _, ok := requireRole(c, roleAgent, roleStaff, roleAdmin); !ok {
		return
	}
	q := handoverapp.ListHandoversQuery{BookingNumber: c.Param("number")}
	result, err := queries.Ask[handoverapp.ListHandoversQuery, dto.HandoverCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func parseDefects(raw string) ([]domainhandover.DefectPoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var defects []domainhandover.DefectPoint
	if err := json.Unmarshal([]byte(raw), &defects); err != nil {
		return nil, err
	}
	return defects, nil
}

func formValue(form *multipart.Form, name string) string {
	if vals := form.Value[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func openUpload(form *multipart.Form, field string) (handoverapp.ImageUpload, func(), error) {
	files := form.File[field]
	if len(files) == 0 {
		return handoverapp.ImageUpload{}, nil, nil
	}
	header := files[0]
	file, err := header.Open()
	if err != nil {
		return handoverapp.ImageUpload{}, nil, err
	}
	upload := handoverapp.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	}
	return upload, func() { _ = file.Close() }, nil
}

func openGallery(form *multipart.Form, field string) ([]handoverapp.ImageUpload, func(), error) {
	var uploads []handoverapp.ImageUpload
	var closers []func() error
	closeAll := func() {
		for _, cl := range closers {
			_ = cl()
		}
	}
	for _, header := range form.File[field] {
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, file.Close)
		uploads = append(uploads, handoverapp.ImageUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		})
	}
	return uploads, closeAll, nil
}

var _ HandoverHTTP = HandoverHandler{}
