package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	reviewsapp "fleetrent/internal/app/handlers/reviews"
	"fleetrent/internal/app/queries"
)

type ReviewHTTP interface {
	Submit(c *gin.Context)
	Update(c *gin.Context)
	List(c *gin.Context)
}

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type submitReviewRequest struct {
	Stars int    `json:"stars"`
	Text  string `json:"review_text"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	p, ok := requireRole(c, roleCustomer)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := reviewsapp.SubmitReviewCommand{
		CarID:      c.Param("id"),
		CustomerID: p.ID,
		Username:   p.Name,
		Stars:      req.Stars,
		Text:       req.Text,
	}
	result, err := commands.Dispatch[reviewsapp.SubmitReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, result)
}

func (h ReviewHandler) Update(c *gin.Context) {
	p, ok := requireRole(c, roleCustomer)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := reviewsapp.UpdateReviewCommand{
		ReviewID:   c.Param("id"),
		CustomerID: p.ID,
		Stars:      req.Stars,
		Text:       req.Text,
	}
	result, err := commands.Dispatch[reviewsapp.UpdateReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h ReviewHandler) List(c *gin.Context) {
	p, ok := requireRole(c)
	if !ok {
		return
	}
	q := reviewsapp.ListCarReviewsQuery{CarID: c.Param("id"), CustomerID: p.ID}
	result, err := queries.Ask[reviewsapp.ListCarReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}
