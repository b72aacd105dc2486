// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"flightchat/internal/http/middleware"
	"flightchat/internal/modules/flights"
)

// errorResponse mirrors flights.Result so clients always see the same shape.
type errorResponse struct {
	Flights []flights.Summary `json:"flights"`
	Error   string            `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Flights: []flights.Summary{}, Error: msg})
}

func writeFlightError(c *gin.Context, err error) {
	log.Printf("[FLIGHTS] request_id=%s resolve failed: %v", middleware.GetRequestID(c), err)

	switch {
	case errors.Is(err, flights.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, flights.ErrNoToolCall):
		writeError(c, http.StatusUnprocessableEntity, "Could not extract flight details from the request")
	case errors.Is(err, flights.ErrMalformedArguments):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, flights.ErrMissingArrivalDate):
		writeError(c, http.StatusUnprocessableEntity, "Could not determine a return date for the request")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "upstream timeout")
	case errors.Is(err, flights.ErrUpstream):
		writeError(c, http.StatusBadGateway, flights.ErrUpstream.Error())
	case errors.Is(err, flights.ErrTransport):
		writeError(c, http.StatusBadGateway, flights.ErrTransport.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
