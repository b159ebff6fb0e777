package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/confhub-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Error: message})
}

var kindStatus = map[string]int{
	"not_found":    http.StatusNotFound,
	"validation":   http.StatusBadRequest,
	"conflict":     http.StatusConflict,
	"unauthorized": http.StatusUnauthorized,
	"forbidden":    http.StatusForbidden,
}

// fail maps a use case error to a status code. Internal errors are logged
// and hidden behind a generic message.
func fail(c *gin.Context, err error) {
	kind := domain.ErrorKind(err)
	status, known := kindStatus[kind]
	if !known {
		logging.Component(c.Request.Context(), nil, "http", c.FullPath()).
			Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Error: "internal error"})
		return
	}

	resp := Response{Error: err.Error()}
	var v *domain.ValidationError
	if errors.As(err, &v) {
		resp.Error = "validation failed"
		resp.Fields = v.Fields
	}
	c.JSON(status, resp)
}

func tenantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Error: "unauthorized"})
	}
	return id, ok
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// scope reads the tenant and the named path UUIDs, writing the error
// response itself when any of them is missing.
func scope(c *gin.Context, params ...string) (uuid.UUID, []uuid.UUID, bool) {
	tenant, ok := tenantID(c)
	if !ok {
		return uuid.Nil, nil, false
	}
	ids := make([]uuid.UUID, len(params))
	for i, p := range params {
		if ids[i], ok = uuidParam(c, p); !ok {
			return uuid.Nil, nil, false
		}
	}
	return tenant, ids, true
}
