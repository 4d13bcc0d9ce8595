package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/maidbook/maidbook/internal/domain"
	"github.com/maidbook/maidbook/internal/middleware"
	"github.com/maidbook/maidbook/internal/models"
)

// TargetSource supplies the default target list when a request carries none.
type TargetSource func() ([]models.TargetIdentity, error)

// RestoreHandler serves the admin restore endpoints.
type RestoreHandler struct {
	svc           domain.RestoreService
	targets       TargetSource
	bookingsPath  string
	customersPath string
	// running admits one restore at a time across all requests.
	running *semaphore.Weighted
	log     *logrus.Logger
}

// NewRestoreHandler creates a RestoreHandler reading exports from the given paths.
func NewRestoreHandler(
	svc domain.RestoreService, targets TargetSource, bookingsPath, customersPath string, log *logrus.Logger,
) *RestoreHandler {
	return &RestoreHandler{
		svc:           svc,
		targets:       targets,
		bookingsPath:  bookingsPath,
		customersPath: customersPath,
		running:       semaphore.NewWeighted(1),
		log:           log,
	}
}

// restoreRequest is the optional POST body. Omitted targets fall back to the
// configured targets file.
type restoreRequest struct {
	Targets []models.TargetIdentity `json:"targets"`
}

// Preflight handles GET /admin/restore.
func (h *RestoreHandler) Preflight(c *gin.Context) {
	in, ok := h.buildInput(c, nil)
	if !ok {
		return
	}

	report, err := h.svc.Preflight(c.Request.Context(), in)
	if err != nil {
		h.respondRestoreError(c, err, "preflight failed")
		return
	}

	c.JSON(http.StatusOK, report)
}

// Run handles POST /admin/restore. Only one restore runs at a time; a
// concurrent request gets 409 immediately.
func (h *RestoreHandler) Run(c *gin.Context) {
	dryRun := false

	if v := c.Query("dry_run"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "dry_run must be a boolean")
			return
		}

		dryRun = parsed
	}

	var req restoreRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
			return
		}
	}

	if len(req.Targets) > 0 {
		if err := models.ValidateTargets(req.Targets); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
			return
		}
	}

	if !h.running.TryAcquire(1) {
		respondError(c, http.StatusConflict, ErrCodeRestoreInProgress, models.ErrRestoreInProgress.Error())
		return
	}
	defer h.running.Release(1)

	in, ok := h.buildInput(c, req.Targets)
	if !ok {
		return
	}

	in.DryRun = dryRun

	h.log.WithFields(logrus.Fields{
		"company_id": in.CompanyID,
		"user_id":    in.UserID,
		"targets":    len(in.Targets),
		"dry_run":    dryRun,
		"request_id": c.GetString(middleware.RequestIDKey),
	}).Info("audit")

	// A started restore runs to completion even if the caller disconnects.
	report, err := h.svc.Run(context.WithoutCancel(c.Request.Context()), in)
	if err != nil {
		h.respondRestoreError(c, err, "restore failed")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *RestoreHandler) buildInput(c *gin.Context, targets []models.TargetIdentity) (models.RestoreInput, bool) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return models.RestoreInput{}, false
	}

	if len(targets) == 0 {
		loaded, err := h.targets()
		if errors.Is(err, models.ErrMissingTargets) {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
			return models.RestoreInput{}, false
		}

		if err != nil {
			h.log.WithError(err).Error("loading restore targets")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "restore targets unavailable")

			return models.RestoreInput{}, false
		}

		targets = loaded
	}

	return models.RestoreInput{
		CompanyID:     p.CompanyID,
		UserID:        p.UserID,
		Targets:       targets,
		BookingsPath:  h.bookingsPath,
		CustomersPath: h.customersPath,
	}, true
}

func (h *RestoreHandler) respondRestoreError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, models.ErrMissingFile),
		errors.Is(err, models.ErrMissingTargets),
		errors.Is(err, models.ErrMissingTargetID),
		errors.Is(err, models.ErrDuplicateTarget),
		errors.Is(err, models.ErrMissingCompanyID),
		errors.Is(err, models.ErrMissingUserID):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	default:
		h.log.WithError(err).Error(msg)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, msg)
	}
}
