package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/snaplinkhq/snaplink/internal/shortener"
	"go.uber.org/zap"
)

// QRHandler handles QR destination operations, both authenticated and
// anonymous.
type QRHandler struct {
	qrs     shortener.QRRepository
	unauth  shortener.UnauthQRRepository
	issuer  *shortener.Issuer
	baseURL string
	logger  *zap.Logger
}

// NewQRHandler creates a QR handler.
func NewQRHandler(
	qrs shortener.QRRepository,
	unauth shortener.UnauthQRRepository,
	issuer *shortener.Issuer,
	baseURL string,
	logger *zap.Logger,
) *QRHandler {
	return &QRHandler{
		qrs:     qrs,
		unauth:  unauth,
		issuer:  issuer,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *QRHandler) qrBody(qr *shortener.QRDestination) QRBody {
	return QRBody{
		ID:          qr.ID,
		ShortCode:   qr.ShortCode,
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, qr.ShortCode),
		OriginalURL: qr.OriginalURL,
		Title:       qr.Title,
		Category:    qr.Category,
		Clicks:      qr.Clicks,
		Style:       qr.Style,
		Frame:       qr.Frame,
		CreatedAt:   qr.CreatedAt,
	}
}

// CreateQR creates an authenticated QR destination under a fresh code.
func (h *QRHandler) CreateQR(ctx context.Context, req *CreateQRRequest) (*CreateQRResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	code, err := h.issuer.Issue(ctx, shortener.CategoryAuthQR)
	if err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("short code already in use")
		}

		return nil, huma.Error500InternalServerError("failed to allocate short code")
	}

	qr := &shortener.QRDestination{
		ID:          uuid.NewString(),
		UserID:      meta.UserID,
		OriginalURL: req.Body.URL,
		ShortCode:   code,
		Title:       req.Body.Title,
		Category:    req.Body.Category,
		Style:       req.Body.Style,
		Frame:       req.Body.Frame,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.qrs.Save(ctx, qr); err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("short code already in use")
		}

		h.logger.Error("failed to save qr destination", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save qr destination")
	}

	resp := &CreateQRResponse{Status: http.StatusCreated}
	resp.Body = h.qrBody(qr)

	return resp, nil
}

// DuplicateQR clones one of the user's QR destinations under a fresh code,
// keeping the destination and style payloads.
func (h *QRHandler) DuplicateQR(ctx context.Context, req *DuplicateQRRequest) (*DuplicateQRResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	original, err := h.qrs.GetByID(ctx, req.ID, meta.UserID)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("qr destination not found")
		}

		return nil, huma.Error500InternalServerError("failed to get qr destination")
	}

	code, err := h.issuer.Issue(ctx, shortener.CategoryAuthQR)
	if err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("short code already in use")
		}

		return nil, huma.Error500InternalServerError("failed to allocate short code")
	}

	clone := &shortener.QRDestination{
		ID:          uuid.NewString(),
		UserID:      meta.UserID,
		OriginalURL: original.OriginalURL,
		ShortCode:   code,
		Title:       original.Title,
		Category:    original.Category,
		Style:       original.Style,
		Frame:       original.Frame,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.qrs.Save(ctx, clone); err != nil {
		h.logger.Error("failed to save duplicated qr destination",
			zap.String("source_id", original.ID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to save qr destination")
	}

	resp := &DuplicateQRResponse{Status: http.StatusCreated}
	resp.Body = h.qrBody(clone)

	return resp, nil
}

// CreateUnauthQR creates an anonymous QR destination. There is no owner;
// the caller's user agent is recorded instead.
func (h *QRHandler) CreateUnauthQR(ctx context.Context, req *CreateUnauthQRRequest) (*CreateUnauthQRResponse, error) {
	code, err := h.issuer.Issue(ctx, shortener.CategoryUnauthQR)
	if err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("short code already in use")
		}

		return nil, huma.Error500InternalServerError("failed to allocate short code")
	}

	meta := RequestMetaFromContext(ctx)

	qr := &shortener.UnauthQRDestination{
		ID:          uuid.NewString(),
		OriginalURL: req.Body.URL,
		ShortCode:   code,
		Title:       req.Body.Title,
		UserAgent:   meta.UserAgent,
		Style:       req.Body.Style,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.unauth.Save(ctx, qr); err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("short code already in use")
		}

		h.logger.Error("failed to save anonymous qr destination", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save qr destination")
	}

	resp := &CreateUnauthQRResponse{Status: http.StatusCreated}
	resp.Body.ID = qr.ID
	resp.Body.ShortCode = qr.ShortCode
	resp.Body.ShortURL = fmt.Sprintf("%s/%s", h.baseURL, qr.ShortCode)
	resp.Body.OriginalURL = qr.OriginalURL
	resp.Body.Title = qr.Title
	resp.Body.Style = qr.Style
	resp.Body.CreatedAt = qr.CreatedAt

	return resp, nil
}
