package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/snaplinkhq/snaplink/internal/shortener"
	"go.uber.org/zap"
)

// LinkHandler handles short-link CRUD.
type LinkHandler struct {
	links   shortener.ShortLinkRepository
	qrs     shortener.QRRepository
	issuer  *shortener.Issuer
	baseURL string
	logger  *zap.Logger
}

// NewLinkHandler creates a link handler.
func NewLinkHandler(
	links shortener.ShortLinkRepository,
	qrs shortener.QRRepository,
	issuer *shortener.Issuer,
	baseURL string,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		links:   links,
		qrs:     qrs,
		issuer:  issuer,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *LinkHandler) shortURL(code string) string {
	return fmt.Sprintf("%s/%s", h.baseURL, code)
}

func (h *LinkHandler) linkBody(link *shortener.ShortLink) LinkBody {
	return LinkBody{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    h.shortURL(link.ShortCode),
		OriginalURL: link.OriginalURL,
		Title:       link.Title,
		Clicks:      link.Clicks,
		WantQRCode:  link.WantQRCode,
		Hidden:      link.Hidden,
		CreatedAt:   link.CreatedAt,
	}
}

// CreateLink creates a short link, with either a caller-chosen code or a
// generated one. With wantQrCode set, a QR record is created sharing the
// link's code, so clicks count against both.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	var (
		code string
		err  error
	)

	if req.Body.CustomCode != "" {
		code = req.Body.CustomCode
		err = h.issuer.Claim(ctx, code)
	} else {
		code, err = h.issuer.Issue(ctx, shortener.CategoryShortLink)
	}

	if err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("short code already in use")
		}

		return nil, huma.Error500InternalServerError("failed to allocate short code")
	}

	link := &shortener.ShortLink{
		ID:            uuid.NewString(),
		UserID:        meta.UserID,
		OriginalURL:   req.Body.URL,
		ShortCode:     code,
		Title:         req.Body.Title,
		WantQRCode:    req.Body.WantQRCode,
		HasCustomCode: req.Body.CustomCode != "",
		CreatedAt:     time.Now().UTC(),
	}

	if err := h.links.Save(ctx, link); err != nil {
		if errors.Is(err, shortener.ErrCodeTaken) {
			return nil, huma.Error409Conflict("short code already in use")
		}

		h.logger.Error("failed to save link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save link")
	}

	if link.WantQRCode {
		qr := &shortener.QRDestination{
			ID:          uuid.NewString(),
			UserID:      meta.UserID,
			OriginalURL: link.OriginalURL,
			ShortCode:   link.ShortCode,
			Title:       link.Title,
			Category:    "url",
			ShortLinkID: link.ID,
			CreatedAt:   link.CreatedAt,
		}

		if err := h.qrs.Save(ctx, qr); err != nil {
			// The link itself is live; the missing QR record only loses the
			// dual counting.
			h.logger.Error("failed to save linked qr record",
				zap.String("link_id", link.ID),
				zap.Error(err),
			)
		}
	}

	resp := &CreateLinkResponse{Status: http.StatusCreated}
	resp.Body = h.linkBody(link)

	return resp, nil
}

// ListLinks returns the user's links, newest first.
func (h *LinkHandler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	page, err := h.links.List(ctx, meta.UserID, req.Hidden, req.Page, req.PerPage)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Items = make([]LinkBody, 0, len(page.Items))

	for _, link := range page.Items {
		resp.Body.Items = append(resp.Body.Items, h.linkBody(link))
	}

	resp.Body.TotalItems = page.TotalItems
	resp.Body.TotalPages = page.TotalPages()
	resp.Body.Page = page.Page
	resp.Body.PerPage = page.PerPage

	return resp, nil
}

// GetLink returns one of the user's links.
func (h *LinkHandler) GetLink(ctx context.Context, req *GetLinkRequest) (*GetLinkResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	link, err := h.links.GetByID(ctx, req.ID, meta.UserID)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to get link")
	}

	return &GetLinkResponse{Body: h.linkBody(link)}, nil
}

// UpdateLink edits a link's destination, title, short code or visibility. A
// new short code counts as a custom one for the delete policy. Title, URL and
// visibility changes carry over to the attached QR record. The cache is not
// evicted, so the old destination can keep serving until its entry expires.
func (h *LinkHandler) UpdateLink(ctx context.Context, req *UpdateLinkRequest) (*UpdateLinkResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	link, err := h.links.GetByID(ctx, req.ID, meta.UserID)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to get link")
	}

	if req.Body.URL != nil {
		link.OriginalURL = *req.Body.URL
	}

	if req.Body.Title != nil {
		link.Title = *req.Body.Title
	}

	if req.Body.ShortCode != nil && !strings.EqualFold(*req.Body.ShortCode, link.ShortCode) {
		if err := h.issuer.Claim(ctx, *req.Body.ShortCode); err != nil {
			if errors.Is(err, shortener.ErrCodeTaken) {
				return nil, huma.Error409Conflict("short code already in use")
			}

			return nil, huma.Error500InternalServerError("failed to claim short code")
		}

		link.ShortCode = *req.Body.ShortCode
		link.HasCustomCode = true
	}

	if req.Body.Hidden != nil {
		link.Hidden = *req.Body.Hidden
	}

	if err := h.links.Update(ctx, link); err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to update link", zap.String("id", link.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to update link")
	}

	h.syncLinkedQR(ctx, link)

	return &UpdateLinkResponse{Body: h.linkBody(link)}, nil
}

// syncLinkedQR carries a link's edits over to its attached QR record, which
// shares the link's code and surfaces the same title and visibility.
func (h *LinkHandler) syncLinkedQR(ctx context.Context, link *shortener.ShortLink) {
	if !link.WantQRCode {
		return
	}

	qr, err := h.qrs.ByLinkID(ctx, link.ID)
	if err != nil {
		if !errors.Is(err, shortener.ErrNotFound) {
			h.logger.Error("failed to load linked qr record",
				zap.String("link_id", link.ID),
				zap.Error(err),
			)
		}

		return
	}

	qr.OriginalURL = link.OriginalURL
	qr.Title = link.Title
	qr.Hidden = link.Hidden

	if err := h.qrs.Update(ctx, qr); err != nil {
		h.logger.Error("failed to sync linked qr record",
			zap.String("link_id", link.ID),
			zap.String("qr_id", qr.ID),
			zap.Error(err),
		)
	}
}

// DeleteLink removes a link. Links with a custom code or accrued redirects
// are soft-hidden instead, preserving their analytics history.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	link, err := h.links.GetByID(ctx, req.ID, meta.UserID)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to get link")
	}

	resp := &DeleteLinkResponse{}

	if link.Deletable() {
		if err := h.links.Delete(ctx, link.ID); err != nil {
			h.logger.Error("failed to delete link", zap.String("id", link.ID), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to delete link")
		}

		resp.Body.Deleted = true

		return resp, nil
	}

	link.Hidden = true

	if err := h.links.Update(ctx, link); err != nil {
		h.logger.Error("failed to hide link", zap.String("id", link.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to hide link")
	}

	h.syncLinkedQR(ctx, link)

	return resp, nil
}
