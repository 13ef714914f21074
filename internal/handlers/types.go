package handlers

import (
	"encoding/json"
	"time"
)

// LinkBody is the wire representation of a short link.
type LinkBody struct {
	ID          string    `doc:"Link id"                                json:"id"`
	ShortCode   string    `doc:"The short code"   example:"Bx7k2P"      json:"shortCode"`
	ShortURL    string    `doc:"The full short URL"                     json:"shortUrl"`
	OriginalURL string    `doc:"The destination URL"                    json:"originalUrl"`
	Title       string    `doc:"Display title"                          json:"title"`
	Clicks      int64     `doc:"Lifetime click count"                   json:"clicks"`
	WantQRCode  bool      `doc:"Whether a QR record shares this code"   json:"wantQrCode"`
	Hidden      bool      `doc:"Whether the link is soft-hidden"        json:"hidden"`
	CreatedAt   time.Time `doc:"Creation time"                          json:"createdAt"`
}

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL        string `doc:"The URL to shorten"                     example:"https://example.com/long" format:"uri" json:"url"      maxLength:"2048"`
		Title      string `doc:"Display title"                          json:"title,omitempty"`
		CustomCode string `doc:"Caller-chosen short code"               json:"customCode,omitempty"                     maxLength:"32"  pattern:"^[0-9A-Za-z_-]*$"`
		WantQRCode bool   `doc:"Also create a QR record with this code" json:"wantQrCode,omitempty"`
	}
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Status int
	Body   LinkBody
}

// ListLinksRequest is the query for the paginated link listing.
type ListLinksRequest struct {
	Page    int  `default:"1"  minimum:"1"  query:"page"`
	PerPage int  `default:"10" maximum:"50" minimum:"1" query:"perPage"`
	Hidden  bool `doc:"List soft-hidden links instead of visible ones" query:"hidden"`
}

// ListLinksResponse is the paginated link listing.
type ListLinksResponse struct {
	Body struct {
		Items      []LinkBody `json:"items"`
		TotalItems int64      `json:"totalItems"`
		TotalPages int        `json:"totalPages"`
		Page       int        `json:"page"`
		PerPage    int        `json:"perPage"`
	}
}

// GetLinkRequest fetches one link by id.
type GetLinkRequest struct {
	ID string `doc:"Link id" format:"uuid" path:"id"`
}

// GetLinkResponse is a single link.
type GetLinkResponse struct {
	Body LinkBody
}

// UpdateLinkRequest edits a link's destination, title, short code or
// visibility.
type UpdateLinkRequest struct {
	ID   string `doc:"Link id" format:"uuid" path:"id"`
	Body struct {
		URL       *string `doc:"New destination URL" format:"uri" json:"url,omitempty" maxLength:"2048"`
		Title     *string `doc:"New display title"   json:"title,omitempty"`
		ShortCode *string `doc:"New short code"      json:"shortCode,omitempty" maxLength:"64" minLength:"1" pattern:"^[0-9A-Za-z_-]+$"`
		Hidden    *bool   `doc:"Hide or unhide the link" json:"hidden,omitempty"`
	}
}

// UpdateLinkResponse is the updated link.
type UpdateLinkResponse struct {
	Body LinkBody
}

// DeleteLinkRequest removes or hides a link.
type DeleteLinkRequest struct {
	ID string `doc:"Link id" format:"uuid" path:"id"`
}

// DeleteLinkResponse reports whether the link was removed or only hidden.
type DeleteLinkResponse struct {
	Body struct {
		Deleted bool `doc:"True for a hard delete, false for a soft hide" json:"deleted"`
	}
}

// QRBody is the wire representation of a QR destination.
type QRBody struct {
	ID          string          `doc:"QR id"                json:"id"`
	ShortCode   string          `doc:"The short code"       json:"shortCode"`
	ShortURL    string          `doc:"The full short URL"   json:"shortUrl"`
	OriginalURL string          `doc:"The destination URL"  json:"originalUrl"`
	Title       string          `doc:"Display title"        json:"title"`
	Category    string          `doc:"QR content category"  json:"category"`
	Clicks      int64           `doc:"Lifetime click count" json:"clicks"`
	Style       json.RawMessage `doc:"Opaque style payload" json:"style,omitempty"`
	Frame       json.RawMessage `doc:"Opaque frame payload" json:"frame,omitempty"`
	CreatedAt   time.Time       `doc:"Creation time"        json:"createdAt"`
}

// CreateQRRequest creates an authenticated QR destination.
type CreateQRRequest struct {
	Body struct {
		URL      string          `doc:"The destination URL"  example:"https://example.com" format:"uri" json:"url" maxLength:"2048"`
		Title    string          `doc:"Display title"        json:"title,omitempty"`
		Category string          `default:"url"              doc:"QR content category"     json:"category,omitempty"`
		Style    json.RawMessage `doc:"Opaque style payload" json:"style,omitempty"`
		Frame    json.RawMessage `doc:"Opaque frame payload" json:"frame,omitempty"`
	}
}

// CreateQRResponse is the created QR destination.
type CreateQRResponse struct {
	Status int
	Body   QRBody
}

// DuplicateQRRequest clones a QR destination under a fresh code.
type DuplicateQRRequest struct {
	ID string `doc:"QR id to duplicate" format:"uuid" path:"id"`
}

// DuplicateQRResponse is the cloned QR destination.
type DuplicateQRResponse struct {
	Status int
	Body   QRBody
}

// CreateUnauthQRRequest creates an anonymous QR destination.
type CreateUnauthQRRequest struct {
	Body struct {
		URL   string          `doc:"The destination URL"  example:"https://example.com" format:"uri" json:"url" maxLength:"2048"`
		Title string          `doc:"Display title"        json:"title,omitempty"`
		Style json.RawMessage `doc:"Opaque style payload" json:"style,omitempty"`
	}
}

// CreateUnauthQRResponse is the created anonymous QR destination.
type CreateUnauthQRResponse struct {
	Status int
	Body   struct {
		ID          string          `json:"id"`
		ShortCode   string          `json:"shortCode"`
		ShortURL    string          `json:"shortUrl"`
		OriginalURL string          `json:"originalUrl"`
		Title       string          `json:"title"`
		Style       json.RawMessage `json:"style,omitempty"`
		CreatedAt   time.Time       `json:"createdAt"`
	}
}

// RedirectRequest is the request for redirecting a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"Bx7k2P" maxLength:"64" path:"code"`
}

// RedirectResponse carries the redirect Location.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The destination URL" header:"Location"`
	}
}
