package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/dmitrijs2005/foundloss/internal/common"
	"github.com/dmitrijs2005/foundloss/internal/httputil"
	"github.com/dmitrijs2005/foundloss/internal/server/models"
	itemsrepo "github.com/dmitrijs2005/foundloss/internal/server/repositories/items"
	"github.com/dmitrijs2005/foundloss/internal/server/services"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "email and password are required")
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Email, req.FullName, req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorEmailTaken):
			httputil.WriteBadRequest(w, "Email already registered")
		case errors.Is(err, common.ErrorValidation):
			httputil.WriteBadRequest(w, "Invalid email address")
		default:
			s.logger.Error(r.Context(), "register failed", "error", err)
			httputil.WriteInternalError(w)
		}
		return
	}

	_ = httputil.WriteSuccess(w, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid email or password")
		} else {
			s.logger.Error(r.Context(), "login failed", "error", err)
			httputil.WriteInternalError(w)
		}
		return
	}

	_ = httputil.WriteSuccess(w, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, userFromContext(r.Context()))
}

type itemCreateRequest struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Color        string   `json:"color"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ContactEmail string   `json:"contact_email"`
	ContactPhone string   `json:"contact_phone"`
	ImageURL     *string  `json:"image_url"`
}

func (req *itemCreateRequest) validate() error {
	required := []struct{ name, value string }{
		{"type", req.Type},
		{"title", req.Title},
		{"description", req.Description},
		{"category", req.Category},
		{"color", req.Color},
		{"location", req.Location},
		{"contact_email", req.ContactEmail},
		{"contact_phone", req.ContactPhone},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("field %s is required", f.name)
		}
	}
	if _, err := mail.ParseAddress(req.ContactEmail); err != nil {
		return errors.New("field contact_email must be a valid email address")
	}
	return nil
}

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemCreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	user := userFromContext(r.Context())

	item, err := s.items.Create(r.Context(), user.ID, &models.Item{
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Color:        req.Color,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		s.logger.Error(r.Context(), "create item failed", "error", err)
		httputil.WriteInternalError(w)
		return
	}

	_ = httputil.WriteSuccess(w, item)
}

func (s *HTTPServer) handleListItems(w http.ResponseWriter, r *http.Request) {
	skip, err := httputil.QueryInt(r, "skip", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	limit, err := httputil.QueryInt(r, "limit", services.DefaultListLimit)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	filter := itemsrepo.Filter{
		Type:     httputil.QueryString(r, "type", ""),
		Category: httputil.QueryString(r, "category", ""),
	}

	items, err := s.items.List(r.Context(), filter, skip, limit)
	if err != nil {
		s.logger.Error(r.Context(), "list items failed", "error", err)
		httputil.WriteInternalError(w)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}

	_ = httputil.WriteSuccess(w, items)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := httputil.PathString(r, "id")

	item, err := s.items.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httputil.WriteNotFound(w, "Item not found")
		} else {
			s.logger.Error(r.Context(), "get item failed", "error", err)
			httputil.WriteInternalError(w)
		}
		return
	}

	_ = httputil.WriteSuccess(w, item)
}

func (s *HTTPServer) handleMyItems(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	items, err := s.items.ListMine(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "list own items failed", "error", err)
		httputil.WriteInternalError(w)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}

	_ = httputil.WriteSuccess(w, items)
}

type contactOwnerRequest struct {
	ItemID        string `json:"item_id"`
	ContactMethod string `json:"contact_method"`
	Message       string `json:"message"`
}

type contactOwnerResponse struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	ContactInfo *services.ContactInfo `json:"contact_info"`
}

func (s *HTTPServer) handleContactOwner(w http.ResponseWriter, r *http.Request) {
	var req contactOwnerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		httputil.WriteBadRequest(w, "field item_id is required")
		return
	}

	// req.Message is accepted but goes nowhere; the caller reaches the
	// reporter through the returned contact details.
	info, err := s.items.ContactOwner(r.Context(), req.ItemID, req.ContactMethod)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httputil.WriteNotFound(w, "Item not found")
		} else {
			s.logger.Error(r.Context(), "contact owner failed", "error", err)
			httputil.WriteInternalError(w)
		}
		return
	}

	_ = httputil.WriteSuccess(w, contactOwnerResponse{
		Success:     true,
		Message:     "Contact request processed",
		ContactInfo: info,
	})
}

func (s *HTTPServer) handleUpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	id := httputil.PathString(r, "id")

	status := httputil.QueryString(r, "status", "")
	if status == "" {
		httputil.WriteBadRequest(w, "query parameter status is required")
		return
	}

	user := userFromContext(r.Context())

	if err := s.items.UpdateStatus(r.Context(), id, user.ID, status); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httputil.WriteNotFound(w, "Item not found or not owned by you")
		} else {
			s.logger.Error(r.Context(), "update item status failed", "error", err)
			httputil.WriteInternalError(w)
		}
		return
	}

	_ = httputil.WriteSuccess(w, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Item status updated to %s", status),
	})
}

func (s *HTTPServer) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.uploads.GetPresignedPutUrl(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presign upload failed", "error", err)
		httputil.WriteInternalError(w)
		return
	}

	_ = httputil.WriteSuccess(w, map[string]string{"key": key, "upload_url": url})
}

func (s *HTTPServer) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := httputil.PathString(r, "key")

	url, err := s.uploads.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		s.logger.Error(r.Context(), "presign download failed", "error", err)
		httputil.WriteInternalError(w)
		return
	}

	_ = httputil.WriteSuccess(w, map[string]string{"download_url": url})
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, map[string]string{"message": "Found & Loss API v1.0"})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}
