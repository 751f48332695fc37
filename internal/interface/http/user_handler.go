package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/deliverymx/user-service/internal/application"
	"github.com/deliverymx/user-service/internal/domain/entity"
	"github.com/deliverymx/user-service/internal/domain/valueobject"
	"github.com/deliverymx/user-service/pkg/response"
	"github.com/deliverymx/user-service/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type contactRequest struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

type addressRequest struct {
	Street         string `json:"street" binding:"required"`
	Number         string `json:"number" binding:"required"`
	Neighborhood   string `json:"neighborhood" binding:"required"`
	City           string `json:"city" binding:"required"`
	State          string `json:"state" binding:"required"`
	ZipCode        string `json:"zip_code" binding:"required"`
	Country        string `json:"country" binding:"required"`
	AdditionalInfo string `json:"additional_info"`
}

type createUserRequest struct {
	Name      string           `json:"name" binding:"required"`
	LastName  string           `json:"last_name"`
	Contact   contactRequest   `json:"contact" binding:"required"`
	Password  string           `json:"password" binding:"required,strongpwd"`
	Role      string           `json:"role" binding:"required,oneof=customer delivery_person restaurant_user"`
	Addresses []addressRequest `json:"addresses" binding:"omitempty,max=5,dive"`
}

func (r addressRequest) toInput() userapp.AddressInput {
	return userapp.AddressInput{
		Street:         r.Street,
		Number:         r.Number,
		Neighborhood:   r.Neighborhood,
		City:           r.City,
		State:          r.State,
		ZipCode:        r.ZipCode,
		Country:        r.Country,
		AdditionalInfo: r.AdditionalInfo,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := userapp.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Contact:  userapp.ContactInput{Email: req.Contact.Email, Phone: req.Contact.Phone},
		Password: req.Password,
		Role:     req.Role,
	}
	for _, a := range req.Addresses {
		in.Addresses = append(in.Addresses, a.toInput())
	}

	resp, err := h.Svc.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "failed to create user")
		return
	}
	response.Success(c, http.StatusCreated, resp, "user created", nil)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	resp, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to get user")
		return
	}
	if resp == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, "user found", nil)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error[any](c, http.StatusBadRequest, "email query parameter is required", nil)
		return
	}
	resp, err := h.Svc.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.writeError(c, err, "failed to get user")
		return
	}
	if resp == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, "user found", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to list users")
		return
	}
	response.Success(c, http.StatusOK, users, "users listed", map[string]any{"count": len(users)})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete user")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "user deactivated", nil)
}

func (h *UserHandler) AddAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	resp, err := h.Svc.AddAddress(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.writeError(c, err, "failed to add address")
		return
	}
	response.Success(c, http.StatusOK, resp, "address added", nil)
}

func (h *UserHandler) RemoveAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	resp, removed, err := h.Svc.RemoveAddress(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.writeError(c, err, "failed to remove address")
		return
	}
	if !removed {
		response.Error[any](c, http.StatusNotFound, "address not found for user", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, "address removed", nil)
}

func (h *UserHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read photo file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadProfilePhoto(c.Request.Context(), c.Param("id"), src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(c, err, "failed to upload photo")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"profile_picture_url": url}, "photo uploaded", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q query parameter is required", nil)
		return
	}
	size := 10
	if s := c.Query("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 50 {
			size = v
		}
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.writeError(c, err, "search failed")
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// writeError maps the use-case error taxonomy onto HTTP statuses. A
// deactivated account intentionally answers like a missing one, but is
// logged separately.
func (h *UserHandler) writeError(c *gin.Context, err error, fallback string) {
	var verr *valueobject.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid "+verr.Field, map[string]string{verr.Field: verr.Message})
	case errors.Is(err, userapp.ErrInvalidInput),
		errors.Is(err, userapp.ErrInvalidEmail),
		errors.Is(err, userapp.ErrInvalidRole):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, userapp.ErrUserInactive):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, userapp.ErrEmailInUse),
		errors.Is(err, entity.ErrAddressLimitReached),
		errors.Is(err, entity.ErrDuplicateAddress),
		errors.Is(err, entity.ErrUserAlreadyInactive),
		errors.Is(err, userapp.ErrNotDeliveryStaff):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error(fallback)
		}
		response.Error[any](c, http.StatusInternalServerError, fallback, nil)
	}
}
