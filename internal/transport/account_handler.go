package transport

import (
	"errors"
	"net/http"

	"sharpshop/internal/middleware"
	"sharpshop/internal/repository"
	"sharpshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileRequest is the profile update payload
type ProfileRequest struct {
	FullName    string `json:"full_name" validate:"max=200"`
	Phone       string `json:"phone" validate:"omitempty,e164"`
	CountryCode string `json:"country_code" validate:"omitempty,len=2,alpha"`
}

// WishlistRequest saves a product
type WishlistRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// AccountHandler serves the signed-in customer's profile and wishlist
type AccountHandler struct {
	profileService  service.ProfileService
	wishlistService service.WishlistService
	logger          *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(profileService service.ProfileService, wishlistService service.WishlistService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		profileService:  profileService,
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// RegisterRoutes registers the authenticated account routes
func (h *AccountHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/api/profile", h.GetProfile)
		r.Put("/api/profile", h.UpdateProfile)

		r.Get("/api/wishlist", h.ListWishlist)
		r.Post("/api/wishlist", h.AddToWishlist)
		r.Delete("/api/wishlist/{productID}", h.RemoveFromWishlist)
	})
}

// GetProfile handles GET /api/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.String("user_id", userID.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProfileRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.HandleDecodeError(w, err)
		return
	}

	profile, err := h.profileService.Save(r.Context(), userID, service.ProfileInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		h.logger.Error("Failed to save profile", zap.String("user_id", userID.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profile)
}

// ListWishlist handles GET /api/wishlist
func (h *AccountHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.wishlistService.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list wishlist", zap.String("user_id", userID.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list wishlist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"items": items})
}

// AddToWishlist handles POST /api/wishlist
func (h *AccountHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req WishlistRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.HandleDecodeError(w, err)
		return
	}

	if err := h.wishlistService.Add(r.Context(), userID, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to add to wishlist", zap.String("user_id", userID.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to wishlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFromWishlist handles DELETE /api/wishlist/{productID}
func (h *AccountHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := pathInt64(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.wishlistService.Remove(r.Context(), userID, productID); err != nil {
		if errors.Is(err, repository.ErrWishlistItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product is not in the wishlist")
			return
		}
		h.logger.Error("Failed to remove from wishlist", zap.String("user_id", userID.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from wishlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
