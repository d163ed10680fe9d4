package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/service/content"
)

type ContentHandler struct {
	service content.ContentUseCase
}

type bannerResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	LinkURL     string `json:"link_url"`
	IsActive    bool   `json:"is_active"`
}

func NewContentHandler(service content.ContentUseCase) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) Register(router *gin.RouterGroup) {
	router.GET("/banners", h.banners)
}

func (h *ContentHandler) banners(c *gin.Context) {
	list, err := h.service.PublicBanners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]bannerResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, toBannerResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func toBannerResponse(b domain.Banner) bannerResponse {
	return bannerResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		LinkURL:     b.LinkURL,
		IsActive:    b.IsActive,
	}
}
