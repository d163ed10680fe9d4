package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/service/booking"
	"github.com/mpetrov/aviabooking/internal/service/companies"
	"github.com/mpetrov/aviabooking/internal/service/content"
	"github.com/mpetrov/aviabooking/internal/service/stats"
	"github.com/mpetrov/aviabooking/internal/service/users"
)

// AdminHandler serves the admin surface: user and company management,
// banner management, booking aggregates and platform stats.
type AdminHandler struct {
	users     users.UserUseCase
	companies companies.CompanyUseCase
	content   content.ContentUseCase
	bookings  booking.BookingUseCase
	stats     stats.StatsUseCase
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type companyRequest struct {
	Name      string `json:"name" binding:"required"`
	ManagerID *int64 `json:"manager_id"`
}

type updateCompanyRequest struct {
	Name      *string `json:"name"`
	IsActive  *bool   `json:"is_active"`
	ManagerID *int64  `json:"manager_id"`
}

type companyResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	ManagerID *int64 `json:"manager_id"`
}

type bannerRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" binding:"required"`
	LinkURL     string `json:"link_url"`
	IsActive    *bool  `json:"is_active"`
}

type bookingAggregateResponse struct {
	ConfirmationID   string `json:"confirmation_id"`
	CompanyID        *int64 `json:"company_id"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	PurchasedAt      string `json:"purchased_at"`
}

type platformStatsResponse struct {
	TotalUsers        int64 `json:"total_users"`
	TotalCompanies    int64 `json:"total_companies"`
	TotalFlights      int64 `json:"total_flights"`
	ActiveFlights     int64 `json:"active_flights"`
	CompletedFlights  int64 `json:"completed_flights"`
	TotalPassengers   int64 `json:"total_passengers"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
}

func NewAdminHandler(
	userSvc users.UserUseCase,
	companySvc companies.CompanyUseCase,
	contentSvc content.ContentUseCase,
	bookingSvc booking.BookingUseCase,
	statsSvc stats.StatsUseCase,
) *AdminHandler {
	return &AdminHandler{
		users:     userSvc,
		companies: companySvc,
		content:   contentSvc,
		bookings:  bookingSvc,
		stats:     statsSvc,
	}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/users", h.listUsers)
	router.GET("/users/:id", h.getUser)
	router.PUT("/users/:id", h.updateUser)
	router.DELETE("/users/:id", h.deactivateUser)

	router.POST("/companies", h.createCompany)
	router.GET("/companies", h.listCompanies)
	router.PUT("/companies/:id", h.updateCompany)
	router.DELETE("/companies/:id", h.deactivateCompany)

	router.POST("/banners", h.createBanner)
	router.GET("/banners", h.listBanners)
	router.PUT("/banners/:id", h.updateBanner)
	router.DELETE("/banners/:id", h.deleteBanner)

	router.GET("/bookings", h.aggregateBookings)
	router.GET("/stats", h.platformStats)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	var filter domain.UserFilter
	if v := c.Query("role"); v != "" {
		role := domain.UserRole(v)
		filter.Role = &role
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]userResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toUserResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AdminHandler) updateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := users.UpdateUserInput{Name: req.Name, IsActive: req.IsActive}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		input.Role = &role
	}
	user, err := h.users.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AdminHandler) deactivateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.users.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) createCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	company, err := h.companies.Create(c.Request.Context(), req.Name, req.ManagerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCompanyResponse(company))
}

func (h *AdminHandler) listCompanies(c *gin.Context) {
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		isActive = &active
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.companies.List(c.Request.Context(), isActive, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]companyResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toCompanyResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) updateCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companies.Update(c.Request.Context(), id, companies.UpdateCompanyInput{
		Name:      req.Name,
		IsActive:  req.IsActive,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyResponse(company))
}

func (h *AdminHandler) deactivateCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.companies.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) createBanner(c *gin.Context) {
	banner, ok := bindBanner(c)
	if !ok {
		return
	}
	if err := h.content.CreateBanner(c.Request.Context(), banner); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBannerResponse(*banner))
}

func (h *AdminHandler) listBanners(c *gin.Context) {
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		isActive = &active
	}
	list, err := h.content.ListBanners(c.Request.Context(), isActive)
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

func (h *AdminHandler) updateBanner(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	banner, ok := bindBanner(c)
	if !ok {
		return
	}
	banner.ID = id
	if err := h.content.UpdateBanner(c.Request.Context(), banner); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBannerResponse(*banner))
}

func (h *AdminHandler) deleteBanner(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.content.DeleteBanner(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) aggregateBookings(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	list, err := h.bookings.AggregateBookings(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]bookingAggregateResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, bookingAggregateResponse{
			ConfirmationID:   a.ConfirmationID,
			CompanyID:        a.CompanyID,
			TotalAmountCents: a.TotalAmountCents,
			PurchasedAt:      a.PurchasedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) platformStats(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	s, err := h.stats.Platform(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, platformStatsResponse{
		TotalUsers:        s.TotalUsers,
		TotalCompanies:    s.TotalCompanies,
		TotalFlights:      s.TotalFlights,
		ActiveFlights:     s.ActiveFlights,
		CompletedFlights:  s.CompletedFlights,
		TotalPassengers:   s.TotalPassengers,
		TotalRevenueCents: s.TotalRevenueCents,
	})
}

func bindBanner(c *gin.Context) (*domain.Banner, bool) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Banner{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		IsActive:    active,
	}, true
}

func toCompanyResponse(co *domain.Company) companyResponse {
	return companyResponse{
		ID:        co.ID,
		Name:      co.Name,
		IsActive:  co.IsActive,
		ManagerID: co.ManagerID,
	}
}
