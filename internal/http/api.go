package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fundflow/internal/auth"
	"fundflow/internal/domain"
	"fundflow/internal/repository/sqldb"
	"fundflow/internal/service"
	"fundflow/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth           service.AuthService
	campaigns      service.CampaignService
	sessions       *auth.Sessions
	storage        storage.Service
	db             *sqldb.DB
	publishableKey string
}

func NewHandler(
	authSvc service.AuthService,
	campaigns service.CampaignService,
	sessions *auth.Sessions,
	store storage.Service,
	db *sqldb.DB,
	publishableKey string,
) *Handler {
	return &Handler{
		auth:           authSvc,
		campaigns:      campaigns,
		sessions:       sessions,
		storage:        store,
		db:             db,
		publishableKey: publishableKey,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/signup", h.signup)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/auth/session", auth.RequireSession(h.sessions), h.currentSession)

		api.POST("/campaigns", auth.RequireSession(h.sessions), h.createCampaign)
		api.GET("/campaigns", auth.RequireSession(h.sessions), h.listCampaigns)
		api.GET("/campaigns/categories", h.listCategories)

		api.POST("/uploads", h.uploadImage)

		api.GET("/payments/config", h.paymentConfig)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusAccepted, gin.H{"ok": "ok"})
		})
		api.GET("/health/db", h.checkDatabase)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": domain.ErrEmailTaken.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.openSession(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": userToResponse(user), "token": token})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.openSession(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(user), "token": token})
}

func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) currentSession(c *gin.Context) {
	session := auth.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sessionToResponse(session)})
}

func (h *Handler) openSession(c *gin.Context, user *domain.User) (string, error) {
	token, err := h.sessions.Issue(domain.Session{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return "", err
	}
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	return token, nil
}

type createCampaignRequest struct {
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description" binding:"required"`
	GoalAmount       decimal.Decimal `json:"goal_amount" binding:"required"`
	Category         string          `json:"category" binding:"required"`
	ImageURL         string          `json:"image_url"`
	CampaignDeadline string          `json:"campaign_deadline" binding:"required"`
}

func (h *Handler) createCampaign(c *gin.Context) {
	session := auth.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := time.Parse(time.DateOnly, req.CampaignDeadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaign_deadline must be YYYY-MM-DD"})
		return
	}

	campaign, err := h.campaigns.Create(c.Request.Context(), session.UserID, service.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Deadline:    deadline,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, campaignToResponse(*campaign))
}

func (h *Handler) listCampaigns(c *gin.Context) {
	session := auth.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	campaigns, err := h.campaigns.ListByOwner(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := listCampaignsResponse{
		Campaigns:   make([]CampaignResponse, len(campaigns)),
		TotalRaised: service.SumCurrentAmount(campaigns).StringFixed(2),
	}
	for i := range campaigns {
		resp.Campaigns[i] = campaignToResponse(campaigns[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": domain.Categories})
}

func (h *Handler) uploadImage(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}
	defer file.Close()

	imageURL, err := h.storage.UploadImage(c.Request.Context(), storage.File{
		Reader:      file,
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": imageURL})
}

func (h *Handler) paymentConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishableKey": h.publishableKey})
}

func (h *Handler) checkDatabase(c *gin.Context) {
	if err := h.db.Check(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Database connected successfully"})
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type CampaignResponse struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"user_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	GoalAmount       string `json:"goal_amount"`
	CurrentAmount    string `json:"current_amount"`
	Category         string `json:"category"`
	ImageURL         string `json:"image_url"`
	CampaignDeadline string `json:"campaign_deadline"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type listCampaignsResponse struct {
	Campaigns   []CampaignResponse `json:"campaigns"`
	TotalRaised string             `json:"total_raised"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func sessionToResponse(session *domain.Session) UserResponse {
	return UserResponse{
		ID:        session.UserID,
		Name:      session.Name,
		Email:     session.Email,
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
	}
}

func campaignToResponse(campaign domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:               campaign.ID,
		UserID:           campaign.UserID,
		Title:            campaign.Title,
		Description:      campaign.Description,
		GoalAmount:       campaign.GoalAmount.StringFixed(2),
		CurrentAmount:    campaign.CurrentAmount.StringFixed(2),
		Category:         campaign.Category,
		ImageURL:         campaign.ImageURL,
		CampaignDeadline: campaign.Deadline.Format(time.DateOnly),
		CreatedAt:        campaign.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        campaign.UpdatedAt.Format(time.RFC3339),
	}
}
