package keys

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/keydeck/keydeck/pkg/keydeck/auth"
	"github.com/keydeck/keydeck/pkg/keydeck/models"
	"gorm.io/gorm"
)

// Handler handles stored API key requests. Every operation is scoped to the
// authenticated caller; a key owned by someone else is indistinguishable from
// a key that does not exist (404, never 403).
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new keys handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateKeyRequest represents a request to store a new API key
type CreateKeyRequest struct {
	KeyName   string   `json:"keyName" binding:"required"`
	APIKey    string   `json:"apiKey" binding:"required"`
	Providers []string `json:"providers" binding:"required,min=1,dive,oneof=openai google_gemini groq openrouter gitazure anthropic"`
	Type      string   `json:"type" binding:"omitempty,oneof=paid free"`
}

// UpdateKeyRequest represents a partial update. Only fields present in the
// request body are applied; omitted fields are left untouched.
type UpdateKeyRequest struct {
	APIKey    *string   `json:"apiKey"`
	Providers *[]string `json:"providers"`
	Status    *string   `json:"status" binding:"omitempty,oneof=active inactive"`
	Type      *string   `json:"type" binding:"omitempty,oneof=paid free"`
}

// Create stores a new API key for the authenticated user
// @Summary Store a new API key
// @Description Store a named credential for a set of providers. The key name must be unique across the whole store.
// @Tags keys
// @Accept json
// @Produce json
// @Param request body CreateKeyRequest true "Key details"
// @Success 200 {object} models.APIKey
// @Failure 400 {object} map[string]string "Validation error or key name already exists"
// @Failure 401 {object} map[string]string "Authentication required"
// @Security TokenAuth
// @Router /keys [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Key names are unique store-wide, regardless of owner
	var existing models.APIKey
	if err := h.db.Where("key_name = ?", req.KeyName).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key name already exists"})
		return
	}

	keyType := models.KeyType(req.Type)
	if keyType == "" {
		keyType = models.KeyTypeFree
	}

	apiKey := models.APIKey{
		ID:        uuid.New().String(),
		KeyName:   req.KeyName,
		Key:       req.APIKey,
		UserID:    userID,
		Providers: req.Providers,
		Status:    models.KeyStatusActive,
		Type:      keyType,
	}

	if err := h.db.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	// The stored record is returned as-is, secret included
	c.JSON(http.StatusOK, apiKey)
}

// List returns all API keys owned by the authenticated user
// @Summary List API keys
// @Description List every key owned by the caller, in storage order
// @Tags keys
// @Produce json
// @Success 200 {array} models.APIKey
// @Failure 401 {object} map[string]string "Authentication required"
// @Security TokenAuth
// @Router /keys [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var apiKeys []models.APIKey
	if err := h.db.Where("user_id = ?", userID).Find(&apiKeys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}

	c.JSON(http.StatusOK, apiKeys)
}

// Get returns a single API key by name
// @Summary Get an API key
// @Description Get the caller's key with the given name
// @Tags keys
// @Produce json
// @Param keyName path string true "Key name"
// @Success 200 {object} models.APIKey
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "API key not found"
// @Security TokenAuth
// @Router /keys/{keyName} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var apiKey models.APIKey
	if err := h.db.Where("key_name = ? AND user_id = ?", c.Param("keyName"), userID).First(&apiKey).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	c.JSON(http.StatusOK, apiKey)
}

// Update applies a partial update to an API key
// @Summary Update an API key
// @Description Update the secret, providers, status or type of the caller's key. Omitted fields are untouched.
// @Tags keys
// @Accept json
// @Produce json
// @Param keyName path string true "Key name"
// @Param request body UpdateKeyRequest true "Fields to update"
// @Success 200 {object} models.APIKey
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "API key not found"
// @Security TokenAuth
// @Router /keys/{keyName} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A provider set, when supplied, must stay non-empty and within the
	// known provider tags
	if req.Providers != nil {
		if len(*req.Providers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Providers must not be empty"})
			return
		}
		for _, p := range *req.Providers {
			if !models.ValidProvider(p) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider: " + p})
				return
			}
		}
	}

	var apiKey models.APIKey
	if err := h.db.Where("key_name = ? AND user_id = ?", c.Param("keyName"), userID).First(&apiKey).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	if req.APIKey != nil {
		apiKey.Key = *req.APIKey
	}
	if req.Providers != nil {
		apiKey.Providers = *req.Providers
	}
	if req.Status != nil {
		apiKey.Status = models.KeyStatus(*req.Status)
	}
	if req.Type != nil {
		apiKey.Type = models.KeyType(*req.Type)
	}

	if err := h.db.Save(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update API key"})
		return
	}

	c.JSON(http.StatusOK, apiKey)
}

// Delete permanently removes an API key
// @Summary Delete an API key
// @Description Permanently remove the caller's key with the given name
// @Tags keys
// @Produce json
// @Param keyName path string true "Key name"
// @Success 200 {object} map[string]string "API key removed"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "API key not found"
// @Security TokenAuth
// @Router /keys/{keyName} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var apiKey models.APIKey
	if err := h.db.Where("key_name = ? AND user_id = ?", c.Param("keyName"), userID).First(&apiKey).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	if err := h.db.Delete(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key removed"})
}

// RegisterRoutes registers key routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:keyName", h.Get)
	rg.PUT("/:keyName", h.Update)
	rg.DELETE("/:keyName", h.Delete)
}
