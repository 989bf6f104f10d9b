package prayercontroller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scantagcandles/oremus-1/middleware"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/prayers"
	"go.uber.org/zap"
)

type Store interface {
	ListPublic(ctx context.Context, f prayers.Filters) ([]models.Prayer, error)
	Get(ctx context.Context, id, viewerID string) (*models.Prayer, error)
	Create(ctx context.Context, prayer *models.Prayer) error
	Update(ctx context.Context, id, ownerID string, u prayers.Update) (*models.Prayer, error)
	Delete(ctx context.Context, id, ownerID string) error
	ListByUser(ctx context.Context, userID string) ([]models.Prayer, error)
	Favorites(ctx context.Context, userID string) ([]models.Prayer, error)
	AddFavorite(ctx context.Context, userID, prayerID string) error
	RemoveFavorite(ctx context.Context, userID, prayerID string) error
}

type createRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
	IsPublic *bool    `json:"is_public"`
}

type updateRequest struct {
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	Category nullableString `json:"category"`
	Tags     *[]string      `json:"tags"`
	IsPublic *bool          `json:"is_public"`
}

// nullableString tells an absent field apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// update returns nil when the field was absent. Null and "" both clear it.
func (n nullableString) update() *string {
	if !n.Set {
		return nil
	}
	if n.Value == nil {
		cleared := ""
		return &cleared
	}
	return n.Value
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func list(c *gin.Context, data []models.Prayer) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "total": len(data)})
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// GET /api/prayers
func ListPrayers(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := prayers.Filters{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Tags:     splitTags(c.Query("tags")),
		}
		data, err := store.ListPublic(c.Request.Context(), filters)
		if err != nil {
			log.Error("list prayers failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to fetch prayers")
			return
		}
		list(c, data)
	}
}

// GET /api/prayers/:id
func GetPrayer(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		prayer, err := store.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
		if err != nil {
			if !errors.Is(err, prayers.ErrNotFound) {
				log.Error("get prayer failed", zap.String("id", c.Param("id")), zap.Error(err))
			}
			fail(c, http.StatusNotFound, "Prayer not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": prayer})
	}
}

// POST /api/prayers
func CreatePrayer(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" || strings.TrimSpace(req.Content) == "" {
			fail(c, http.StatusBadRequest, "Title and content are required")
			return
		}

		prayer := &models.Prayer{
			UserID:   middleware.UserID(c),
			Title:    req.Title,
			Content:  req.Content,
			Tags:     req.Tags,
			IsPublic: true,
		}
		if req.Category != nil && *req.Category != "" {
			prayer.Category = req.Category
		}
		if req.IsPublic != nil {
			prayer.IsPublic = *req.IsPublic
		}

		if err := store.Create(c.Request.Context(), prayer); err != nil {
			log.Error("create prayer failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to create prayer")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": prayer, "message": "Prayer created"})
	}
}

// PUT /api/prayers/:id
func UpdatePrayer(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if (req.Title != nil && strings.TrimSpace(*req.Title) == "") ||
			(req.Content != nil && strings.TrimSpace(*req.Content) == "") {
			fail(c, http.StatusBadRequest, "Title and content cannot be empty")
			return
		}

		prayer, err := store.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), prayers.Update{
			Title:    req.Title,
			Content:  req.Content,
			Category: req.Category.update(),
			Tags:     req.Tags,
			IsPublic: req.IsPublic,
		})
		switch {
		case errors.Is(err, prayers.ErrNotFound):
			fail(c, http.StatusNotFound, "Prayer not found")
			return
		case err != nil:
			log.Error("update prayer failed", zap.String("id", c.Param("id")), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to update prayer")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": prayer, "message": "Prayer updated"})
	}
}

// DELETE /api/prayers/:id
func DeletePrayer(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c))
		switch {
		case errors.Is(err, prayers.ErrNotFound):
			fail(c, http.StatusNotFound, "Prayer not found")
			return
		case err != nil:
			log.Error("delete prayer failed", zap.String("id", c.Param("id")), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to delete prayer")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prayer deleted"})
	}
}

// GET /api/prayers/user/my
func MyPrayers(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := store.ListByUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			log.Error("list user prayers failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to fetch your prayers")
			return
		}
		list(c, data)
	}
}

// GET /api/prayers/favorites
func FavoritePrayers(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := store.Favorites(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			log.Error("list favorites failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to fetch favorite prayers")
			return
		}
		list(c, data)
	}
}

// POST /api/prayers/:id/favorite
func AddFavorite(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.AddFavorite(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		switch {
		case errors.Is(err, prayers.ErrNotFound):
			fail(c, http.StatusNotFound, "Prayer not found")
			return
		case err != nil:
			log.Error("add favorite failed", zap.String("id", c.Param("id")), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to add to favorites")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prayer added to favorites"})
	}
}

// DELETE /api/prayers/:id/favorite
func RemoveFavorite(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.RemoveFavorite(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		switch {
		case errors.Is(err, prayers.ErrNotFound):
			fail(c, http.StatusNotFound, "Prayer not found")
			return
		case err != nil:
			log.Error("remove favorite failed", zap.String("id", c.Param("id")), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to remove from favorites")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prayer removed from favorites"})
	}
}
