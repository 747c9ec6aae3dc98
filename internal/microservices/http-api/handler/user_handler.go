package handler

import (
	"net/http"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/middleware"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(api *gin.RouterGroup, protected ...gin.HandlerFunc) {
	rg := api.Group("/users")

	rg.GET("/:id", h.Profile)
	rg.GET("/:id/followers", h.Followers)
	rg.GET("/:id/following", h.Following)
	rg.POST("/:id/follow", protect(protected, h.Follow)...)
}

// Follow toggles whether the caller follows :id
func (h *UserHandler) Follow(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.ToggleFollow(ctx, userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Profile(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.svc.Profile(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Followers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.svc.Followers(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserListResponse{Data: users})
}

func (h *UserHandler) Following(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.svc.Following(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserListResponse{Data: users})
}
