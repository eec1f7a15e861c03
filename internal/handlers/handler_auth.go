package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/dto"
	"github.com/SscSPs/ledgerify/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// loginRate bounds password guessing per client IP.
const loginRate = "5-M"

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvc
}

func newAuthHandler(as portssvc.AuthSvc) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, authService portssvc.AuthSvc) {
	h := newAuthHandler(authService)

	rate, err := limiter.NewRateFromFormatted(loginRate)
	if err != nil {
		panic(err)
	}
	limitMiddleware := limitergin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	auth := r.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
	}
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("username", req.Username)), err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
