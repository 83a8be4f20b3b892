package guard

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/contract"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/pkg/ratelimit"
)

// Locals keys set by Authenticate for downstream handlers.
const (
	LocalsUserID = "userId"
	LocalsUser   = "user"
)

// Guard holds the request middleware pipeline: rate limiting first,
// then authentication, then role checks. Each stage is an independent
// fiber handler so routes compose only the stages they need.
type Guard struct {
	issuer *TokenIssuer
	users  contract.UserRepository
	log    logger.ILogger
}

func NewGuard(issuer *TokenIssuer, users contract.UserRepository, log logger.ILogger) *Guard {
	return &Guard{issuer: issuer, users: users, log: log}
}

// Authenticate verifies the Bearer token, loads the subject user and
// rejects anything but an active account. The full user entity lands in
// ctx.Locals so services never re-fetch it.
func (g *Guard) Authenticate(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return apperror.Unauthenticated(apperror.CodeMissingToken, "Access token required")
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	userID, _, err := g.issuer.ParseSubject(tokenStr)
	if err != nil {
		return err
	}

	user, err := g.users.FindOne(ctx.UserContext(), specification.ByID{ID: userID})
	if err != nil {
		return apperror.Internal(err)
	}
	if user == nil {
		return apperror.Unauthenticated(apperror.CodeInvalidUser, "User not found or inactive")
	}
	if !user.IsActive() {
		return apperror.Unauthenticated(apperror.CodeInvalidUser, "User not found or inactive")
	}

	ctx.Locals(LocalsUserID, user.Id)
	ctx.Locals(LocalsUser, user)
	return ctx.Next()
}

// RequireRole gates a route to the given roles. Must run after
// Authenticate.
func (g *Guard) RequireRole(roles ...entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := ctx.Locals(LocalsUser).(*entity.User)
		if !ok {
			return apperror.Unauthenticated(apperror.CodeMissingToken, "Access token required")
		}
		for _, role := range roles {
			if user.Role == role {
				return ctx.Next()
			}
		}
		return apperror.Forbidden("Insufficient permissions")
	}
}

// RateLimit applies a per-client request budget. Authenticated clients
// are keyed by user id, anonymous ones by IP, so a tenant cannot starve
// others by rotating addresses.
func (g *Guard) RateLimit(limiter ratelimit.Limiter) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := clientKey(ctx)
		allowed, err := limiter.Allow(ctx.UserContext(), key)
		if err != nil {
			// Fail open: a broken limiter backend should not take the
			// API down with it.
			g.log.Warn("guard", "Rate limiter unavailable", map[string]interface{}{
				"error": err.Error(),
			})
			return ctx.Next()
		}
		if !allowed {
			return apperror.RateLimited("Too many requests, please try again later")
		}
		return ctx.Next()
	}
}

func clientKey(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals(LocalsUserID).(uuid.UUID); ok {
		return "user:" + id.String()
	}
	return "ip:" + ctx.IP()
}

// CurrentUser returns the authenticated user stored by Authenticate.
func CurrentUser(ctx *fiber.Ctx) (*entity.User, error) {
	user, ok := ctx.Locals(LocalsUser).(*entity.User)
	if !ok {
		return nil, apperror.Unauthenticated(apperror.CodeMissingToken, "Access token required")
	}
	return user, nil
}

// CurrentUserID returns the authenticated user id stored by Authenticate.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := ctx.Locals(LocalsUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.Unauthenticated(apperror.CodeMissingToken, "Access token required")
	}
	return id, nil
}
