package apperr

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindConcurrency:
		return http.StatusConflict
	case KindBusinessRule:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// JSON writes err as an echo.Map{"error": ...} response. Unexpected failures
// are logged with a correlation id and never expose their cause.
func JSON(c echo.Context, err error) error {
	status := Status(err)
	if status == http.StatusInternalServerError {
		cid := uuid.New().String()
		log.Printf("[http][ERROR] %s %s correlation_id=%s: %+v", c.Request().Method, c.Path(), cid, err)
		return c.JSON(status, echo.Map{
			"error":          "an unexpected error occurred",
			"correlation_id": cid,
		})
	}
	body := echo.Map{"error": err.Error(), "kind": KindOf(err).String()}
	if KindOf(err) == KindConcurrency {
		body["retryable"] = true
	}
	return c.JSON(status, body)
}

// RequireID validates a path or body identifier.
func RequireID(field, id string) error {
	if id == "" {
		return Validation("missing %s", field)
	}
	if _, err := uuid.Parse(id); err != nil {
		return Validation("invalid %s", field)
	}
	return nil
}

// UserID returns the authenticated user id set by the JWT middleware.
func UserID(c echo.Context) (string, error) {
	id, ok := c.Get("user_id").(string)
	if !ok || id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
