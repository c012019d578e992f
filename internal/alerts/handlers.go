package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/db"
)

// ListNotifications returns current user's notifications, newest first
func ListNotifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id::text, type, title, COALESCE(body, ''), COALESCE(reference::text, ''),
                COALESCE(metadata::text, '{}'), created_at, read_at
         FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT 100`, userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	defer rows.Close()

	items := []echo.Map{}
	for rows.Next() {
		var id, ntype, title, body, reference, metadata string
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&id, &ntype, &title, &body, &reference, &metadata, &createdAt, &readAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse notification"})
		}
		item := echo.Map{
			"id":         id,
			"type":       ntype,
			"title":      title,
			"body":       body,
			"reference":  reference,
			"metadata":   json.RawMessage(metadata),
			"created_at": createdAt.UTC().Format(time.RFC3339),
			"read_at":    nil,
		}
		if readAt != nil {
			item["read_at"] = readAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// MarkNotificationRead marks specific notification as read
func MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	nid := c.Param("id")
	if nid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing notification id"})
	}

	res, err := db.Conn.Exec(c.Request().Context(),
		`UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`, nid, userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found or already read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// CreateNotification inserts an in-app notification row.
func CreateNotification(ctx context.Context, n Notification) error {
	if db.Conn == nil {
		return errors.New("database not initialized")
	}
	var ref *string
	if n.Reference != "" {
		ref = &n.Reference
	}
	meta, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO notifications (user_id, type, title, body, reference, metadata)
         VALUES ($1, $2, $3, $4, $5, $6)`, n.UserID, n.Type, n.Title, n.Body, ref, string(meta),
	)
	return err
}
