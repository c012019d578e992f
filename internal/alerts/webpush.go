package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/db"
)

type WebPushSender struct {
	publicKey  string
	privateKey string
	subject    string
}

// NewWebPushSender generates a throwaway VAPID pair when none is configured
// (development only: browsers must resubscribe after every restart).
func NewWebPushSender(publicKey, privateKey, subject string) *WebPushSender {
	if publicKey == "" || privateKey == "" {
		priv, pub, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys: %v", err)
			return &WebPushSender{subject: subject}
		}
		log.Println("Generated new VAPID keys - set VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY in production")
		publicKey, privateKey = pub, priv
	}
	return &WebPushSender{publicKey: publicKey, privateKey: privateKey, subject: subject}
}

func (w *WebPushSender) Enabled() bool {
	return w.privateKey != "" && db.Conn != nil
}

// SendToUser pushes to every stored subscription of userID. Expired
// subscriptions (410 Gone) are deleted. Failures are joined into the result.
func (w *WebPushSender) SendToUser(ctx context.Context, userID, title, body string, data map[string]string) error {
	rows, err := db.Conn.Query(ctx, `SELECT endpoint, p256dh, auth FROM push_subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		log.Printf("[notify][ERROR] load push subscriptions for %s: %v", userID, err)
		return err
	}
	var (
		subs []webpush.Subscription
		errs []error
	)
	for rows.Next() {
		var s webpush.Subscription
		if err := rows.Scan(&s.Endpoint, &s.Keys.P256dh, &s.Keys.Auth); err != nil {
			log.Printf("[notify][ERROR] parse push subscription: %v", err)
			continue
		}
		subs = append(subs, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Printf("[notify][ERROR] read push subscriptions for %s: %v", userID, err)
		errs = append(errs, err)
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"title": title,
		"body":  body,
		"data":  data,
		"ts":    time.Now().Unix(),
	})
	for i := range subs {
		resp, err := webpush.SendNotificationWithContext(ctx, payload, &subs[i], &webpush.Options{
			Subscriber:      w.subject,
			VAPIDPublicKey:  w.publicKey,
			VAPIDPrivateKey: w.privateKey,
			TTL:             30,
		})
		if err != nil {
			log.Printf("[notify][ERROR] web push to %s failed: %v", userID, err)
			errs = append(errs, err)
			continue
		}
		if resp.StatusCode == http.StatusGone {
			log.Printf("[notify] web push subscription expired for %s, deleting", userID)
			_, _ = db.Conn.Exec(ctx, `DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`, userID, subs[i].Endpoint)
		}
		resp.Body.Close()
	}
	return errors.Join(errs...)
}

// GET /push/vapid-public-key
func VAPIDPublicKey(c echo.Context) error {
	if webPush == nil || webPush.publicKey == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "web push not configured"})
	}
	return c.JSON(http.StatusOK, echo.Map{"public_key": webPush.publicKey})
}

// POST /users/me/push-subscription
func SubscribePush(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var sub webpush.Subscription
	if err := c.Bind(&sub); err != nil || sub.Endpoint == "" || sub.Keys.P256dh == "" || sub.Keys.Auth == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subscription"})
	}
	_, err := db.Conn.Exec(c.Request().Context(), `
        INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, endpoint) DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth`,
		userID, sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save subscription"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "subscribed"})
}
