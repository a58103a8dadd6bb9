package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yash-yadav1804/Social-Media-Platform/database"
)

var (
	vapidPublicKey  string
	vapidPrivateKey string
)

type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

// InitPush loads the VAPID key pair, generating a throwaway pair for
// development when none is configured.
func InitPush() {
	vapidPublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	if vapidPublicKey != "" && vapidPrivateKey != "" {
		return
	}

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Printf("Failed to generate VAPID keys: %v", err)
		return
	}
	vapidPublicKey = publicKey
	vapidPrivateKey = privateKey
	log.Println("Generated ephemeral VAPID keys - set VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY in production")
}

func GetVapidPublicKey(c *gin.Context) {
	if vapidPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notifications not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": vapidPublicKey})
}

// SubscribePush handles POST /api/push/subscribe, upserting the caller's
// browser subscription.
func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	sub := PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	_, err := database.Subscriptions.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"userId": sub.UserID, "sub": sub.Sub}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Failed to save push subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription saved successfully"})
}

// notifyFriendEvent delivers a best-effort web push to userID. Callers run
// it in a goroutine; delivery failures are logged and dropped.
func notifyFriendEvent(userID primitive.ObjectID, title, body string) {
	if vapidPrivateKey == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var sub PushSubscription
	err := database.Subscriptions.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return
	}
	if err != nil {
		log.Printf("Push subscription lookup error: %v", err)
		return
	}

	payload, err := json.Marshal(gin.H{"title": title, "body": body})
	if err != nil {
		return
	}

	resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
		Subscriber:      os.Getenv("VAPID_SUBJECT"),
		VAPIDPublicKey:  vapidPublicKey,
		VAPIDPrivateKey: vapidPrivateKey,
		TTL:             60,
	})
	if err != nil {
		log.Printf("Push delivery error for %s: %v", userID.Hex(), err)
		return
	}
	defer resp.Body.Close()

	// The push service prunes dead endpoints with 404/410.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		if _, err := database.Subscriptions.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
			log.Printf("Failed to prune push subscription: %v", err)
		}
	}
}
