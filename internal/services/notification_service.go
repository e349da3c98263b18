package services

import (
	"context"
	"log"

	"firebase.google.com/go/messaging"
)

type NotificationService struct {
	Client *messaging.Client
}

// SendStockOverflowPush nudges a player whose shop holds overflowing stock
// toward the cleanup screen.
func (s *NotificationService) SendStockOverflowPush(ctx context.Context, token string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "ネコヤ",
			Body:  "お店の在庫がいっぱいです。整理してネコチケットをもらいましょう！",
		},
		Data: map[string]string{
			"screen": "stock_cleanup",
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: "ネコヤ",
						Body:  "お店の在庫がいっぱいです。整理してネコチケットをもらいましょう！",
					},
					Sound: "default",
				},
			},
		},
	}

	response, err := s.Client.Send(ctx, message)
	if err != nil {
		log.Printf("Error sending push notification: %v", err)
		return err
	}

	log.Printf("Push notification sent: %s", response)
	return nil
}
