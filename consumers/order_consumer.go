package consumers

import (
	"context"
	"log"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop-server/config"
	"eshop-server/database"
)

// StartOrderConsumer consumes order lifecycle events and the dead-letter
// queue. Message bodies are "orderID|eventType".
func StartOrderConsumer(ch *amqp.Channel, cfg *config.Config, orders *database.OrderStore) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"eshop-server", // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to register consumer: %v", err)
	}

	go func() {
		for msg := range msgs {
			processOrderMessage(msg, orders)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"eshop-server-dlq", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
}

func processOrderMessage(msg amqp.Delivery, orders *database.OrderStore) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in message processing: %v", r)
		}
	}()

	parts := strings.Split(string(msg.Body), "|")
	if len(parts) < 2 {
		log.Printf("Invalid message format: %s", msg.Body)
		if err := msg.Nack(false, false); err != nil {
			return
		}
		return
	}

	orderID, err := primitive.ObjectIDFromHex(parts[0])
	if err != nil {
		log.Printf("Invalid order ID: %s", parts[0])
		if err := msg.Nack(false, false); err != nil {
			return
		}
		return
	}

	eventType := parts[1]
	log.Printf("Processing order event: ID=%s, Type=%s", orderID.Hex(), eventType)

	switch eventType {
	case "created":
		handleOrderCreated(orderID)
	case "status_updated":
		handleStatusUpdated(orderID, orders)
	case "payment_check":
		handlePaymentCheck(orderID, orders)
	default:
		log.Printf("Unknown event type: %s", eventType)
	}

	if err := msg.Ack(false); err != nil {
		return
	}
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	if err := msg.Ack(false); err != nil {
		return
	}
}

func handleOrderCreated(orderID primitive.ObjectID) {
	log.Printf("Handling order created: %s", orderID.Hex())
}

func handleStatusUpdated(orderID primitive.ObjectID, orders *database.OrderStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := orders.Get(ctx, orderID)
	if err != nil {
		log.Printf("Failed to get order status: %v", err)
		return
	}

	switch order.Status {
	case "Shipped":
		// shipment notification hook
	case "Cancelled":
		// cancellation handling hook
	}
	log.Printf("Handling status update for order %s: %s", orderID.Hex(), order.Status)
}

// handlePaymentCheck cancels orders still pending when the delayed check
// fires.
func handlePaymentCheck(orderID primitive.ObjectID, orders *database.OrderStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := orders.Get(ctx, orderID)
	if err != nil {
		log.Printf("Failed to get order status: %v", err)
		return
	}

	if order.Status == "Pending" {
		if _, err := orders.UpdateStatus(ctx, orderID, "Cancelled"); err != nil {
			log.Printf("Failed to auto-cancel order %s: %v", orderID.Hex(), err)
		} else {
			log.Printf("Auto-cancelled order %s due to non-payment", orderID.Hex())
		}
	}
}
