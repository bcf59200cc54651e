package kafka

import (
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"
)

// EnsureTopicsExist creates the given topics if the broker does not have them
// yet. Errors on individual topics are logged and skipped so one bad topic
// does not block the rest.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		err = controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			log.Printf("Error creating topic %s: %v", topic, err)
			continue
		}
		log.Printf("Created topic: %s", topic)
	}
	return nil
}

// CreateTopicIfNotExists creates a single topic if it does not exist.
func CreateTopicIfNotExists(brokers []string, topic string) error {
	return EnsureTopicsExist(brokers, []string{topic})
}
