package config

import (
	"fmt"

	"foodgram/global"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func InitRabbit() error {
	url := AppConfig.RabbitMQ.Url
	if url == "" {
		global.Logger.Info("rabbitmq url empty, skipping rabbit init")
		return nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	qname := AppConfig.RabbitMQ.Queue
	if qname == "" {
		qname = "foodgram.activity"
		AppConfig.RabbitMQ.Queue = qname
	}
	if _, err := ch.QueueDeclare(qname, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare RabbitMQ queue: %w", err)
	}

	global.RabbitConn = conn
	global.RabbitChannel = ch
	global.Logger.Info("RabbitMQ initialized", zap.String("queue", qname))
	return nil
}
