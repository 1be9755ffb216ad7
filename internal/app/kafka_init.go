package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
)

// initKafkaProducer создаёт Kafka producer по списку брокеров из KAFKA_BROKERS
// ("host1:9092,host2:9092"). Пустой список означает работу без Kafka:
// события остаются в outbox и сервис продолжает обслуживать запросы.
func initKafkaProducer(brokers string, logger *log.Entry) (*kafka.Producer, error) {
	if brokers == "" {
		return nil, nil
	}

	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("kafka producer недоступен, продолжаем без Kafka")
		return nil, err
	}

	logger.WithField("brokers", brokerList).Info("kafka producer инициализирован")
	return producer, nil
}

// closeKafka закрывает producer; nil-producer допустим.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("не удалось закрыть kafka producer")
	} else {
		logger.Info("kafka producer закрыт")
	}
}
