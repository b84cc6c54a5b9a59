package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProducerMetrics counts publishes per topic.
type ProducerMetrics struct {
	published *prometheus.CounterVec
	errors    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewProducerMetrics registers the producer collectors with reg.
func NewProducerMetrics(reg prometheus.Registerer, namespace string) *ProducerMetrics {
	f := promauto.With(reg)
	return &ProducerMetrics{
		published: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_producer_messages_published_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_producer_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_producer_publish_duration_seconds",
			Help:      "Duration of Kafka publish operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}
