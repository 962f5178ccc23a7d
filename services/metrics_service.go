// File: services/metrics_service.go
package services

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"go-gym-classes/logger"
)

// MetricsPublisher records signup outcomes and collaborator failures.
type MetricsPublisher interface {
	RecordSignup(classID string, err error)
	RecordFetchFailure(operation string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordSignup(string, error) {}
func (NoopMetrics) RecordFetchFailure(string)  {}

// CloudWatchMetrics publishes counters to a CloudWatch namespace.
type CloudWatchMetrics struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
}

// NewCloudWatchMetrics reuses one client for all metric calls.
func NewCloudWatchMetrics(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client, namespace: namespace}
}

// RecordSignup counts a signup attempt under Result=success|failure.
func (m *CloudWatchMetrics) RecordSignup(classID string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.putCount("classes_signup", "Result", result)
	logger.Debug.Printf("[CloudWatchMetrics.RecordSignup] class=%s result=%s", classID, result)
}

// RecordFetchFailure counts a failed listing or detail fetch.
func (m *CloudWatchMetrics) RecordFetchFailure(operation string) {
	m.putCount("classes_fetch_failure", "Operation", operation)
}

func (m *CloudWatchMetrics) putCount(metricName, dimension, value string) {
	_, err := m.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String(dimension),
						Value: aws.String(value),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(1),
				Unit:      aws.String(cloudwatch.StandardUnitCount),
			},
		},
	})
	if err != nil {
		logger.Error.Printf("[CloudWatchMetrics.putCount] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
