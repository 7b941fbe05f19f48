package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

// newResource describes the service. Attributes are schemaless so the merge
// with the SDK default never conflicts on schema URLs.
func newResource(serviceName, serviceVersion, environment string) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{attribute.String("service.name", serviceName)}
	if serviceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", serviceVersion))
	}
	if environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", environment))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}
