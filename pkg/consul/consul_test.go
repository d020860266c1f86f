package consul

import (
	"testing"

	"rakshak-service/config"

	"go.uber.org/zap"
)

func TestServiceIDAndNoopDeregister(t *testing.T) {
	cfg := &config.Config{ServiceName: "rakshak-service", Host: "10.0.0.5", Port: "3001"}
	conn := NewConsulConn(zap.NewNop().Sugar(), cfg)

	if conn.serviceID != "rakshak-service-10.0.0.5-3001" {
		t.Errorf("serviceID = %q", conn.serviceID)
	}

	// Never connected: must not panic.
	conn.Deregister()
}
