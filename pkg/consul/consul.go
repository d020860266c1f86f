package consul

import (
	"fmt"
	"strconv"

	"rakshak-service/config"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type ConsulConn struct {
	logger    *zap.SugaredLogger
	cfg       *config.Config
	client    *consulapi.Client
	serviceID string
}

func NewConsulConn(logger *zap.SugaredLogger, cfg *config.Config) *ConsulConn {
	return &ConsulConn{
		logger:    logger,
		cfg:       cfg,
		serviceID: fmt.Sprintf("%s-%s-%s", cfg.ServiceName, cfg.Host, cfg.Port),
	}
}

// Connect registers the service with an HTTP health check on /health.
// Registration failures are logged; the service keeps running without
// discovery.
func (c *ConsulConn) Connect() *consulapi.Client {
	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = c.cfg.Consul.Address

	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		c.logger.Errorf("Failed to create consul client: %v", err)
		return nil
	}
	c.client = client

	port, err := strconv.Atoi(c.cfg.Port)
	if err != nil {
		c.logger.Errorf("Invalid port %q for consul registration: %v", c.cfg.Port, err)
		return client
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      c.serviceID,
		Name:    c.cfg.ServiceName,
		Address: c.cfg.Host,
		Port:    port,
		Tags:    []string{"incidents", "sos"},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", c.cfg.Host, port),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		c.logger.Errorf("Failed to register service with consul: %v", err)
		return client
	}

	c.logger.Infof("Registered %s with consul at %s", c.serviceID, consulCfg.Address)
	return client
}

func (c *ConsulConn) Deregister() {
	if c.client == nil {
		return
	}
	if err := c.client.Agent().ServiceDeregister(c.serviceID); err != nil {
		c.logger.Errorf("Failed to deregister service from consul: %v", err)
		return
	}
	c.logger.Infof("Deregistered %s from consul", c.serviceID)
}
