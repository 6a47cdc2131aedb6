package mqtt

// Config defines the connection parameters for the alert notifier.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults fills unset fields with service defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "sagip-dispatch"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "dispatch/events"
	}
}
