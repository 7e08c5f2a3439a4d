package config

import "os"

type Config struct {
	HTTPAddr    string
	DataFile    string
	ServiceName string

	// Twilio credentials; any of these missing leaves SMS alerts disabled.
	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
	AlertPhone  string
}

func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":3001"),
		DataFile:    getenv("DATA_FILE", "orders.json"),
		ServiceName: getenv("SERVICE_NAME", "orderdesk"),
		TwilioSID:   os.Getenv("TWILIO_SID"),
		TwilioToken: os.Getenv("TWILIO_TOKEN"),
		TwilioFrom:  os.Getenv("TWILIO_PHONE"),
		AlertPhone:  os.Getenv("MY_PHONE_NUMBER"),
	}
}

// SMSEnabled reports whether every credential needed for outbound SMS is set.
func (c Config) SMSEnabled() bool {
	return c.TwilioSID != "" && c.TwilioToken != "" && c.AlertPhone != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
