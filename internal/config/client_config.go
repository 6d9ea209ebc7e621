package config

const (
	apiBaseURLVar  = "MARKET_API_URL"
	httpTimeoutVar = "MARKET_HTTP_TIMEOUT"
	stubPortVar    = "MARKET_STUB_PORT"
)

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:3000")
}

func (Client) GetHTTPTimeout() string {
	return GetEnv(httpTimeoutVar, "30s")
}

func (Client) GetStubPort() string {
	port := GetEnv(stubPortVar, "3000")
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}
