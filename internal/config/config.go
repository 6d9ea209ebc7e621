package config

type Config interface {
	EnvConfig
	ClientConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type ClientConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() string
	GetStubPort() string
}

type mainConfig struct {
	EnvVars
	Client
}

func New() Config {
	return mainConfig{}
}
