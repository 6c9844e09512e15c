package ledgerxgo

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Limits  LimitsConfig  `yaml:"limits"`
	Breaker BreakerConfig `yaml:"breaker"`
	Seed    []SeedAccount `yaml:"seed"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
}

// LimitsConfig sets the per-operation in-flight caps for the limit
// middleware. Zero means default.
type LimitsConfig struct {
	TimeoutMS     int64 `yaml:"timeout_ms"`
	CreateAccount int64 `yaml:"create_account"`
	Balance       int64 `yaml:"balance"`
	Deposit       int64 `yaml:"deposit"`
	Withdraw      int64 `yaml:"withdraw"`
	Transfer      int64 `yaml:"transfer"`
	Summary       int64 `yaml:"summary"`
}

type BreakerConfig struct {
	MaxRequests         uint32 `yaml:"max_requests"`
	TimeoutMS           int64  `yaml:"timeout_ms"`
	ConsecutiveFailures uint32 `yaml:"consecutive_failures"`
}

// SeedAccount is one account in the seeder's replay list. Balance is kept as
// a string and parsed with decimal.NewFromString so no precision is lost in
// the YAML round trip.
type SeedAccount struct {
	ID      string `yaml:"id"`
	Balance string `yaml:"balance"`
}
