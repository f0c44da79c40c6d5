package runner

const DefaultProgressEvery = 10

type Config struct {
	// Limit caps the number of processed pairs; 0 means no limit.
	Limit int
	// FailFast stops the batch at the first evaluator failure.
	FailFast bool
}

func DefaultConfig() Config {
	return Config{}
}
