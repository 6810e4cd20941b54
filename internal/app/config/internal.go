package config

type InternalConfig struct {
	App          App
	OCR          OCR
	ICU          ICU
	Notification Notification
}

type App struct {
	Env                      string
	Timezone                 string
	ShutdownTimeoutInSeconds int
}

type OCR struct {
	ServicePort             string
	WorkerCount             int
	PrefetchCount           int
	EngineBaseURL           string
	EngineTimeoutInSeconds  int
	EngineRequestsPerSecond float64
}

type ICU struct {
	ServicePort string
}

type Notification struct {
	ServicePort            string
	DefaultRecipientEmail  string
	RetryBatchSize         int
	RetryIntervalInMinutes int
}
