package cmd

type Config struct {
	HTTPPort            string
	APIToken            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	FCMServerKey        string
	FCMEndpoint         string
	SyncIntervalMinutes int
	DeliveryBatchSize   int
	PushTimeoutSeconds  int
}
