package common

const (
	RedisKeyDigestRunLock = "digest:run:lock"
	RedisKeyLatestDigest  = "digest:latest"

	TriggerSchedule = "schedule"
	TriggerAPI      = "api"
	TriggerCLI      = "cli"
)
