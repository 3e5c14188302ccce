package config

func ValidateForRun(cfg *Config) error {
	if cfg.Schedule.SchedulerMode == SchedulerModeRedis {
		if err := cfg.Redis.Validate(); err != nil {
			return err
		}
	}
	return nil
}
