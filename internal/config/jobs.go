package config

import (
	"fmt"
	"strconv"
)

// JobsConfig holds settings for background jobs
type JobsConfig struct {
	IdeaJobSchedule    string
	PromotionThreshold int64
}

// LoadJobsConfig loads background job configuration from environment variables
func LoadJobsConfig(getenv func(string) string) (JobsConfig, error) {
	config := JobsConfig{
		IdeaJobSchedule:    getenv("BANTORA_IDEA_JOB_SCHEDULE"),
		PromotionThreshold: 10,
	}
	if config.IdeaJobSchedule == "" {
		config.IdeaJobSchedule = "0 0 0 * * *" // daily at midnight
	}

	if raw := getenv("BANTORA_IDEA_PROMOTION_THRESHOLD"); raw != "" {
		threshold, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || threshold < 1 {
			return config, fmt.Errorf("BANTORA_IDEA_PROMOTION_THRESHOLD must be a positive integer, got %q", raw)
		}
		config.PromotionThreshold = threshold
	}

	return config, nil
}
