package postgres

import (
	"fmt"

	"github.com/GoSim-25-26J-441/taskflow-backend/config"
)

// DSN renders cfg in keyword/value form, which both lib/pq and pgx accept.
func DSN(cfg *config.DatabaseConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode,
	)
}
