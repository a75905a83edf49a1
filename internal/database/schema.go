package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist yet.  The unique key
// on (user_id, event_id) is what makes double booking impossible even
// when two requests race past the application-level checks.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			full_name     VARCHAR(255)    NOT NULL,
			email         VARCHAR(255)    NOT NULL,
			password_hash VARCHAR(255)    NOT NULL,
			role          VARCHAR(32)     NOT NULL DEFAULT 'participant',
			created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS events (
			id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			title          VARCHAR(255)    NOT NULL,
			description    TEXT            NOT NULL,
			date           DATETIME        NOT NULL,
			location       VARCHAR(255)    NOT NULL,
			total_capacity INT UNSIGNED    NOT NULL,
			reserved_seats INT UNSIGNED    NOT NULL DEFAULT 0,
			status         VARCHAR(32)     NOT NULL DEFAULT 'DRAFT',
			created_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_events_status_date (status, date)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id    BIGINT UNSIGNED NOT NULL,
			event_id   BIGINT UNSIGNED NOT NULL,
			status     VARCHAR(32)     NOT NULL DEFAULT 'PENDING',
			created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_reservations_user_event (user_id, event_id),
			KEY idx_reservations_event (event_id),
			CONSTRAINT fk_reservations_user  FOREIGN KEY (user_id)  REFERENCES users (id),
			CONSTRAINT fk_reservations_event FOREIGN KEY (event_id) REFERENCES events (id)
		) ENGINE=InnoDB`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
