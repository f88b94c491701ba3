package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database migrations applied")
	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            slug TEXT NOT NULL,
            avatar TEXT,
            bio TEXT,
            is_bot BOOLEAN DEFAULT FALSE,
            is_active BOOLEAN DEFAULT TRUE,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS conversations (
            id SERIAL PRIMARY KEY,
            type TEXT NOT NULL DEFAULT 'direct',
            name VARCHAR(100),
            avatar VARCHAR(500),
            created_by_id INT REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            updated_at TIMESTAMPTZ
        );`,
		`CREATE TABLE IF NOT EXISTS conversation_participants (
            id SERIAL PRIMARY KEY,
            conversation_id INT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            is_active BOOLEAN DEFAULT TRUE,
            joined_at TIMESTAMPTZ DEFAULT NOW(),
            left_at TIMESTAMPTZ,
            last_read_at TIMESTAMPTZ
        );`,
		`CREATE INDEX IF NOT EXISTS idx_participants_conversation ON conversation_participants(conversation_id, user_id);`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            conversation_id INT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
            sender_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content VARCHAR(2000) NOT NULL,
            is_edited BOOLEAN DEFAULT FALSE,
            is_deleted BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages(conversation_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS posts (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            seller_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            price NUMERIC(10,2) NOT NULL,
            stock INT NOT NULL DEFAULT 1,
            condition TEXT NOT NULL,
            category TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'active',
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS bots (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            personality TEXT NOT NULL DEFAULT 'friendly',
            interests JSONB DEFAULT '[]',
            content_topics JSONB DEFAULT '[]',
            is_active BOOLEAN DEFAULT TRUE,
            activity_frequency INT DEFAULT 60,
            max_daily_activities INT DEFAULT 10,
            can_post BOOLEAN DEFAULT TRUE,
            can_comment BOOLEAN DEFAULT TRUE,
            can_message BOOLEAN DEFAULT TRUE,
            can_create_communities BOOLEAN DEFAULT FALSE,
            can_list_products BOOLEAN DEFAULT TRUE,
            total_posts INT DEFAULT 0,
            total_comments INT DEFAULT 0,
            total_messages INT DEFAULT 0,
            total_products INT DEFAULT 0,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            last_activity_at TIMESTAMPTZ
        );`,
		`CREATE TABLE IF NOT EXISTS bot_activities (
            id SERIAL PRIMARY KEY,
            bot_id INT NOT NULL REFERENCES bots(id) ON DELETE CASCADE,
            activity_type TEXT NOT NULL,
            description TEXT,
            post_id INT REFERENCES posts(id) ON DELETE SET NULL,
            message_id INT REFERENCES messages(id) ON DELETE SET NULL,
            product_id INT REFERENCES products(id) ON DELETE SET NULL,
            success BOOLEAN DEFAULT TRUE,
            error_message TEXT,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_bot_activities_bot_created ON bot_activities(bot_id, created_at);`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
