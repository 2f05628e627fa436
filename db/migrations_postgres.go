package db

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_websites_table",
		Up: `
			CREATE TABLE IF NOT EXISTS websites (
				url TEXT PRIMARY KEY,
				categories JSONB,
				processed_pages INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'pending',
				error_message TEXT,
				last_processed TIMESTAMPTZ DEFAULT NOW(),
				created_at TIMESTAMPTZ DEFAULT NOW(),
				updated_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_websites_last_processed ON websites(last_processed);
			CREATE INDEX IF NOT EXISTS idx_websites_industry ON websites((categories->>'primary_industry'));
			CREATE INDEX IF NOT EXISTS idx_websites_type ON websites((categories->>'website_type'));
		`,
		Down: `DROP TABLE IF EXISTS websites;`,
	},
	{
		Version: 2,
		Name:    "create_users_table",
		Up: `
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
		`,
		Down: `DROP TABLE IF EXISTS users;`,
	},
	{
		Version: 3,
		Name:    "create_chats_tables",
		Up: `
			CREATE TABLE IF NOT EXISTS chats (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				website_url TEXT NOT NULL,
				created_at TIMESTAMPTZ DEFAULT NOW(),
				updated_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_chats_user_updated ON chats(user_id, updated_at);

			CREATE TABLE IF NOT EXISTS chat_messages (
				seq BIGSERIAL PRIMARY KEY,
				chat_id TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
				role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
				content TEXT NOT NULL,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_chat_messages_chat ON chat_messages(chat_id, seq);
		`,
		Down: `
			DROP TABLE IF EXISTS chat_messages;
			DROP TABLE IF EXISTS chats;
		`,
	},
}
