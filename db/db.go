package db

import (
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// Connect opens the MySQL pool and bootstraps the schema. The returned
// handle is the one connection pool for the process lifetime.
// parseTime is forced on so TIMESTAMP columns scan into time.Time.
func Connect(dsn string) (*sql.DB, error) {
	if strings.Contains(dsn, "?") {
		dsn += "&parseTime=true"
	} else {
		dsn += "?parseTime=true"
	}

	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

func migrate(conn *sql.DB) error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	notesTable := `
	CREATE TABLE IF NOT EXISTS notes (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		content TEXT,
		type ENUM('TEXT', 'CHECKLIST') NOT NULL DEFAULT 'TEXT',
		owner_id INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
	);`

	// "order" is a reserved word in MySQL, hence item_order.
	checklistItemsTable := `
	CREATE TABLE IF NOT EXISTS checklist_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		text VARCHAR(255) NOT NULL,
		item_order INT NOT NULL,
		is_done BOOLEAN NOT NULL DEFAULT FALSE,
		note_id INT NOT NULL,
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
	);`

	for _, stmt := range []string{usersTable, notesTable, checklistItemsTable} {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
