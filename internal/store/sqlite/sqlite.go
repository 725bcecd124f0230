package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/wirechat-inbox/internal/store"
)

// Schema is the layout the snapshot source reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id                INTEGER PRIMARY KEY,
	name              TEXT NOT NULL,
	type              TEXT NOT NULL DEFAULT 'single',
	image_url         TEXT NOT NULL DEFAULT '',
	last_message      TEXT NOT NULL DEFAULT '',
	last_message_time TEXT NOT NULL DEFAULT '',
	unread_count      INTEGER NOT NULL DEFAULT 0,
	position          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS participants (
	room_id  INTEGER NOT NULL,
	user_id  TEXT NOT NULL,
	name     TEXT NOT NULL,
	role     INTEGER NOT NULL DEFAULT 2,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (room_id, user_id),
	FOREIGN KEY (room_id) REFERENCES rooms(id)
);

CREATE TABLE IF NOT EXISTS comments (
	id        INTEGER NOT NULL,
	room_id   INTEGER NOT NULL,
	type      TEXT NOT NULL DEFAULT 'text',
	message   TEXT NOT NULL DEFAULT '',
	sender    TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	media_url TEXT,
	thumbnail TEXT,
	filename  TEXT,
	size      INTEGER,
	duration  INTEGER,
	pages     INTEGER,
	FOREIGN KEY (room_id) REFERENCES rooms(id)
);

CREATE INDEX IF NOT EXISTS idx_comments_room ON comments(room_id);
`

// SQLiteStore reads the startup snapshot from a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens the existing database at dbPath read-only. A missing file is an
// error; nothing is created or written.
func New(dbPath string) (*SQLiteStore, error) {
	return open("file:"+dbPath+"?mode=ro&_busy_timeout=5000", nil)
}

// NewWithSetup opens the database read-write and runs setup before the first
// ping. Useful for tests to seed an in-memory database.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_busy_timeout=5000"
	}
	return open(dsn, setup)
}

func open(dsn string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps an in-memory database alive between queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Snapshot implements store.Source. Rooms come back in position order and
// comments in insertion order.
func (s *SQLiteStore) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	rooms, err := s.listRooms(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(rooms))
	snap := &store.Snapshot{Results: make([]store.ChatData, 0, len(rooms))}
	for _, room := range rooms {
		index[room.ID] = len(snap.Results)
		snap.Results = append(snap.Results, store.ChatData{Room: room, Comments: []store.Comment{}})
	}

	if err := s.loadParticipants(ctx, snap, index); err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, snap, index); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteStore) listRooms(ctx context.Context) ([]store.Room, error) {
	query := `
		SELECT id, name, type, image_url, last_message, last_message_time, unread_count
		FROM rooms
		ORDER BY position, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []store.Room
	for rows.Next() {
		var room store.Room
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Type,
			&room.ImageURL,
			&room.LastMessage,
			&room.LastMessageTime,
			&room.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		room.Participants = []store.Participant{}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return rooms, nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, snap *store.Snapshot, index map[int64]int) error {
	query := `
		SELECT room_id, user_id, name, role
		FROM participants
		ORDER BY room_id, position, rowid
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roomID int64
		var p store.Participant
		if err := rows.Scan(&roomID, &p.ID, &p.Name, &p.Role); err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}
		i, ok := index[roomID]
		if !ok {
			continue
		}
		room := &snap.Results[i].Room
		room.Participants = append(room.Participants, p)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadComments(ctx context.Context, snap *store.Snapshot, index map[int64]int) error {
	query := `
		SELECT room_id, id, type, message, sender, timestamp,
		       media_url, thumbnail, filename, size, duration, pages
		FROM comments
		ORDER BY room_id, rowid
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			roomID    int64
			c         store.Comment
			mediaURL  sql.NullString
			thumbnail sql.NullString
			filename  sql.NullString
			size      sql.NullInt64
			duration  sql.NullInt64
			pages     sql.NullInt64
		)
		if err := rows.Scan(
			&roomID,
			&c.ID,
			&c.Type,
			&c.Message,
			&c.Sender,
			&c.Timestamp,
			&mediaURL,
			&thumbnail,
			&filename,
			&size,
			&duration,
			&pages,
		); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}

		if mediaURL.Valid {
			c.Media = &store.Media{
				URL:       mediaURL.String,
				Thumbnail: thumbnail.String,
				Filename:  filename.String,
				Size:      size.Int64,
			}
			if duration.Valid {
				d := int(duration.Int64)
				c.Media.Duration = &d
			}
			if pages.Valid {
				p := int(pages.Int64)
				c.Media.Pages = &p
			}
		}

		i, ok := index[roomID]
		if !ok {
			continue
		}
		snap.Results[i].Comments = append(snap.Results[i].Comments, c)
	}
	return rows.Err()
}
