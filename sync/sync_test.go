package sync

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/queue"
	"github.com/edulink/chatsync/repository"
)

// testEngine, gerçek SQLite + in-memory queue üzerinde kurulmuş tam sync hattı.
type testEngine struct {
	db        *database.DB
	queue     *queue.Memory
	notifier  *Notifier
	producer  *Producer
	hydrator  *Hydrator
	collector *Collector
	poller    *Poller

	messages repository.MessageRepository
	threads  repository.ThreadRepository
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	q := queue.NewMemory(time.Minute, 100)
	t.Cleanup(func() { q.Close() })

	users := repository.NewSQLiteUserRepo(db.Conn)
	messages := repository.NewSQLiteMessageRepo(db.Conn)
	threads := repository.NewSQLiteThreadRepo(db.Conn)
	reactions := repository.NewSQLiteReactionRepo(db.Conn)
	attachments := repository.NewSQLiteAttachmentRepo(db.Conn)

	notifier := NewNotifier()
	producer := NewProducer(q, notifier)
	hydrator := NewHydrator(users, messages, threads, reactions, attachments)
	t.Cleanup(hydrator.Close)

	collector := NewCollector(q, messages, threads, hydrator, 20)
	poller := NewPoller(collector, notifier, 2*time.Second, 20*time.Millisecond)

	return &testEngine{
		db:        db,
		queue:     q,
		notifier:  notifier,
		producer:  producer,
		hydrator:  hydrator,
		collector: collector,
		poller:    poller,
		messages:  messages,
		threads:   threads,
	}
}

func (e *testEngine) seedUser(t *testing.T, username string) int64 {
	t.Helper()

	var id int64
	err := e.db.Conn.QueryRowContext(context.Background(),
		`INSERT INTO users (username, password_hash) VALUES (?, 'x') RETURNING id`,
		username,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (e *testEngine) seedChannel(t *testing.T, createdBy int64) int64 {
	t.Helper()

	var id int64
	err := e.db.Conn.QueryRowContext(context.Background(),
		`INSERT INTO channels (name, type, created_by) VALUES ('test', 'group', ?) RETURNING id`,
		createdBy,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (e *testEngine) seedMessage(t *testing.T, channelID, userID, createdAt int64) int64 {
	t.Helper()

	var id int64
	err := e.db.Conn.QueryRowContext(context.Background(),
		`INSERT INTO messages (channel_id, user_id, body, created_at) VALUES (?, ?, 'hello', ?) RETURNING id`,
		channelID, userID, createdAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (e *testEngine) seedReply(t *testing.T, parentID, userID, createdAt int64) int64 {
	t.Helper()

	var id int64
	err := e.db.Conn.QueryRowContext(context.Background(),
		`INSERT INTO thread_messages (parent_message_id, user_id, body, created_at) VALUES (?, ?, 'reply', ?) RETURNING id`,
		parentID, userID, createdAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
