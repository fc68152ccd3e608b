package database

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Migration dosyalarındaki yorumlar serbest metindir: kesme işareti
// ("cursor'ı") ve noktalı virgül içerebilirler. Splitter yorumları
// atlamazsa kesme işareti string moduna sokar, noktalı virgül statement'ı
// ortadan böler — migration boot'ta patlar.
func TestSplitStatements_SkipsLineComments(t *testing.T) {
	sql := `
-- kullanıcının cursor'ı monotonik ilerler; asla geri gitmez
CREATE TABLE a (
	id INTEGER PRIMARY KEY, -- watermark yükselir; düşmez
	name TEXT
);
CREATE TABLE b (id INTEGER PRIMARY KEY);
`

	stmts := splitStatements(sql)

	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE a")
	assert.Contains(t, stmts[1], "CREATE TABLE b")
	// Yorum metni statement'lara sızmamalı
	for _, s := range stmts {
		assert.NotContains(t, s, "cursor")
		assert.NotContains(t, s, "--")
	}
}

func TestSplitStatements_SkipsBlockComments(t *testing.T) {
	sql := `/* açıklama; kesme'li metin */ CREATE TABLE a (id INTEGER); CREATE TABLE b (id INTEGER);`

	stmts := splitStatements(sql)

	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE a")
	assert.Contains(t, stmts[1], "CREATE TABLE b")
}

func TestSplitStatements_KeepsSemicolonInStringLiteral(t *testing.T) {
	sql := `INSERT INTO a (name) VALUES ('x; y'); INSERT INTO a (name) VALUES ('it''s');`

	stmts := splitStatements(sql)

	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "'x; y'")
	assert.Contains(t, stmts[1], "'it''s'")
}

// Gömülü migration dosyası olduğu gibi uygulanabilmeli — yorumlu,
// çok statement'lı gerçek şema. Burada kırılırsa server hiç boot etmez.
func TestNew_AppliesEmbeddedMigrations(t *testing.T) {
	migrations, err := fs.Sub(EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath, migrations)
	require.NoError(t, err)
	defer db.Close()

	// Şemanın çekirdek tabloları sorgulanabilir olmalı
	for _, table := range []string{"users", "channels", "messages", "thread_messages", "reactions", "read_cursors"} {
		var count int
		err := db.Conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, 0, count)
	}

	var applied int
	err = db.Conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

// Aynı dosyaya ikinci kez bağlanmak migration'ları tekrar çalıştırmamalı.
func TestNew_IsIdempotent(t *testing.T) {
	migrations, err := fs.Sub(EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := New(dbPath, migrations)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := New(dbPath, migrations)
	require.NoError(t, err)
	defer db2.Close()

	var applied int
	err = db2.Conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}
