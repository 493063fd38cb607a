package boltdb

import (
	"path/filepath"
	"testing"
	"time"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/cloudgrab/cloudgrab/internal/session"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWriteListDelete(t *testing.T) {
	assert := assert_.New(t)
	db := newTestDatabase(t)

	operations, err := db.ListOperations()
	assert.Nil(err)
	assert.Empty(operations)

	record := session.OperationRecord{
		ID:         session.NewOperationID(),
		URL:        "https://soundcloud.com/artist/track",
		Kind:       "track",
		Provider:   "soundcloud",
		OutputDir:  "/home/user/Music",
		Quality:    "high",
		AddedAt:    time.Now().Truncate(time.Second),
		Completed:  true,
		Files:      []string{"/home/user/Music/track.mp3"},
	}
	assert.Nil(db.WriteOperation(&record))

	operations, err = db.ListOperations()
	assert.Nil(err)
	if assert.Len(operations, 1) {
		assert.Equal(record.ID, operations[0].ID)
		assert.Equal(record.Files, operations[0].Files)
		assert.True(operations[0].Completed)
	}

	assert.Nil(db.DeleteOperation(&record))
	operations, err = db.ListOperations()
	assert.Nil(err)
	assert.Empty(operations)
}

func TestWriteOverwritesByID(t *testing.T) {
	assert := assert_.New(t)
	db := newTestDatabase(t)

	record := session.OperationRecord{ID: session.NewOperationID(), URL: "https://soundcloud.com/a/b"}
	assert.Nil(db.WriteOperation(&record))
	record.Completed = true
	assert.Nil(db.WriteOperation(&record))

	operations, err := db.ListOperations()
	assert.Nil(err)
	if assert.Len(operations, 1) {
		assert.True(operations[0].Completed)
	}
}

func TestReopenPersists(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := New(path)
	assert.Nil(err)
	record := session.OperationRecord{ID: session.NewOperationID()}
	assert.Nil(db.WriteOperation(&record))
	assert.Nil(db.Close())

	db, err = New(path)
	assert.Nil(err)
	defer db.Close()
	operations, err := db.ListOperations()
	assert.Nil(err)
	assert.Len(operations, 1)
}
