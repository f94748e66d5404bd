package services

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	bolt "go.etcd.io/bbolt"
)

// BoltDB implements the Store interface using a BoltDB backend, so that session logs survive a restart of
// the server. Every session gets its own bucket whose keys are the big-endian sequence numbers of its
// messages, which keeps the bucket's iteration order equal to the append order.
type BoltDB struct {
	db *bolt.DB
}

var sessionsBucket = []byte("sessions")

// NewBoltDB creates a new BoltDB instance with the specified file path. It initializes the database
// with required buckets and returns an error if the database cannot be opened or initialized. The
// database file is created with 0600 permissions if it doesn't exist.
func NewBoltDB(path string) (BoltDB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return BoltDB{}, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return BoltDB{}, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	return BoltDB{db: db}, nil
}

func messageBucketName(sessionID string) []byte {
	return []byte(fmt.Sprintf("session-%s", sessionID))
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// AddSession stores a new session record and creates its message bucket.
func (b BoltDB) AddSession(_ context.Context, session models.Session) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists(messageBucketName(session.ID)); err != nil {
			return fmt.Errorf("failed to create message bucket: %w", err)
		}

		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), v)
	})
}

// DeleteSession removes a session and its whole message log. Deleting an unknown session is a no-op.
func (b BoltDB) DeleteSession(_ context.Context, sessionID string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(sessionsBucket).Delete([]byte(sessionID)); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		err := tx.DeleteBucket(messageBucketName(sessionID))
		if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("failed to delete message bucket: %w", err)
		}
		return nil
	})
}

// Messages retrieves all messages of the specified session in the order they were added.
func (b BoltDB) Messages(_ context.Context, sessionID string) ([]models.Message, error) {
	var messages []models.Message
	err := b.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(messageBucketName(sessionID))
		if b == nil {
			return models.ErrSessionNotFound
		}

		return b.ForEach(func(_, v []byte) error {
			var message models.Message
			if err := json.Unmarshal(v, &message); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			messages = append(messages, message)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// AddMessage appends a message to the specified session's log.
func (b BoltDB) AddMessage(_ context.Context, sessionID string, message models.Message) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(messageBucketName(sessionID))
		if b == nil {
			return models.ErrSessionNotFound
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}

		v, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}

		return b.Put(itob(seq), v)
	})
}

// Close releases the database file.
func (b BoltDB) Close() error {
	return b.db.Close()
}
