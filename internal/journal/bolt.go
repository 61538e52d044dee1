// Package journal keeps a local BoltDB record of top-up attempts whose book
// may have committed at the ledger.
//
// It holds no money state. An entry only says "this idempotency key was
// sent to book and we do not know the outcome yet", so an operator can
// replay it with the same key after a crash or restart.
package journal

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/models/dto"
)

const bucketName = "attempts"

var ErrNotFound = errors.New("journal entry not found")

type Entry struct {
	Key       string    `json:"key"`
	TopUp     dto.TopUp `json:"top_up"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTopUp rebuilds the exact request that was sent to the ledger.
func (e Entry) NewTopUp() (models.NewTopUp, error) {
	return e.TopUp.ToNewTopUp()
}

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the journal file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Track records topUp in the given state, replacing any previous state for
// the same key. The request payload of an existing entry is never changed.
func (s *Store) Track(topUp models.NewTopUp, state string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		key := []byte(topUp.IdempotencyKey())

		entry := Entry{Key: topUp.IdempotencyKey(), TopUp: dto.FromNewTopUp(topUp)}
		if existing := b.Get(key); existing != nil {
			if err := json.Unmarshal(existing, &entry); err != nil {
				return err
			}
		}
		entry.State = state
		entry.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// Forget drops the entry for key. Forgetting an unknown key is not an error.
func (s *Store) Forget(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}

func (s *Store) Get(key string) (*Entry, error) {
	var e Entry

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// List returns all entries, oldest first.
func (s *Store) List() ([]Entry, error) {
	entries := []Entry{}

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TopUp.CreatedAt.Before(entries[j].TopUp.CreatedAt)
	})
	return entries, nil
}
