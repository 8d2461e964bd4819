package history

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const DefaultLimit = 1000

var ErrClosed = errors.New("history closed")

var bucket = []byte("history")

// Store keeps the lines entered in the REPL in a bbolt database. Lines are
// keyed by the sequence of the bucket so iteration gives them back in the order
// they were appended. Only the last limit lines are kept.
type Store struct {
	db    *bolt.DB
	limit int
}

func Open(path string, limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db:    db,
		limit: limit,
	}, nil
}

// Append records line. Blank lines are ignored and lines spanning several
// physical lines are stored on a single one.
func (s *Store) Append(line string) error {
	if s.db == nil {
		return ErrClosed
	}
	line = strings.ReplaceAll(strings.TrimSpace(line), "\n", " ")
	if line == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(itob(seq), []byte(line)); err != nil {
			return err
		}
		return trim(b, s.limit)
	})
}

// Lines returns the recorded lines, oldest first.
func (s *Store) Lines() ([]string, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var list []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			list = append(list, string(v))
			return nil
		})
	})
	return list, err
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func trim(b *bolt.Bucket, limit int) error {
	var (
		n int
		c = b.Cursor()
	)
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	for k, _ := c.First(); k != nil && n > limit; k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return err
		}
		n--
	}
	return nil
}

func itob(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}
