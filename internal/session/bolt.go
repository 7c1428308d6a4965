// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/nacl/secretbox"
)

var (
	bucketName = []byte("session")
	currentKey = []byte("current")
)

const nonceSize = 24

// BoltTokenStore persists the session in a bbolt file. When a secret is
// configured the record is sealed with NaCl secretbox before it is written.
type BoltTokenStore struct {
	db  *bolt.DB
	key *[32]byte
}

// OpenBolt opens (creating if needed) the token database at path. An empty
// secret stores the record unsealed.
func OpenBolt(path, secret string) (*BoltTokenStore, error) {
	if path == "" {
		return nil, errors.New("session store: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("session store mkdir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("session store open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("session store init: %w", err)
	}

	s := &BoltTokenStore{db: db}
	if secret != "" {
		k := sha256.Sum256([]byte(secret))
		s.key = &k
	}
	return s, nil
}

// Close releases the database file.
func (s *BoltTokenStore) Close() error {
	return s.db.Close()
}

func (s *BoltTokenStore) Load() (*Data, error) {
	var stored []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(currentKey); v != nil {
			stored = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	if stored == nil {
		return nil, nil
	}

	payload, err := s.open(stored)
	if err != nil {
		return nil, err
	}
	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

func (s *BoltTokenStore) Save(data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	sealed, err := s.seal(payload)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(currentKey, sealed)
	})
}

func (s *BoltTokenStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(currentKey)
	})
}

// seal returns nonce || box when a key is set, else plaintext.
func (s *BoltTokenStore) seal(plaintext []byte) ([]byte, error) {
	if s.key == nil {
		return plaintext, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("session seal nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, s.key), nil
}

func (s *BoltTokenStore) open(stored []byte) ([]byte, error) {
	if s.key == nil {
		return stored, nil
	}
	if len(stored) < nonceSize+secretbox.Overhead {
		return nil, errors.New("session open: sealed record is too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], stored[:nonceSize])
	plaintext, ok := secretbox.Open(nil, stored[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, errors.New("session open: cannot decrypt sealed record")
	}
	return plaintext, nil
}
