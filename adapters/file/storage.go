// Package file persists session state to a single JSON file, the closest
// analog of the browser local storage the hosted client used. Writes are
// atomic (temp file + rename). With a secret configured the file is sealed
// with XChaCha20-Poly1305 under an argon2id-derived key, so a bearer token at
// rest is not a plaintext grep away.
package file

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/markap/adminkit/core"
)

const (
	saltLength = 16

	// argon2id parameters for deriving the file key from the secret.
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLength    = chacha20poly1305.KeySize
)

var ErrCiphertextTooShort = errors.New("encrypted state file is truncated")

// Storage is a file-backed core.Storage.
type Storage struct {
	mu     sync.Mutex
	path   string
	secret string
}

var _ core.Storage = (*Storage)(nil)

// New opens (or will create) a plaintext state file at path.
func New(path string) *Storage {
	return &Storage{path: path}
}

// NewEncrypted opens a state file sealed under the given secret.
func NewEncrypted(path, secret string) *Storage {
	return &Storage{path: path, secret: secret}
}

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", core.ErrKeyNotFound
	}
	return value, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return s.save(values)
}

// load reads the whole state map. A missing file is an empty map, and so is
// an unreadable one: cached session state is always discardable, never a
// reason to fail startup.
func (s *Storage) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if s.secret != "" {
		data, err = s.open(data)
		if err != nil {
			return map[string]string{}, nil
		}
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *Storage) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if s.secret != "" {
		data, err = s.seal(data)
		if err != nil {
			return err
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// seal encrypts plaintext as salt || nonce || ciphertext.
func (s *Storage) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := append(append([]byte{}, salt...), nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

func (s *Storage) open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltLength+chacha20poly1305.NonceSizeX {
		return nil, ErrCiphertextTooShort
	}

	salt := sealed[:saltLength]
	nonce := sealed[saltLength : saltLength+chacha20poly1305.NonceSizeX]
	ciphertext := sealed[saltLength+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt state file: %w", err)
	}
	return plaintext, nil
}

func (s *Storage) deriveKey(salt []byte) []byte {
	return argon2.IDKey([]byte(s.secret), salt, argonTime, argonMemory, argonThreads, keyLength)
}
