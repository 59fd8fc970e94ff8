package auth

import (
	"crypto/ed25519"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

var (
	ErrBadAddress   = errors.New("wallet address is not a valid public key")
	ErrBadSignature = errors.New("signature verification failed")
	ErrNoNonce      = errors.New("no login nonce issued for wallet")
)

// LoginMessage is what the wallet extension is asked to sign.
func LoginMessage(nonce string) string {
	return "GigaAura login: " + nonce
}

// VerifyWalletSignature checks an ed25519 signature over message, where the
// wallet address is the base58-encoded public key.
func VerifyWalletSignature(walletAddress, message, signatureB58 string) error {
	pub, err := base58.Decode(walletAddress)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return ErrBadAddress
	}
	sig, err := base58.Decode(signatureB58)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrBadSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig) {
		return ErrBadSignature
	}
	return nil
}

// NonceStore hands out single-use login nonces with a short TTL.
type NonceStore struct {
	mu     sync.Mutex
	nonces map[string]nonceEntry
	ttl    time.Duration
}

type nonceEntry struct {
	nonce   string
	expires time.Time
}

func NewNonceStore(ttl time.Duration) *NonceStore {
	return &NonceStore{nonces: make(map[string]nonceEntry), ttl: ttl}
}

// Issue creates a fresh nonce for the wallet, replacing any previous one.
func (s *NonceStore) Issue(wallet string) string {
	nonce := uuid.NewString()
	s.mu.Lock()
	s.nonces[wallet] = nonceEntry{nonce: nonce, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nonce
}

// Consume returns and invalidates the wallet's nonce.
func (s *NonceStore) Consume(wallet string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.nonces[wallet]
	if !ok || time.Now().After(e.expires) {
		delete(s.nonces, wallet)
		return "", ErrNoNonce
	}
	delete(s.nonces, wallet)
	return e.nonce, nil
}
