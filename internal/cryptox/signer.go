package cryptox

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"
)

var ErrInvalidDigest = errors.New("digest must be 64 lowercase hex characters")

// KeyFormatError reports private key material that cannot be used for
// signing. It is terminal for the invocation that hit it.
type KeyFormatError struct {
	Reason string
	Err    error
}

func (e *KeyFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed private key: %s: %v", e.Reason, e.Err)
	}
	return "malformed private key: " + e.Reason
}

func (e *KeyFormatError) Unwrap() error { return e.Err }

// ParsePrivateKey accepts PEM encoded PKCS#1, PKCS#8 and SEC1 keys as well
// as OpenSSH private keys. Supported algorithms are RSA, ECDSA and Ed25519.
func ParsePrivateKey(material []byte) (crypto.Signer, error) {
	trimmed := bytes.TrimSpace(material)
	if len(trimmed) == 0 {
		return nil, &KeyFormatError{Reason: "empty key material"}
	}

	raw, err := ssh.ParseRawPrivateKey(trimmed)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, &KeyFormatError{Reason: "key is passphrase protected", Err: err}
		}
		return nil, &KeyFormatError{Reason: "unrecognized key encoding", Err: err}
	}

	switch k := raw.(type) {
	case *rsa.PrivateKey:
		return k, nil
	case *ecdsa.PrivateKey:
		return k, nil
	case ed25519.PrivateKey:
		return k, nil
	case *ed25519.PrivateKey:
		return *k, nil
	default:
		return nil, &KeyFormatError{Reason: fmt.Sprintf("unsupported key type %T", raw)}
	}
}

// Algorithm names the signature scheme used for key.
func Algorithm(key crypto.Signer) string {
	switch key.(type) {
	case *rsa.PrivateKey:
		return "RSA-PSS-SHA256"
	case *ecdsa.PrivateKey:
		return "ECDSA-SHA256"
	case ed25519.PrivateKey:
		return "Ed25519"
	default:
		return "unknown"
	}
}

// SignDigest signs the ASCII bytes of digestHex with the private key in
// material and returns the base64 (standard alphabet) signature.
func SignDigest(digestHex string, material []byte) (string, error) {
	if !ValidDigest(digestHex) {
		return "", ErrInvalidDigest
	}
	key, err := ParsePrivateKey(material)
	if err != nil {
		return "", err
	}
	sig, err := sign(key, []byte(digestHex))
	if err != nil {
		return "", fmt.Errorf("sign digest: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

func sign(key crypto.Signer, msg []byte) ([]byte, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		h := sha256.Sum256(msg)
		return rsa.SignPSS(rand.Reader, k, crypto.SHA256, h[:], &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthAuto,
			Hash:       crypto.SHA256,
		})
	case *ecdsa.PrivateKey:
		h := sha256.Sum256(msg)
		return ecdsa.SignASN1(rand.Reader, k, h[:])
	case ed25519.PrivateKey:
		return ed25519.Sign(k, msg), nil
	default:
		return nil, &KeyFormatError{Reason: fmt.Sprintf("unsupported key type %T", key)}
	}
}

// PublicFingerprint returns the OpenSSH SHA256 fingerprint of the public
// half of the key in material, so a user can confirm which key is loaded
// without displaying it.
func PublicFingerprint(material []byte) (string, error) {
	key, err := ParsePrivateKey(material)
	if err != nil {
		return "", err
	}
	pub, err := ssh.NewPublicKey(key.Public())
	if err != nil {
		return "", &KeyFormatError{Reason: "cannot derive public key", Err: err}
	}
	return ssh.FingerprintSHA256(pub), nil
}
