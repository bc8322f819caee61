package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// maxPasswordLength caps the work a single sign-in attempt can cost.
const maxPasswordLength = 1024

// Errors returned by HashPassword.
var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
)

var errBadHash = errors.New("malformed password hash")

// passwordParams are the argon2id costs recorded in each stored hash.
type passwordParams struct {
	memoryKiB uint32
	passes    uint32
	lanes     uint8
	keyLen    uint32
}

// hashParams is the cost for new hashes: 19 MiB, two passes, one lane.
// Sign-ups and sign-ins share one small instance with the game traffic,
// so a burst of logins must not pin every core. Hashes written with
// other costs keep verifying.
var hashParams = passwordParams{memoryKiB: 19 * 1024, passes: 2, lanes: 1, keyLen: 32}

const saltLen = 16

func (p passwordParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.passes, p.memoryKiB, p.lanes, p.keyLen)
}

// HashPassword returns the argon2id hash of password as a PHC string,
// $argon2id$v=19$m=<KiB>,t=<passes>,p=<lanes>$<salt>$<key>.
func HashPassword(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > maxPasswordLength:
		return "", ErrPasswordTooLong
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read password salt: %w", err)
	}

	p := hashParams
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memoryKiB, p.passes, p.lanes,
		b64.EncodeToString(salt), b64.EncodeToString(p.derive(password, salt))), nil
}

var b64 = base64.RawStdEncoding

// VerifyPassword reports whether password matches the stored hash.
// A malformed hash counts as a mismatch so a corrupt row looks like a wrong
// password to the caller.
func VerifyPassword(stored, password string) (bool, error) {
	if len(password) > maxPasswordLength {
		return false, nil
	}

	p, salt, key, err := parsePHC(stored)
	if err != nil {
		//nolint:nilerr // see doc comment
		return false, nil
	}
	return subtle.ConstantTimeCompare(key, p.derive(password, salt)) == 1, nil
}

// parsePHC splits an argon2id PHC string into its costs, salt and key.
func parsePHC(stored string) (passwordParams, []byte, []byte, error) {
	var p passwordParams

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	fields := strings.Split(stored, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, nil, nil, errBadHash
	}
	if fields[2] != "v="+strconv.Itoa(argon2.Version) {
		return p, nil, nil, fmt.Errorf("%w: version %q", errBadHash, fields[2])
	}

	for _, kv := range strings.Split(fields[3], ",") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return p, nil, nil, errBadHash
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil || n == 0 {
			return p, nil, nil, fmt.Errorf("%w: %s", errBadHash, kv)
		}
		switch name {
		case "m":
			p.memoryKiB = uint32(n)
		case "t":
			p.passes = uint32(n)
		case "p":
			if n > 255 {
				return p, nil, nil, fmt.Errorf("%w: %s", errBadHash, kv)
			}
			p.lanes = uint8(n)
		default:
			return p, nil, nil, fmt.Errorf("%w: unknown cost %q", errBadHash, name)
		}
	}
	if p.memoryKiB == 0 || p.passes == 0 || p.lanes == 0 {
		return p, nil, nil, errBadHash
	}

	salt, err := b64.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", errBadHash, err)
	}
	key, err := b64.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: key", errBadHash)
	}
	p.keyLen = uint32(len(key)) //nolint:gosec // bounded by the column size
	return p, salt, key, nil
}
