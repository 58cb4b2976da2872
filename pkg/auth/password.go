package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// HashPassword returns a bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("auth: empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether plain matches hash. Besides bcrypt it
// accepts the werkzeug formats written by earlier deployments:
// pbkdf2:<digest>[:<iterations>]$salt$hex and scrypt[:n:r:p]$salt$hex.
// An empty or unrecognised hash never matches.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	}
	return checkWerkzeug(hash, plain)
}

// NeedsRehash reports whether hash should be replaced by a fresh bcrypt
// hash after a successful login.
func NeedsRehash(hash string) bool {
	return hash != "" && !strings.HasPrefix(hash, "$2")
}

// Defaults werkzeug applies when the method omits its parameters.
const (
	werkzeugPBKDF2Iterations = 600000
	werkzeugScryptN          = 1 << 15
	werkzeugScryptR          = 8
	werkzeugScryptP          = 1
	werkzeugScryptKeyLen     = 64
)

func checkWerkzeug(stored, plain string) bool {
	method, rest, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	salt, want, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}
	expected, err := hex.DecodeString(want)
	if err != nil || len(expected) == 0 {
		return false
	}

	name, args, _ := strings.Cut(method, ":")
	var got []byte
	switch name {
	case "pbkdf2":
		got = werkzeugPBKDF2(args, []byte(plain), []byte(salt))
	case "scrypt":
		got = werkzeugScrypt(args, []byte(plain), []byte(salt))
	}
	return got != nil && subtle.ConstantTimeCompare(got, expected) == 1
}

func werkzeugPBKDF2(args string, password, salt []byte) []byte {
	digest, iterArg, _ := strings.Cut(args, ":")
	if digest == "" {
		digest = "sha256"
	}
	var h func() hash.Hash
	switch digest {
	case "sha256":
		h = sha256.New
	case "sha512":
		h = sha512.New
	case "sha1":
		h = sha1.New
	default:
		return nil
	}

	iterations := werkzeugPBKDF2Iterations
	if iterArg != "" {
		n, err := strconv.Atoi(iterArg)
		if err != nil || n <= 0 {
			return nil
		}
		iterations = n
	}
	return pbkdf2.Key(password, salt, iterations, h().Size(), h)
}

func werkzeugScrypt(args string, password, salt []byte) []byte {
	n, r, p := werkzeugScryptN, werkzeugScryptR, werkzeugScryptP
	if args != "" {
		parts := strings.Split(args, ":")
		if len(parts) != 3 {
			return nil
		}
		vals := make([]int, 3)
		for i, part := range parts {
			v, err := strconv.Atoi(part)
			if err != nil || v <= 0 {
				return nil
			}
			vals[i] = v
		}
		n, r, p = vals[0], vals[1], vals[2]
	}
	key, err := scrypt.Key(password, salt, n, r, p, werkzeugScryptKeyLen)
	if err != nil {
		return nil
	}
	return key
}
