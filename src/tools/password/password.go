// Copyright 2020 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package password hashes and verifies the board users' passwords.
// Hashes are stored as '$pbkdf2-sha256$<iterations>$<salt>$<key>'.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	scheme  = "pbkdf2-sha256"
	keyLen  = 32
	saltLen = 12
)

// Iterations is the number of PBKDF2 iterations of new hashes
var Iterations = 25000

// Hash returns the PBKDF2/SHA256 hash of the given password
func Hash(password string) (string, error) {
	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("unable to generate salt: %s", err)
	}
	salt := base64.RawStdEncoding.EncodeToString(raw)
	return format(Iterations, salt, derive(password, salt, Iterations)), nil
}

// Verify returns true if the given password matches the given hash.
// Malformed hashes never match.
func Verify(password, hash string) bool {
	iter, salt, ok := parse(hash)
	if !ok {
		return false
	}
	expected := format(iter, salt, derive(password, salt, iter))
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expected)) == 1
}

// NeedsRehash returns true if the given hash was computed with fewer
// iterations than currently configured, or is not a valid hash.
func NeedsRehash(hash string) bool {
	iter, _, ok := parse(hash)
	return !ok || iter < Iterations
}

func derive(password, salt string, iter int) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), iter, keyLen, sha256.New)
}

func format(iter int, salt string, key []byte) string {
	return fmt.Sprintf("$%s$%d$%s$%s", scheme, iter, salt, base64.StdEncoding.EncodeToString(key))
}

func parse(hash string) (int, string, bool) {
	parts := strings.Split(strings.TrimPrefix(hash, "$"), "$")
	if len(parts) != 4 || parts[0] != scheme {
		return 0, "", false
	}
	iter, err := strconv.Atoi(parts[1])
	if err != nil || iter <= 0 {
		return 0, "", false
	}
	return iter, parts[2], true
}
