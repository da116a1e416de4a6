// Copyright 2016 NDP Systèmes. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package security

import (
	"fmt"
	"strings"
	"sync"
)

// AuthenticationRegistry holds the backends used to log board users in
var AuthenticationRegistry *AuthBackendRegistry

// A UserNotFoundError is returned by a backend that does not know the
// login. The next backend is then tried.
type UserNotFoundError string

// Error returns the error message
func (e UserNotFoundError) Error() string {
	return fmt.Sprintf("unknown login %q", string(e))
}

// An InvalidCredentialsError is returned by a backend that knows the
// login but rejects the secret. No other backend is tried.
type InvalidCredentialsError string

// Error returns the error message
func (e InvalidCredentialsError) Error() string {
	return fmt.Sprintf("wrong credentials for login %q", string(e))
}

// An AuthBackend checks the secret of a board user
type AuthBackend interface {
	// Authenticate returns the user id of login if secret is valid.
	// It returns a UserNotFoundError or an InvalidCredentialsError on
	// failure.
	Authenticate(login, secret string) (int64, error)
}

// An AuthBackendFunc is a function used as an AuthBackend
type AuthBackendFunc func(login, secret string) (int64, error)

// Authenticate calls f
func (f AuthBackendFunc) Authenticate(login, secret string) (int64, error) {
	return f(login, secret)
}

// An AuthBackendRegistry tries several backends in turn.
// It is safe for concurrent use.
type AuthBackendRegistry struct {
	sync.RWMutex
	backends []AuthBackend
}

// RegisterBackend adds backend to the registry. The last registered
// backend is tried first.
func (ar *AuthBackendRegistry) RegisterBackend(backend AuthBackend) {
	ar.Lock()
	defer ar.Unlock()
	ar.backends = append([]AuthBackend{backend}, ar.backends...)
}

// Len returns the number of registered backends
func (ar *AuthBackendRegistry) Len() int {
	ar.RLock()
	defer ar.RUnlock()
	return len(ar.backends)
}

// Authenticate tries the backends until one knows the login. Blank
// logins and secrets are rejected without asking any backend.
func (ar *AuthBackendRegistry) Authenticate(login, secret string) (int64, error) {
	login = strings.TrimSpace(login)
	if login == "" || secret == "" {
		return 0, InvalidCredentialsError(login)
	}
	ar.RLock()
	backends := ar.backends
	ar.RUnlock()
	for _, backend := range backends {
		uid, err := backend.Authenticate(login, secret)
		if _, unknown := err.(UserNotFoundError); unknown {
			continue
		}
		return uid, err
	}
	return 0, UserNotFoundError(login)
}

var _ AuthBackend = new(AuthBackendRegistry)
