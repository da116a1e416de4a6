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

package server

import (
	"crypto/sha256"
	"crypto/tls"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/spf13/viper"
	"golang.org/x/crypto/acme/autocert"
)

// SessionName is the name of the session cookie
const SessionName = "board-session"

// A Server is the http server of the application
// It is internally a wrapper around a gin.Engine
type Server struct {
	*gin.Engine
}

// Group returns the router group of the board API routes at prefix
func (s *Server) Group(prefix string, middlewares ...HandlerFunc) *RouterGroup {
	return &RouterGroup{RouterGroup: *s.Engine.Group(prefix, adapt(middlewares)...)}
}

// Run attaches the router to a http.Server and starts listening and serving HTTP requests.
// Note: this method will block the calling goroutine indefinitely unless an error happens.
func (s *Server) Run(addr string) (err error) {
	defer func() { log.Error("HTTP server stopped", "error", err) }()

	log.Info("Board resolutions server is up and running HTTP", "address", addr)
	err = http.ListenAndServe(addr, s)
	return
}

// RunTLS attaches the router to a http.Server and starts listening and serving HTTPS (secure) requests.
// Note: this method will block the calling goroutine indefinitely unless an error happens.
func (s *Server) RunTLS(addr string, certFile string, keyFile string) (err error) {
	defer func() { log.Error("HTTPS server stopped", "error", err) }()

	log.Info("Board resolutions server is up and running HTTPS", "address", addr, "cert", certFile, "key", keyFile)
	err = http.ListenAndServeTLS(addr, certFile, keyFile, s)
	return
}

// RunAutoTLS attaches the router to a http.Server and starts listening and serving HTTPS (secure) requests on port 443
// for all interfaces.
// It automatically gets certificate for the given domain from Letsencrypt.
// Note: this method will block the calling goroutine indefinitely unless an error happens.
func (s *Server) RunAutoTLS(domain string) (err error) {
	defer func() { log.Error("HTTPS server stopped", "error", err) }()

	log.Info("Board resolutions server is up and running HTTPS auto", "domain", domain)

	cacheDir := filepath.Join(viper.GetString("DataDir"), "autotls")
	m := &autocert.Manager{
		Cache:      autocert.DirCache(cacheDir),
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domain),
	}
	go http.ListenAndServe(":http", m.HTTPHandler(nil))
	srv := &http.Server{
		Addr:      ":https",
		TLSConfig: &tls.Config{GetCertificate: m.GetCertificate},
		Handler:   s,
	}
	err = srv.ListenAndServeTLS("", "")
	return
}

// ErrorData is the format of the Data field of an ErrorResponse
type ErrorData struct {
	Arguments     []string `json:"arguments"`
	ExceptionType string   `json:"exception_type"`
	Debug         string   `json:"debug,omitempty"`
}

// An Error is the error of an ErrorResponse
type Error struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    ErrorData `json:"data"`
}

// An ErrorResponse is the message sent back to a client in case of
// failure
type ErrorResponse struct {
	Error Error `json:"error"`
}

var (
	boardServer *Server
	log         logging.Logger
)

// GetServer return the http server instance
func GetServer() *Server {
	return boardServer
}

// New returns a new server whose session cookies are authenticated with
// the given secret.
func New(secret string) *Server {
	hashKey := sha256.Sum256([]byte("hash:" + secret))
	blockKey := sha256.Sum256([]byte("block:" + secret))
	srv := &Server{gin.New()}
	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	})
	srv.Use(gin.Recovery())
	srv.Use(sessions.Sessions(SessionName, store))
	srv.Use(logging.LogForGin(log))
	return srv
}

// PreInit creates the application server from the configuration. In
// debug mode, gin runs in debug mode and the pprof handlers are served
// under /debug/pprof.
func PreInit() {
	secret := viper.GetString("Board.SessionSecret")
	if secret == "" {
		log.Warn("Board.SessionSecret is not set: sessions will not survive a restart")
		secret = randomSecret()
	}
	if viper.GetBool("Debug") {
		gin.SetMode(gin.DebugMode)
	}
	boardServer = New(secret)
	if viper.GetBool("Debug") {
		pprof.Register(boardServer.Engine)
	}
}

func init() {
	log = logging.GetLogger("server")
	// Set to ReleaseMode now for tests and is overridden in PreInit
	gin.SetMode(gin.ReleaseMode)
}
