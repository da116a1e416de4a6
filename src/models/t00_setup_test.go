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

package models

import (
	"context"
	"os"
	"testing"

	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/spf13/viper"
)

var ctx = context.Background()

func TestMain(m *testing.M) {
	viper.Set("LogLevel", "panic")
	if os.Getenv("BOARD_DEBUG") != "" {
		viper.Set("Debug", true)
		viper.Set("LogLevel", "debug")
		viper.Set("LogStdout", true)
	}
	logging.Initialize()
	os.Exit(m.Run())
}

// newTestDatabase returns a new in-memory database with an up to date schema
func newTestDatabase() *Database {
	d, err := DBConnect("sqlite", ConnectionParams{})
	if err != nil {
		panic(err)
	}
	if err := d.SyncDatabase(ctx); err != nil {
		panic(err)
	}
	return d
}

// mustExecute runs fnct in a new environment as super user and panics
// if it fails.
func mustExecute(d *Database, fnct func(env Environment)) {
	if err := d.ExecuteInNewEnvironment(ctx, security.SuperUserID, fnct); err != nil {
		panic(err)
	}
}
