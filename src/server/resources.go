// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hexya-addons/boardresolutions/src/models"
	"github.com/pkg/errors"
)

// LoadDataRecords loads all the data records in the 'data' directory of
// resourceDir into the database. Meeting types are defined in XML files,
// partners and users in CSV files.
func LoadDataRecords(ctx context.Context, d *models.Database, resourceDir string) error {
	return loadData(ctx, d, resourceDir, "data")
}

// LoadDemoRecords loads all the data records in the 'demo' directory of
// resourceDir into the database.
func LoadDemoRecords(ctx context.Context, d *models.Database, resourceDir string) error {
	return loadData(ctx, d, resourceDir, "demo")
}

// loadData loads the files of the given sub directory of resourceDir
func loadData(ctx context.Context, d *models.Database, resourceDir, dir string) error {
	dataDir := filepath.Join(resourceDir, dir)
	if _, err := os.Stat(dataDir); err != nil {
		log.Info("No data directory", "dir", dataDir)
		return nil
	}
	if err := d.LoadDataDir(ctx, dataDir); err != nil {
		return errors.Wrapf(err, "unable to load %s records", dir)
	}
	log.Info("Data records loaded", "dir", dataDir)
	return nil
}
