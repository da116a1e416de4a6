// Copyright 2020 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package reports

import (
	"github.com/flosch/pongo2/v6"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
)

var log logging.Logger

// BootStrap checks and initializes the reports of the Registry.
// It panics if a report is invalid or if it is called twice.
func BootStrap() {
	if err := Registry.BootStrap(); err != nil {
		log.Panic("Error while bootstrapping reports", "error", err)
	}
}

func init() {
	log = logging.GetLogger("reports")
	if err := pongo2.RegisterFilter("markdown", filterMarkdown); err != nil {
		log.Panic("Unable to register markdown filter", "error", err)
	}
	if err := pongo2.RegisterFilter("sanitize", filterSanitize); err != nil {
		log.Panic("Unable to register sanitize filter", "error", err)
	}
	Registry = NewCollection()
	Register(ResolutionDocument)
	Register(ResolutionSummary)
}
