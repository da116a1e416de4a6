// Copyright 2020 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package reports

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry holds the reports used to print resolutions
var Registry *Collection

// A Collection holds reports by id. Reports are added before the
// collection is bootstrapped and rendered after.
type Collection struct {
	mu           sync.RWMutex
	reports      map[string]Report
	bootstrapped bool
}

// NewCollection returns an empty Collection
func NewCollection() *Collection {
	return &Collection{reports: make(map[string]Report)}
}

// Add adds r to the collection. It panics if the collection is already
// bootstrapped or holds a report with the same id.
func (c *Collection) Add(r Report) {
	if err := c.add(r); err != nil {
		log.Panic("Unable to register report", "report", r.ID(), "error", err)
	}
}

func (c *Collection) add(r Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bootstrapped {
		return errors.New("reports are already bootstrapped")
	}
	if _, exists := c.reports[r.ID()]; exists {
		return errors.Errorf("report %s is already registered", r.ID())
	}
	c.reports[r.ID()] = r
	return nil
}

// Get returns the report with the given id. It fails if the collection
// is not bootstrapped yet.
func (c *Collection) Get(id string) (Report, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.bootstrapped {
		return nil, errors.Errorf("report %s requested before bootstrap", id)
	}
	r, ok := c.reports[id]
	if !ok {
		return nil, errors.Errorf("unknown report %s", id)
	}
	return r, nil
}

// IDs returns the sorted ids of all reports
func (c *Collection) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make([]string, 0, len(c.reports))
	for id := range c.reports {
		res = append(res, id)
	}
	sort.Strings(res)
	return res
}

// BootStrap initializes the reports in id order. The collection is
// bootstrapped only if all reports are valid.
func (c *Collection) BootStrap() error {
	ids := c.IDs()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bootstrapped {
		return errors.New("reports are already bootstrapped")
	}
	for _, id := range ids {
		if err := c.reports[id].Init(); err != nil {
			return errors.Wrapf(err, "invalid report %s", id)
		}
	}
	c.bootstrapped = true
	return nil
}

// Data is the context a report is rendered with
type Data map[string]interface{}

// A Document is a rendered report
type Document struct {
	Content  []byte
	MimeType string
	Filename string
}

// A Report renders a Document from Data
type Report interface {
	fmt.Stringer
	// ID returns the unique code of the report
	ID() string
	// Init checks and compiles the report. It is called at bootstrap.
	Init() error
	Render(data Data) (*Document, error)
}

// Register adds r to the Registry
func Register(r Report) {
	Registry.Add(r)
}
