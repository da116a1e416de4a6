// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"fmt"
	"time"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models/security"
)

// DefaultSequencePrefix is the prefix of resolution numbers
const DefaultSequencePrefix = "VB"

// A ResolutionSequence hands out resolution numbers of the form
// PREFIX-YYYY-NNN with one counter per year.
//
// Numbers are drawn in their own transaction: a number taken by a
// creation that fails afterwards is skipped, never reused.
type ResolutionSequence struct {
	db     *Database
	prefix string
}

// NewResolutionSequence returns a sequence reading from d. An empty
// prefix selects DefaultSequencePrefix.
func NewResolutionSequence(d *Database, prefix string) *ResolutionSequence {
	if prefix == "" {
		prefix = DefaultSequencePrefix
	}
	return &ResolutionSequence{db: d, prefix: prefix}
}

// NextResolutionNumber returns the next number for the year of date
func (s *ResolutionSequence) NextResolutionNumber(ctx context.Context, date time.Time) (string, error) {
	var number string
	err := s.db.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		name := fmt.Sprintf("board_resolution_%d_seq", date.Year())
		env.db.adapter.createSequence(env.Cr(), name)
		next := env.db.adapter.nextSequenceValue(env.Cr(), name)
		number = fmt.Sprintf("%s-%d-%03d", s.prefix, date.Year(), next)
	})
	return number, err
}

var _ board.SequenceGenerator = new(ResolutionSequence)
