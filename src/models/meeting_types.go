// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"time"

	"github.com/hexya-addons/boardresolutions/src/board"
)

// CreateMeetingType validates and inserts the given meeting type
func (env Environment) CreateMeetingType(mt *board.MeetingType) int64 {
	if mt.CompanyID == 0 {
		mt.CompanyID = DefaultCompanyID
	}
	if err := mt.Validate(); err != nil {
		panic(err)
	}
	mt.ID = insertRecord(env, "board_meeting_type", mt)
	return mt.ID
}

// WriteMeetingType validates and updates the given meeting type. The
// formula warning is cleared since the formula was saved again.
func (env Environment) WriteMeetingType(mt *board.MeetingType) {
	if err := mt.Validate(); err != nil {
		panic(err)
	}
	mt.FormulaWarning = ""
	mt.FormulaWarningDate = nil
	updateRecord(env, "board_meeting_type", mt.ID, mt)
}

// MeetingType returns the meeting type with the given id
func (env Environment) MeetingType(id int64) *board.MeetingType {
	var mt board.MeetingType
	if !env.Cr().Find(&mt, "SELECT * FROM board_meeting_type WHERE id = ?", id) {
		panic(missingError("board_meeting_type", id))
	}
	return &mt
}

// CompanyMeetingType returns the meeting type with the given id if it
// belongs to the given company.
func (env Environment) CompanyMeetingType(companyID, id int64) *board.MeetingType {
	var mt board.MeetingType
	if !env.Cr().Find(&mt, "SELECT * FROM board_meeting_type WHERE id = ? AND company_id = ?", id, companyID) {
		panic(missingError("board_meeting_type", id))
	}
	return &mt
}

// MeetingTypeByCode returns the meeting type of the company with the given code
func (env Environment) MeetingTypeByCode(companyID int64, code string) (*board.MeetingType, bool) {
	var mt board.MeetingType
	if !env.Cr().Find(&mt, "SELECT * FROM board_meeting_type WHERE company_id = ? AND code = ?", companyID, code) {
		return nil, false
	}
	return &mt, true
}

// SearchMeetingTypes returns the meeting types of the company ordered by
// sequence and name. Inactive types are included only if all is true.
func (env Environment) SearchMeetingTypes(companyID int64, all bool) []*board.MeetingType {
	var res []*board.MeetingType
	query := "SELECT * FROM board_meeting_type WHERE company_id = ?"
	args := []interface{}{companyID}
	if !all {
		query += " AND active = ?"
		args = append(args, true)
	}
	env.Cr().Select(&res, query+" ORDER BY sequence, name, id", args...)
	return res
}

// DefaultMeetingType returns the meeting type used for new resolutions:
// the active type with the given code if any, else the first active type.
func (env Environment) DefaultMeetingType(companyID int64, code string) (*board.MeetingType, bool) {
	if code != "" {
		if mt, ok := env.MeetingTypeByCode(companyID, code); ok && mt.Active {
			return mt, true
		}
		log.Warn("Configured default meeting type not found or inactive", "code", code, "company", companyID)
	}
	types := env.SearchMeetingTypes(companyID, false)
	if len(types) == 0 {
		return nil, false
	}
	return types[0], true
}

// MeetingTypeInUse returns true if a resolution references the meeting type
func (env Environment) MeetingTypeInUse(id int64) bool {
	var cnt int
	env.Cr().Get(&cnt, "SELECT COUNT(*) FROM board_resolution WHERE meeting_type_id = ?", id)
	return cnt > 0
}

// SetFormulaWarning records that the custom formula of the meeting type
// had to be replaced by half plus one.
func (env Environment) SetFormulaWarning(id int64, warning string, at time.Time) {
	env.Cr().Execute("UPDATE board_meeting_type SET formula_warning = ?, formula_warning_date = ? WHERE id = ?", warning, at, id)
}

// DeleteMeetingType removes an unused meeting type
func (env Environment) DeleteMeetingType(id int64) {
	env.Cr().Execute("DELETE FROM board_meeting_type WHERE id = ?", id)
}
