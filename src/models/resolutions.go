// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"time"

	"github.com/hexya-addons/boardresolutions/src/board"
)

// finalStates are the states of resolutions whose vote is recorded
var finalStates = []board.State{board.StateVoted, board.StateToApprove, board.StateApproved, board.StateArchived}

// CreateResolution inserts the given resolution with its attendance and
// ballot and sets its ID.
func (env Environment) CreateResolution(r *board.Resolution) int64 {
	if r.CompanyID == 0 {
		r.CompanyID = DefaultCompanyID
	}
	r.CreateDate, r.WriteDate = env.Now(), env.Now()
	r.ID = insertRecord(env, "board_resolution", r)
	env.writeLedger(r)
	return r.ID
}

// WriteResolution updates the given resolution with its attendance and ballot
func (env Environment) WriteResolution(r *board.Resolution) {
	r.WriteDate = env.Now()
	updateRecord(env, "board_resolution", r.ID, r)
	env.writeLedger(r)
}

// Resolution returns the resolution with the given id. If lock is true
// the row is locked until the end of the transaction.
func (env Environment) Resolution(id int64, lock bool) *board.Resolution {
	var r board.Resolution
	query := "SELECT * FROM board_resolution WHERE id = ?"
	if lock {
		query += env.db.adapter.forUpdate()
	}
	if !env.Cr().Find(&r, query, id) {
		panic(missingError("board_resolution", id))
	}
	env.restoreLedger(&r)
	return &r
}

// CompanyResolution returns the resolution with the given id if it
// belongs to the given company. Resolutions of other companies are
// reported as missing.
func (env Environment) CompanyResolution(companyID, id int64, lock bool) *board.Resolution {
	var r board.Resolution
	query := "SELECT * FROM board_resolution WHERE id = ? AND company_id = ?"
	if lock {
		query += env.db.adapter.forUpdate()
	}
	if !env.Cr().Find(&r, query, id, companyID) {
		panic(missingError("board_resolution", id))
	}
	env.restoreLedger(&r)
	return &r
}

// DeleteResolution removes the resolution with its attendance and votes
func (env Environment) DeleteResolution(id int64) {
	env.Cr().Execute("DELETE FROM board_resolution_vote WHERE resolution_id = ?", id)
	env.Cr().Execute("DELETE FROM board_resolution_attendee WHERE resolution_id = ?", id)
	res := env.Cr().Execute("DELETE FROM board_resolution WHERE id = ?", id)
	if n, _ := res.RowsAffected(); n == 0 {
		panic(missingError("board_resolution", id))
	}
}

// A ResolutionFilter restricts the resolutions returned by SearchResolutions.
// Zero fields do not filter.
type ResolutionFilter struct {
	CompanyID     int64
	State         board.State
	MeetingTypeID int64
	Year          int
	Limit         int
	Offset        int
}

// SearchResolutions returns the resolutions matching the filter, most
// recent first.
func (env Environment) SearchResolutions(f ResolutionFilter) []*board.Resolution {
	query := "SELECT * FROM board_resolution WHERE 1 = 1"
	var args []interface{}
	if f.CompanyID != 0 {
		query += " AND company_id = ?"
		args = append(args, f.CompanyID)
	}
	if f.State != "" {
		query += " AND state = ?"
		args = append(args, f.State)
	}
	if f.MeetingTypeID != 0 {
		query += " AND meeting_type_id = ?"
		args = append(args, f.MeetingTypeID)
	}
	if f.Year != 0 {
		query += " AND date >= ? AND date < ?"
		args = append(args, time.Date(f.Year, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(f.Year+1, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	query += " ORDER BY date DESC, name DESC"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}
	var res []*board.Resolution
	env.Cr().Select(&res, query, args...)
	for _, r := range res {
		env.restoreLedger(r)
	}
	return res
}

// MemberStatistics are the resolution counters of a board member
type MemberStatistics struct {
	PartnerID           int64 `json:"partner_id"`
	ResolutionsCount    int   `json:"resolutions_count"`
	ResolutionsAttended int   `json:"resolutions_attended"`
}

// MemberStatistics returns the number of voted resolutions of the
// partner's company and how many of them the partner attended. Both are
// 0 for partners who are not board members.
func (env Environment) MemberStatistics(partnerID int64) MemberStatistics {
	p := env.Partner(partnerID)
	res := MemberStatistics{PartnerID: partnerID}
	if !p.BoardMember {
		return res
	}
	env.Cr().Get(&res.ResolutionsCount,
		"SELECT COUNT(*) FROM board_resolution WHERE company_id = ? AND state IN (?)", p.CompanyID, finalStates)
	env.Cr().Get(&res.ResolutionsAttended, `
		SELECT COUNT(*) FROM board_resolution r
		JOIN board_resolution_attendee a ON a.resolution_id = r.id
		WHERE a.partner_id = ? AND r.state IN (?)`, partnerID, finalStates)
	return res
}

type voteRow struct {
	PartnerID int64        `db:"partner_id"`
	Choice    board.Choice `db:"choice"`
}

// restoreLedger reads the attendance and ballot of r
func (env Environment) restoreLedger(r *board.Resolution) {
	var present []int64
	env.Cr().Select(&present, "SELECT partner_id FROM board_resolution_attendee WHERE resolution_id = ? ORDER BY partner_id", r.ID)
	var (
		ballot board.VoteSnapshot
		err    error
	)
	if r.VotingMode == board.VotingSecret {
		ballot, err = board.NewSecretBallot(r.VotesFor, r.VotesAgainst, r.VotesAbstain)
	} else {
		var rows []voteRow
		env.Cr().Select(&rows, "SELECT partner_id, choice FROM board_resolution_vote WHERE resolution_id = ? ORDER BY partner_id", r.ID)
		byChoice := make(map[board.Choice][]int64)
		for _, row := range rows {
			byChoice[row.Choice] = append(byChoice[row.Choice], row.PartnerID)
		}
		ballot, err = board.NewOpenBallot(byChoice[board.ChoiceFor], byChoice[board.ChoiceAgainst], byChoice[board.ChoiceAbstain])
	}
	if err != nil {
		log.Panic("Corrupted ballot in database", "resolution", r.ID, "error", err)
	}
	r.Restore(board.NewMemberSet(present...), ballot)
}

// writeLedger replaces the attendance and ballot rows of r. Secret
// ballots only keep their counts on the resolution row.
func (env Environment) writeLedger(r *board.Resolution) {
	env.Cr().Execute("DELETE FROM board_resolution_attendee WHERE resolution_id = ?", r.ID)
	env.Cr().Execute("DELETE FROM board_resolution_vote WHERE resolution_id = ?", r.ID)
	for _, id := range r.PresentMembers().IDs() {
		env.Cr().Execute("INSERT INTO board_resolution_attendee (resolution_id, partner_id) VALUES (?, ?)", r.ID, id)
	}
	ballot := r.Ballot()
	if ballot.Mode() != board.VotingOpen {
		return
	}
	for _, c := range board.Choices {
		for _, id := range ballot.Members(c) {
			env.Cr().Execute("INSERT INTO board_resolution_vote (resolution_id, partner_id, choice) VALUES (?, ?, ?)", r.ID, id, c)
		}
	}
}
