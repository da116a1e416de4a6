// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/pkg/errors"
)

// LoadDataDir loads all XML then all CSV data files of the given
// directory and its subdirectories, each kind in path order. Records
// that already exist are left untouched.
func (d *Database) LoadDataDir(ctx context.Context, dir string) error {
	for _, ext := range []string{"*.xml", "*.csv"} {
		files, err := doublestar.FilepathGlob(filepath.Join(dir, "**", ext))
		if err != nil {
			return errors.Wrapf(err, "unable to list data files in %s", dir)
		}
		sort.Strings(files)
		for _, fileName := range files {
			load := d.LoadXMLDataFile
			if ext == "*.csv" {
				load = d.LoadCSVDataFile
			}
			if err := load(ctx, fileName); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadXMLDataFile loads the meeting type records of the given XML file.
//
// The file has the following form:
//
//	<hexya>
//	    <data>
//	        <record id="meeting_type_regular" model="BoardMeetingType">
//	            <field name="code">ORD</field>
//	            <field name="quorum_type">half_plus_one</field>
//	        </record>
//	    </data>
//	</hexya>
func (d *Database) LoadXMLDataFile(ctx context.Context, fileName string) error {
	log.Info("Importing data file", "fileName", fileName)
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(fileName); err != nil {
		return errors.Wrapf(err, "unable to read XML data file %s", fileName)
	}
	var types []*board.MeetingType
	for _, rec := range doc.FindElements("//record") {
		if model := rec.SelectAttrValue("model", ""); model != "BoardMeetingType" {
			return fmt.Errorf("%s: unsupported model %q in record %s", fileName, model, rec.SelectAttrValue("id", ""))
		}
		mt := board.NewMeetingType("", "")
		for _, field := range rec.SelectElements("field") {
			name := field.SelectAttrValue("name", "")
			if err := setMeetingTypeField(mt, name, strings.TrimSpace(field.Text())); err != nil {
				return errors.Wrapf(err, "%s: record %s", fileName, rec.SelectAttrValue("id", ""))
			}
		}
		types = append(types, mt)
	}
	err := d.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		for _, mt := range types {
			if mt.CompanyID == 0 {
				mt.CompanyID = DefaultCompanyID
			}
			if _, exists := env.MeetingTypeByCode(mt.CompanyID, mt.Code); exists {
				continue
			}
			env.CreateMeetingType(mt)
		}
	})
	if err != nil {
		return errors.Wrapf(err, "unable to load %s", fileName)
	}
	log.Debug("Data file imported successfully", "fileName", fileName)
	return nil
}

// setMeetingTypeField sets the field with the given column name from its
// text value.
func setMeetingTypeField(mt *board.MeetingType, name, value string) error {
	var err error
	switch name {
	case "code":
		mt.Code = value
	case "name":
		mt.Name = value
	case "description":
		mt.Description = value
	case "sequence":
		mt.Sequence, err = strconv.Atoi(value)
	case "color":
		mt.Color, err = strconv.Atoi(value)
	case "active":
		mt.Active, err = strconv.ParseBool(value)
	case "quorum_type":
		mt.QuorumType = board.QuorumType(value)
	case "quorum_percentage":
		mt.QuorumPercentage, err = strconv.ParseFloat(value, 64)
	case "quorum_fixed":
		mt.QuorumFixed, err = strconv.Atoi(value)
	case "quorum_custom_formula":
		mt.QuorumCustomFormula = value
	case "voting_majority":
		mt.VotingMajority = board.MajorityType(value)
	case "voting_majority_custom":
		mt.VotingMajorityCustom, err = strconv.ParseFloat(value, 64)
	case "allow_proxy_voting":
		mt.AllowProxyVoting, err = strconv.ParseBool(value)
	case "allow_secret_ballot":
		mt.AllowSecretBallot, err = strconv.ParseBool(value)
	case "allow_open_ballot":
		mt.AllowOpenBallot, err = strconv.ParseBool(value)
	case "company_id":
		mt.CompanyID, err = strconv.ParseInt(value, 10, 64)
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	if err != nil {
		return errors.Wrapf(err, "invalid value for field %s", name)
	}
	return nil
}

// LoadCSVDataFile loads the data of the given file into the database.
// The table is given by the file name: res_partner.csv or res_users.csv.
// Partners are matched on their name, users on their login. The groups
// column of users holds group ids separated by |.
func (d *Database) LoadCSVDataFile(ctx context.Context, fileName string) error {
	log.Info("Importing data file", "fileName", fileName)
	csvFile, err := os.Open(fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to open CSV data file %s", fileName)
	}
	defer csvFile.Close()

	tableName := strings.TrimLeft(strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName)), "0123456789-_")
	r := csv.NewReader(csvFile)
	headers, err := r.Read()
	if err != nil {
		return errors.Wrapf(err, "unable to read CSV headers in data file %s", fileName)
	}
	var records []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "unable to read %s", fileName)
		}
		values := make(map[string]string, len(headers))
		for i, h := range headers {
			values[strings.TrimSpace(h)] = strings.TrimSpace(record[i])
		}
		records = append(records, values)
	}

	err = d.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		for line, values := range records {
			switch tableName {
			case "res_partner":
				env.loadPartner(values, line+2, fileName)
			case "res_users":
				env.loadUser(values, line+2, fileName)
			default:
				log.Panic("Unsupported table in CSV data file", "fileName", fileName, "table", tableName)
			}
		}
	})
	if err != nil {
		return errors.Wrapf(err, "unable to load %s", fileName)
	}
	log.Debug("Data file imported successfully", "fileName", fileName)
	return nil
}

func (env Environment) loadPartner(values map[string]string, line int, fileName string) {
	var cnt int
	env.Cr().Get(&cnt, "SELECT COUNT(*) FROM res_partner WHERE name = ?", values["name"])
	if cnt > 0 {
		return
	}
	p := &Partner{
		Name:        values["name"],
		Email:       values["email"],
		BoardMember: parseCSVBool(values["board_member"]),
		Active:      values["active"] == "" || parseCSVBool(values["active"]),
		CompanyID:   parseCSVInt(values["company_id"], line, fileName),
	}
	env.CreatePartner(p)
}

func (env Environment) loadUser(values map[string]string, line int, fileName string) {
	if _, exists := env.UserByLogin(values["login"]); exists {
		return
	}
	u := &User{
		Login:     values["login"],
		Name:      values["name"],
		Password:  values["password"],
		Active:    true,
		CompanyID: parseCSVInt(values["company_id"], line, fileName),
	}
	if partner := values["partner"]; partner != "" {
		if !env.Cr().Find(&u.PartnerID, "SELECT id FROM res_partner WHERE name = ?", partner) {
			log.Panic("Unable to find related partner", "fileName", fileName, "line", line, "value", partner)
		}
	}
	var groups []string
	if values["groups"] != "" {
		groups = strings.Split(values["groups"], "|")
	}
	env.CreateUser(u, groups...)
}

func parseCSVBool(value string) bool {
	res, _ := strconv.ParseBool(value)
	return res
}

func parseCSVInt(value string, line int, fileName string) int64 {
	if value == "" {
		return 0
	}
	res, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		log.Panic("Error while converting integer", "fileName", fileName, "line", line, "value", value, "error", err)
	}
	return res
}
