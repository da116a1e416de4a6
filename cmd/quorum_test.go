// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hexya-addons/boardresolutions/src/board"
	. "github.com/smartystreets/goconvey/convey"
)

const policyFile = `
- code: ORD
  name: Ordentliche Vorstandssitzung
- code: SAT
  name: Satzungsänderung
  quorum_type: two_thirds
  voting_majority: two_thirds
  allow_open_ballot: false
- code: CUS
  name: Sondersitzung
  quorum_type: custom
  quorum_custom_formula: total_members // 2 + 1 + 0 / (total_members - 9)
  voting_majority: custom
  voting_majority_custom: 55
`

func TestQuorumCommand(t *testing.T) {
	Convey("Testing the quorum command", t, func() {
		Convey("Policy files are read with defaults for omitted fields", func() {
			policies, err := parsePolicies([]byte(policyFile))
			So(err, ShouldBeNil)
			So(policies, ShouldHaveLength, 3)
			So(policies[0].QuorumType, ShouldEqual, board.QuorumHalfPlusOne)
			So(policies[0].VotingMajority, ShouldEqual, board.MajoritySimple)
			So(policies[0].AllowOpenBallot, ShouldBeTrue)
			So(policies[1].AllowOpenBallot, ShouldBeFalse)
			So(policies[1].AllowSecretBallot, ShouldBeTrue)
			So(policies[2].VotingMajorityCustom, ShouldEqual, 55)
		})
		Convey("Invalid policies are reported with their position", func() {
			_, err := parsePolicies([]byte("- code: BAD\n  name: Bad\n  quorum_type: fixed\n  quorum_fixed: 0\n"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "policy #1")
			So(err.Error(), ShouldContainSubstring, "fixed quorum must be greater than 0")
			_, err = parsePolicies([]byte("[]"))
			So(err, ShouldNotBeNil)
			_, err = parsePolicies([]byte("code: [ORD"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid policy file")
		})
		Convey("Previews are printed for each policy", func() {
			policies, err := parsePolicies([]byte(policyFile))
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printPreviews(&buf, policies, 7, 0), ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, "Half + 1")
			So(out, ShouldContainSubstring, "4/7")
			So(out, ShouldContainSubstring, "5/7")
			So(out, ShouldContainSubstring, "Custom (55%)")
			So(out, ShouldNotContainSubstring, "Warning:")
			So(printPreviews(&buf, policies, 0, 0), ShouldNotBeNil)
		})
		Convey("Formula failures print the fallback warning", func() {
			dir, err := os.MkdirTemp("", "board-quorum")
			So(err, ShouldBeNil)
			defer os.RemoveAll(dir)
			fileName := filepath.Join(dir, "policies.yaml")
			So(os.WriteFile(fileName, []byte(policyFile), 0644), ShouldBeNil)

			var buf bytes.Buffer
			quorumCmd.SetOut(&buf)
			So(quorumCmd.Flags().Set("policy", fileName), ShouldBeNil)
			So(quorumCmd.Flags().Set("total", "9"), ShouldBeNil)
			So(quorumCmd.RunE(quorumCmd, nil), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "5/9")
			So(buf.String(), ShouldContainSubstring, "Warning: CUS:")
			So(buf.String(), ShouldContainSubstring, "falling back to half plus one (5)")

			So(quorumCmd.Flags().Set("policy", filepath.Join(dir, "missing.yaml")), ShouldBeNil)
			err = quorumCmd.RunE(quorumCmd, nil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unable to read policy file")
		})
	})
}
