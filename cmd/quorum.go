// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/hexya-addons/boardresolutions/src/board"
	"github.com/hexya-addons/boardresolutions/src/workflow"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var quorumCmd = &cobra.Command{
	Use:   "quorum",
	Short: "Print the quorum and majority of meeting type policies",
	Long: `Print the quorum and the votes needed to pass of the meeting types defined in a YAML policy file,
for a board of the given size. The policy file holds a list of meeting types:

  - code: ORD
    name: Ordentliche Vorstandssitzung
    quorum_type: half_plus_one
    voting_majority: simple

Omitted fields take their default values. The database is not used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fileName, _ := cmd.Flags().GetString("policy")
		total, _ := cmd.Flags().GetInt("total")
		cast, _ := cmd.Flags().GetInt("cast")
		policies, err := loadPolicyFile(fileName)
		if err != nil {
			return err
		}
		return printPreviews(cmd.OutOrStdout(), policies, total, cast)
	},
}

// A policyRecord is a meeting type as written in a policy file.
// Nil fields keep the default value.
type policyRecord struct {
	Code                 string   `yaml:"code"`
	Name                 string   `yaml:"name"`
	QuorumType           string   `yaml:"quorum_type"`
	QuorumPercentage     *float64 `yaml:"quorum_percentage"`
	QuorumFixed          *int     `yaml:"quorum_fixed"`
	QuorumCustomFormula  string   `yaml:"quorum_custom_formula"`
	VotingMajority       string   `yaml:"voting_majority"`
	VotingMajorityCustom *float64 `yaml:"voting_majority_custom"`
	AllowSecretBallot    *bool    `yaml:"allow_secret_ballot"`
	AllowOpenBallot      *bool    `yaml:"allow_open_ballot"`
}

func (pr policyRecord) meetingType() *board.MeetingType {
	mt := board.NewMeetingType(pr.Code, pr.Name)
	if pr.QuorumType != "" {
		mt.QuorumType = board.QuorumType(pr.QuorumType)
	}
	if pr.QuorumPercentage != nil {
		mt.QuorumPercentage = *pr.QuorumPercentage
	}
	if pr.QuorumFixed != nil {
		mt.QuorumFixed = *pr.QuorumFixed
	}
	mt.QuorumCustomFormula = pr.QuorumCustomFormula
	if pr.VotingMajority != "" {
		mt.VotingMajority = board.MajorityType(pr.VotingMajority)
	}
	if pr.VotingMajorityCustom != nil {
		mt.VotingMajorityCustom = *pr.VotingMajorityCustom
	}
	if pr.AllowSecretBallot != nil {
		mt.AllowSecretBallot = *pr.AllowSecretBallot
	}
	if pr.AllowOpenBallot != nil {
		mt.AllowOpenBallot = *pr.AllowOpenBallot
	}
	return mt
}

// loadPolicyFile reads and validates the meeting types of the given
// YAML file.
func loadPolicyFile(fileName string) ([]*board.MeetingType, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read policy file")
	}
	return parsePolicies(data)
}

func parsePolicies(data []byte) ([]*board.MeetingType, error) {
	var records []policyRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "invalid policy file")
	}
	if len(records) == 0 {
		return nil, errors.New("policy file defines no meeting type")
	}
	res := make([]*board.MeetingType, len(records))
	for i, rec := range records {
		mt := rec.meetingType()
		if err := mt.Validate(); err != nil {
			return nil, errors.Wrapf(err, "policy #%d", i+1)
		}
		res[i] = mt
	}
	return res, nil
}

func printPreviews(w io.Writer, policies []*board.MeetingType, total, cast int) error {
	if total <= 0 {
		return errors.Errorf("the number of board members must be positive, got %d", total)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tQUORUM RULE\tQUORUM\tMAJORITY RULE\tVOTES CAST\tVOTES NEEDED")
	var warnings []string
	for _, mt := range policies {
		p := workflow.NewPreview(mt, total, cast)
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%d\t%d\n", mt.Code, p.QuorumRule, p.RequiredQuorum, p.TotalMembers,
			p.MajorityRule, p.VotesCast, p.RequiredVotes)
		if p.Fallback {
			warnings = append(warnings, fmt.Sprintf("%s: %s", mt.Code, p.Warning))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, warn := range warnings {
		fmt.Fprintln(w, "Warning:", warn)
	}
	return nil
}

func init() {
	quorumCmd.Flags().StringP("policy", "f", "policies.yaml", "YAML file with the meeting types to preview")
	quorumCmd.Flags().IntP("total", "n", 7, "Number of board members")
	quorumCmd.Flags().Int("cast", 0, "Number of votes cast. Defaults to the quorum")
	BoardCmd.AddCommand(quorumCmd)
}
