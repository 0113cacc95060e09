package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/repository"
)

type premiseTable dto.PremiseResponse

func (t premiseTable) header() []string {
	return []string{"GROUP", "OPERATOR", "CHARACTER", "CONDITIONS"}
}

func (t premiseTable) rows() [][]string {
	var out [][]string
	for _, g := range t.Groups {
		for _, row := range g.Rows {
			conds := make([]string, 0, len(row.Leaves))
			for _, leaf := range row.Leaves {
				target := leaf.StateID
				if target == "" {
					target = leaf.Value.String()
				}
				conds = append(conds, string(leaf.Condition)+" "+target)
			}
			out = append(out, []string{fmt.Sprint(g.Index), string(g.Operator), row.CharacterID, strings.Join(conds, ", ")})
		}
	}
	return out
}

func init() {
	premiseCmd := &cobra.Command{
		Use:   "premise",
		Short: "Inspect logical premises",
	}
	showCmd := &cobra.Command{
		Use:   "show KEY_ID REVISION_ID CHARACTER_ID",
		Short: "Show the logical premise of a character",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			ref := repository.RevisionRef{KeyID: args[0], RevisionID: args[1]}
			premise, err := env.premises().GetPremise(env.context(cmd), ref, args[2])
			if err != nil {
				return err
			}
			if opts.output != "table" {
				return render(cmd.OutOrStdout(), opts.output, premise)
			}
			if len(premise.Groups) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no premise\n", args[2])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "groups joined by %s\n\n", premise.Operator)
			return render(cmd.OutOrStdout(), opts.output, premiseTable(*premise))
		},
	}
	premiseCmd.AddCommand(showCmd)
	rootCmd.AddCommand(premiseCmd)
}
