package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artsapp/builder/internal/domain/service"
)

var revisionsCmd = &cobra.Command{
	Use:     "revisions",
	Aliases: []string{"rev"},
	Short:   "Inspect the revisions of a key",
}

type diffTable service.ContentDiff

func (t diffTable) header() []string { return []string{"PART", "ADDED", "REMOVED", "CHANGED"} }

func (t diffTable) rows() [][]string {
	row := func(name string, d service.IDDiff) []string {
		return []string{name, strings.Join(d.Added, ","), strings.Join(d.Removed, ","), strings.Join(d.Changed, ",")}
	}
	return [][]string{
		row("taxa", t.Taxa),
		row("characters", t.Characters),
		row("statements", t.Statements),
	}
}

func init() {
	var acceptedOnly bool
	listCmd := &cobra.Command{
		Use:   "list KEY_ID",
		Short: "List the revisions of a key, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			revs, err := env.revisions().ListRevisions(env.context(cmd), args[0], acceptedOnly)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, revisionTable(revs))
		},
	}
	listCmd.Flags().BoolVar(&acceptedOnly, "accepted", false, "only accepted revisions")

	diffCmd := &cobra.Command{
		Use:   "diff KEY_ID REVISION_ID OTHER_REVISION_ID",
		Short: "Compare the content of two revisions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			diff, err := env.revisions().Diff(env.context(cmd), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if opts.output == "table" && diff.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "revisions have the same content")
				return nil
			}
			if opts.output == "table" {
				return render(cmd.OutOrStdout(), opts.output, diffTable(diff))
			}
			return render(cmd.OutOrStdout(), opts.output, diff)
		},
	}

	revisionsCmd.AddCommand(listCmd, diffCmd)
	rootCmd.AddCommand(revisionsCmd)
}
