package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List, show and create identification keys",
}

type keyTable []models.Key

func (t keyTable) header() []string {
	return []string{"ID", "TITLE", "STATUS", "LANGUAGES", "WORKGROUP"}
}

func (t keyTable) rows() [][]string {
	out := make([][]string, 0, len(t))
	for _, k := range t {
		out = append(out, []string{k.ID, keyTitle(k), string(k.Status), strings.Join(k.Languages, ","), k.WorkgroupID})
	}
	return out
}

func keyTitle(k models.Key) string {
	if len(k.Languages) > 0 {
		return k.Title.Best(k.Languages[0])
	}
	return k.Title.Best(constants.DefaultLanguage)
}

type revisionTable []models.Revision

func (t revisionTable) header() []string { return []string{"ID", "STATUS", "MODE", "CREATED", "NOTE"} }

func (t revisionTable) rows() [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		created := ""
		if r.CreatedAt != nil {
			created = humanize.Time(*r.CreatedAt)
		}
		out = append(out, []string{r.ID, string(r.EffectiveStatus()), fmt.Sprint(int(r.Mode)), created, r.Note})
	}
	return out
}

func init() {
	var list dto.ListKeysRequest
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			keys, err := env.keys().ListKeys(env.context(cmd), &list)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, keyTable(keys))
		},
	}
	listCmd.Flags().StringVar(&list.WorkgroupID, "workgroup", "", "only keys of this workgroup")
	listCmd.Flags().StringVar((*string)(&list.Status), "status", "", "only keys with this status")
	listCmd.Flags().BoolVar(&list.IncludeHidden, "hidden", false, "include hidden keys")

	var acceptedOnly bool
	getCmd := &cobra.Command{
		Use:   "get KEY_ID",
		Short: "Show a key with its revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			overview, err := env.keys().GetKeyOverview(env.context(cmd), args[0], acceptedOnly)
			if err != nil {
				return err
			}
			if opts.output == "table" {
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s  %s (%s)\n\n", overview.Key.ID, keyTitle(*overview.Key), overview.Key.Status)
				return render(w, opts.output, revisionTable(overview.Revisions))
			}
			return render(cmd.OutOrStdout(), opts.output, overview)
		},
	}
	getCmd.Flags().BoolVar(&acceptedOnly, "accepted", false, "only accepted revisions")

	var (
		title     []string
		languages []string
		create    dto.CreateKeyRequest
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a key with an empty first revision",
		Example: `  builder-admin keys create --language no --language en \
    --title no=Fugler --title en=Birds --workgroup wg1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			titles, err := parseTranslations(title)
			if err != nil {
				return err
			}
			create.Title = titles
			create.Languages = make(map[string]bool, len(languages))
			for _, l := range languages {
				create.Languages[l] = true
			}
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			created, err := env.keys().CreateKey(env.context(cmd), &create)
			if err != nil {
				return err
			}
			if opts.output == "table" {
				fmt.Fprintf(cmd.OutOrStdout(), "created key %s with revision %s\n", created.Key.ID, created.Revision.ID)
				return nil
			}
			return render(cmd.OutOrStdout(), opts.output, created)
		},
	}
	createCmd.Flags().StringArrayVar(&title, "title", nil, "title as LANG=TEXT; repeatable")
	createCmd.Flags().StringArrayVar(&languages, "language", []string{constants.DefaultLanguage}, "content language; repeatable")
	createCmd.Flags().StringVar(&create.WorkgroupID, "workgroup", "", "owning workgroup")
	createCmd.Flags().StringVar(&create.GroupID, "group", "", "key group")

	keysCmd.AddCommand(listCmd, getCmd, createCmd)
	rootCmd.AddCommand(keysCmd)
}

// parseTranslations turns LANG=TEXT pairs into translations
func parseTranslations(pairs []string) (models.Translations, error) {
	out := make(models.Translations, len(pairs))
	for _, p := range pairs {
		lang, text, ok := strings.Cut(p, "=")
		if !ok || lang == "" {
			return nil, fmt.Errorf("expected LANG=TEXT, got %q", p)
		}
		out[lang] = text
	}
	return out, nil
}
