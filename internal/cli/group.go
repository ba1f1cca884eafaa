package cli

import (
	"github.com/spf13/cobra"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/service"
)

type groupMember struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

type groupOutput struct {
	Groups  model.Groups          `json:"groups"`
	Members map[int][]groupMember `json:"members"`
}

func newGroupCmd() *cobra.Command {
	var flags lotFlags
	cmd := &cobra.Command{
		Use:   "group --lots FILE",
		Short: "Group lots that look like duplicates of each other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			lots, err := flags.load()
			if err != nil {
				return err
			}

			groups := service.GroupSimilarLots(lots, flags.threshold)
			byID := make(map[int]model.Lot, len(lots))
			for _, l := range lots {
				byID[l.ID] = l
			}
			out := groupOutput{Groups: groups, Members: make(map[int][]groupMember, len(groups))}
			for _, g := range groups {
				for _, id := range g.Members {
					out.Members[g.ID] = append(out.Members[g.ID], groupMember{ID: id, Content: byID[id].Content})
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	flags.register(cmd, model.DefaultGroupThreshold)
	return cmd
}
