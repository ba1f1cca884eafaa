package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/service"
)

type matchOutput struct {
	Message    string     `json:"message"`
	BestMatch  *model.Lot `json:"bestMatch"`
	Similarity float64    `json:"similarity"`
	AutoAssign bool       `json:"autoAssign"`
}

func newMatchCmd() *cobra.Command {
	var flags lotFlags
	cmd := &cobra.Command{
		Use:   "match --lots FILE MESSAGE...",
		Short: "Find the best lot for each message",
		Long: "Each argument is one donation message. A single - reads messages from stdin,\n" +
			"one per line. Exits with 1 when no message matched a lot.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			lots, err := flags.load()
			if err != nil {
				return err
			}
			messages := args
			if len(args) == 1 && args[0] == "-" {
				if messages, err = readMessages(cmd); err != nil {
					return err
				}
			}

			opt := model.DefaultOptions()
			opt.MatchThreshold = flags.threshold

			out := make([]matchOutput, len(messages))
			matched := 0
			for i, msg := range messages {
				res := service.Match(msg, lots, opt)
				if res.Found() {
					matched++
				}
				out[i] = matchOutput{
					Message:    msg,
					BestMatch:  res.BestMatch,
					Similarity: res.Similarity,
					AutoAssign: service.ShouldAutoAssign(res, opt),
				}
			}
			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if matched == 0 {
				return errNoMatch
			}
			return nil
		},
	}
	flags.register(cmd, model.SimilarityThreshold)
	return cmd
}

func readMessages(cmd *cobra.Command) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
