package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/curriculum"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Pick practice questions from the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts curriculum.FilterOpts
		opts.ChapterID, _ = cmd.Flags().GetString("chapter")
		opts.Type, _ = cmd.Flags().GetString("type")
		opts.Difficulty, _ = cmd.Flags().GetInt("difficulty")
		opts.WrongOnly, _ = cmd.Flags().GetBool("wrong-only")
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		seed, _ := cmd.Flags().GetUint64("seed")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		dataDir, err := requireDataDir(a.cfg)
		if err != nil {
			return err
		}
		bank, err := curriculum.LoadQuestionBank(questionBankPath(dataDir))
		if err != nil {
			return err
		}
		rec, err := a.tracker.Record(cmd.Context(), a.cfg.Learner)
		if err != nil {
			return err
		}

		var rng *rand.Rand
		if seed != 0 {
			rng = rand.New(rand.NewPCG(seed, seed))
		} else {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		res := curriculum.Filter(bank.Questions, opts, rec, rng)

		out := cmd.OutOrStdout()
		for i, q := range res.Questions {
			fmt.Fprintf(out, "%2d. %s %s\n", i+1, theme.Heading.Render(q.ID), theme.Hint.Render(fmt.Sprintf("[%s, difficulty %d]", q.Type, q.Difficulty)))
			fmt.Fprintf(out, "    %s\n", q.Question)
		}
		fmt.Fprintf(out, "\n%d of %d matching questions\n", len(res.Questions), res.Total)
		return nil
	},
}

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank",
}

var bankBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild question_bank.json from the lesson files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dataDir, err := requireDataDir(cfg)
		if err != nil {
			return err
		}

		bank, skipped, err := curriculum.BuildQuestionBank(dataDir)
		if err != nil {
			return err
		}
		for _, p := range skipped {
			fmt.Fprintln(os.Stderr, "skipped unreadable lesson file:", p)
		}

		path := questionBankPath(dataDir)
		if err := curriculum.WriteQuestionBank(path, bank); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", bank.TotalQuestions, path)
		return nil
	},
}

func init() {
	questionsCmd.Flags().String("chapter", "", "Only questions from this chapter id")
	questionsCmd.Flags().String("type", "", "Only this question type (single_choice, multi_choice, judgment)")
	questionsCmd.Flags().Int("difficulty", 0, "Only this difficulty (1-3)")
	questionsCmd.Flags().Bool("wrong-only", false, "Only questions answered wrong before")
	questionsCmd.Flags().Int("limit", curriculum.DefaultQuestionLimit, "Maximum number of questions")
	questionsCmd.Flags().Uint64("seed", 0, "Shuffle seed (0 picks a random one)")

	bankCmd.AddCommand(bankBuildCmd)
}
