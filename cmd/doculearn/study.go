// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doculearn/doculearn/internal/schedule"
	"github.com/doculearn/doculearn/internal/session"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Study with spaced repetition (session, quiz, grade, due, plan)",
	Long: `Study runs the learning loop: start a session over a document's material,
answer its quiz, grade individual flashcards, and check what reviews the
SM-2 schedule has due.`,
}

// --- session subcommand ---

var studySessionCmd = &cobra.Command{
	Use:   "session [document-id]",
	Short: "Start a study session over a document",
	Long: `Session creates a study session for the document's generated material and
prints the quiz. New quiz questions and flashcards enter the review
schedule as due immediately; items with existing review state keep their
progress.

Answer the quiz with: study quiz <session-id> --answers 0,2,1,...`,
	Args: cobra.ExactArgs(1),
	RunE: runStudySession,
}

func runStudySession(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	orch := session.New(store)
	created, err := orch.CreateSession(cmd.Context(), learnerFlag(cmd), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Session %s (~%d min): %d questions, %d flashcards",
		created.Session.ID, created.Session.EstimatedMinutes,
		created.QuizQuestions, created.Flashcards)
	if created.SeededItems > 0 {
		fmt.Printf(", %d new review items", created.SeededItems)
	}
	fmt.Println()

	quiz, err := store.QuizQuestions(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for i, q := range quiz {
		fmt.Printf("\n%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Printf("   %d) %s\n", j, opt)
		}
	}
	fmt.Printf("\nAnswer with: doculearn study quiz %s --answers 0,1,...\n", created.Session.ID)
	return nil
}

// --- quiz subcommand ---

var studyQuizCmd = &cobra.Command{
	Use:   "quiz [session-id]",
	Short: "Submit quiz answers for a session",
	Long: `Quiz grades the submitted answers against the session's quiz, folds each
outcome into the review schedule, and prints the score with a recommended
next action and improvement suggestions.`,
	Args: cobra.ExactArgs(1),
	RunE: runStudyQuiz,
}

func runStudyQuiz(cmd *cobra.Command, args []string) error {
	answersFlag, _ := cmd.Flags().GetString("answers")
	if answersFlag == "" {
		return fmt.Errorf("provide --answers as comma-separated option indexes, e.g. --answers 0,2,1")
	}
	answers, err := parseAnswers(answersFlag)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	orch := session.New(store)
	result, err := orch.ProcessQuizAttempt(cmd.Context(), args[0], answers)
	if err != nil {
		return err
	}

	for i, r := range result.Results {
		mark := "✓"
		if !r.Correct {
			mark = "✗"
		}
		fmt.Printf("%s %d. %s\n", mark, i+1, r.Question)
		if !r.Correct {
			fmt.Printf("    correct: %d", r.CorrectAnswer)
			if r.Explanation != "" {
				fmt.Printf(" — %s", r.Explanation)
			}
			fmt.Println()
		}
	}

	fmt.Printf("\nScore: %.0f%% (%d/%d)\n", result.Score, result.Correct, result.Total)
	fmt.Println(result.Message)
	for _, s := range result.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
	return nil
}

func parseAnswers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	answers := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid answer %q: expected an option index", p)
		}
		answers = append(answers, n)
	}
	return answers, nil
}

// --- grade subcommand ---

var studyGradeCmd = &cobra.Command{
	Use:   "grade [item-id]",
	Short: "Grade one flashcard review",
	Long: `Grade records a self-assessed recall quality (0-5) for one review item and
reschedules it:

  0  complete blackout
  1  incorrect
  2  incorrect, but the answer felt familiar
  3  correct with serious difficulty
  4  correct after hesitation
  5  perfect recall`,
	Args: cobra.ExactArgs(1),
	RunE: runStudyGrade,
}

func runStudyGrade(cmd *cobra.Command, args []string) error {
	quality, _ := cmd.Flags().GetInt("quality")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	orch := session.New(store)
	item, err := orch.GradeReview(cmd.Context(), learnerFlag(cmd), args[0], schedule.Quality(quality))
	if err != nil {
		return err
	}

	fmt.Printf("%s: next review %s (interval %dd, easiness %.2f)\n",
		item.ID, item.DueDate.Format("2006-01-02"), item.IntervalDays, item.EasinessFactor)
	return nil
}

// --- due subcommand ---

var studyDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List reviews due now",
	RunE:  runStudyDue,
}

func runStudyDue(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	orch := session.New(store)
	plan, err := orch.BuildPlan(cmd.Context(), learnerFlag(cmd))
	if err != nil {
		return err
	}

	if len(plan.DueReviews) == 0 {
		fmt.Println("Nothing due. Nice work.")
		return nil
	}

	fmt.Printf("%-30s  %-10s  %-20s  %s\n", "Item", "Kind", "Concept", "Due")
	fmt.Println(strings.Repeat("-", 76))
	for _, r := range plan.DueReviews {
		fmt.Printf("%-30s  %-10s  %-20s  %s\n",
			clip(r.ID, 30), r.Kind, clip(r.Concept, 20), r.DueDate.Format("2006-01-02"))
	}
	fmt.Printf("\n%d reviews due\n", len(plan.DueReviews))
	return nil
}

// --- plan subcommand ---

var studyPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the personal study plan",
	Long: `Plan summarizes one learner's state: reviews due now, weak areas, the
daily streak, and progress toward the next point milestone.`,
	RunE: runStudyPlan,
}

func runStudyPlan(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	orch := session.New(store)
	plan, err := orch.BuildPlan(cmd.Context(), learnerFlag(cmd))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	fmt.Printf("Study plan for %s\n", plan.Learner)
	fmt.Printf("  Due reviews: %d\n", len(plan.DueReviews))
	if len(plan.WeakAreas) > 0 {
		fmt.Printf("  Weak areas:  %s\n", strings.Join(plan.WeakAreas, ", "))
	}
	fmt.Printf("  Streak:      %d day(s)\n", plan.Streak)
	fmt.Printf("  Points:      %d\n", plan.TotalPoints)
	if plan.NextMilestone.Target > 0 {
		fmt.Printf("  Milestone:   %d/%d (%.0f%%)\n",
			plan.NextMilestone.Current, plan.NextMilestone.Target, plan.NextMilestone.Progress)
	} else {
		fmt.Println("  Milestone:   all reached")
	}
	return nil
}

// --- shared helpers ---

func learnerFlag(cmd *cobra.Command) string {
	learner, _ := cmd.Flags().GetString("learner")
	if learner == "" {
		learner = "default"
	}
	return learner
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	studyCmd.PersistentFlags().String("learner", "default", "learner name the review state belongs to")

	studyQuizCmd.Flags().String("answers", "", "comma-separated option indexes, one per question")
	studyGradeCmd.Flags().Int("quality", 4, "recall quality 0-5")
	studyPlanCmd.Flags().Bool("json", false, "output the plan as JSON")

	studyCmd.AddCommand(studySessionCmd)
	studyCmd.AddCommand(studyQuizCmd)
	studyCmd.AddCommand(studyGradeCmd)
	studyCmd.AddCommand(studyDueCmd)
	studyCmd.AddCommand(studyPlanCmd)

	rootCmd.AddCommand(studyCmd)
}
