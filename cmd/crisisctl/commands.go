package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
	"github.com/becomingxdev/CrisisCheckTest1/internal/session"
)

var contentType string

var guideCmd = &cobra.Command{
	Use:   "guide [message...]",
	Short: "Ask the crisis guide for emergency guidance",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGuide,
}

var factCheckCmd = &cobra.Command{
	Use:   "factcheck [claim...]",
	Short: "Fact-check a claim or image description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFactCheck,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Show the quick actions a reply text would get",
	Long:  `Runs the keyword classifier locally. No provider call is made.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

var quickStartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Print the crisis guide greeting and quick-start questions",
	Args:  cobra.NoArgs,
	RunE:  runQuickStart,
}

func runGuide(cmd *cobra.Command, args []string) error {
	p, closeFn, err := newPipeline(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	reply, err := p.CrisisGuide(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return replyError(out, models.KindCrisisGuide, err)
	}
	printGuide(out, reply)
	return nil
}

func runFactCheck(cmd *cobra.Command, args []string) error {
	p, closeFn, err := newPipeline(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	reply, err := p.FactCheck(cmd.Context(), strings.Join(args, " "), models.ContentType(contentType))
	if err != nil {
		return replyError(out, models.KindFactCheck, err)
	}
	printFactCheck(out, reply.FactCheck)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	printActions(cmd.OutOrStdout(), services.ClassifyQuickActions(strings.Join(args, " ")))
	return nil
}

func runQuickStart(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	greeting := session.Greeting(models.KindCrisisGuide)
	fmt.Fprintln(out, greeting.Text)
	fmt.Fprintln(out)
	printActions(out, greeting.QuickActions)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Quick Emergency Help:")
	for _, qs := range services.QuickStarts() {
		fmt.Fprintf(out, "  %-20s crisisctl guide %q\n", qs.Label, qs.Query)
	}
	return nil
}

// replyError prints the fixed fallback when the pipeline itself failed, so
// the user still sees the emergency numbers, and returns err for the exit
// code.
func replyError(out io.Writer, kind models.Kind, err error) error {
	if errors.Is(err, services.ErrEmptyMessage) {
		return errors.New("message is required")
	}
	var pErr *services.PipelineError
	if !errors.As(err, &pErr) {
		return err
	}

	fallback := services.Fallback(kind)
	if kind == models.KindFactCheck {
		printFactCheck(out, fallback.FactCheck)
	} else {
		printGuide(out, &fallback)
	}
	return fmt.Errorf("assistant unavailable (%s)", pErr.Reason)
}

func printGuide(out io.Writer, reply *models.AssistantReply) {
	fmt.Fprintln(out, reply.Text)
	if len(reply.QuickActions) > 0 {
		fmt.Fprintln(out)
		printActions(out, reply.QuickActions)
	}
}

func printActions(out io.Writer, actions []models.QuickAction) {
	for _, a := range actions {
		line := "  - " + a.Label
		if dial := a.Dial(); dial != "" {
			line += " (tel:" + dial + ")"
		}
		if a.Urgent {
			line += " [urgent]"
		}
		fmt.Fprintln(out, line)
	}
}

func printFactCheck(out io.Writer, result *models.FactCheckResult) {
	if result == nil {
		return
	}
	fmt.Fprintf(out, "Verdict:    %s\n", strings.ToUpper(string(result.Verdict)))
	fmt.Fprintf(out, "Confidence: %.0f%%\n", result.Confidence)
	fmt.Fprintln(out)
	fmt.Fprintln(out, result.Explanation)

	if len(result.KeyPoints) > 0 {
		fmt.Fprintln(out, "\nKey points:")
		for _, p := range result.KeyPoints {
			fmt.Fprintln(out, "  - "+p)
		}
	}
	if len(result.Sources) > 0 {
		fmt.Fprintln(out, "\nSources:")
		for _, s := range result.Sources {
			fmt.Fprintln(out, "  - "+s)
		}
	}
}
