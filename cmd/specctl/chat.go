package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dashspec/engine/internal/chat"
)

func newChatCmd(a *app) *cobra.Command {
	var projectFlag, userFlag, flowFlag string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Answer a project's requirement questions in the terminal",
		Long: "Resumes the functional or design conversation of a project at its first unanswered question " +
			"and reads one answer per line until end of input or \"quit\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(projectFlag)
			if err != nil {
				return fmt.Errorf("invalid --project: %w", err)
			}
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			flow, err := chat.ParseFlow(flowFlag)
			if err != nil {
				return err
			}
			return runChat(cmd, a, projectID, userID, flow)
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "project id")
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "id of the user the answers are recorded for")
	cmd.Flags().StringVarP(&flowFlag, "flow", "f", string(chat.FlowFunctional), "functional or design")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// interactive reports whether r is a terminal, in which case a prompt
// marker is printed before each read.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runChat(cmd *cobra.Command, a *app, projectID, userID uuid.UUID, flow chat.Flow) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	gw, err := a.open(ctx)
	if err != nil {
		return err
	}
	engine := chat.NewEngine(gw, chat.Options{EditMode: a.editMode})

	s, prompt, err := engine.Start(ctx, projectID, userID, flow)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, prompt)

	marker := interactive(in)
	scanner := bufio.NewScanner(in)
	for {
		if marker {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "quit", "exit":
			return nil
		}
		var reply string
		s, reply, err = engine.Submit(ctx, s, line)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, reply)
	}
	return scanner.Err()
}
