package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwebster45206/bracket-wrap/internal/player"
	"github.com/spf13/cobra"
)

// ExitError carries a process exit code out of a RunE function so commands
// can be tested without calling os.Exit.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError extracts the exit code from an *ExitError.
func IsExitError(err error) (int, bool) {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code, true
	}
	return 0, false
}

// NewRootCommand builds the bracketwrap-console command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bracketwrap-console",
		Short:         "Play a Bracket Wrap story in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.Config.APIBaseURL, "api", app.Config.APIBaseURL, "bracket data API base URL")
	root.PersistentFlags().IntVar(&app.Config.Year, "year", app.Config.Year, "tournament year")

	root.AddCommand(newPlayCommand(app))
	root.AddCommand(newScriptCommand(app))
	return root
}

func newPlayCommand(app *App) *cobra.Command {
	var (
		req   playRequest
		slide int
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a bracket's story",
		Long: `Play a bracket's story in the terminal.

Without --bracket the player asks for a bracket ID first. --slide starts at
the given slide (1-based) and skips the intro; --resume picks up where the
last session for this bracket and group left off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if slide < 0 {
				return fmt.Errorf("--slide must be 1 or greater, got %d", slide)
			}
			req.BracketID = strings.TrimSpace(req.BracketID)
			req.Year = app.Config.Year
			req.Slide = slide - 1
			if err := app.RunProgram(NewPlayer(app, req)); err != nil {
				app.Logger.Error("Player exited with error", "error", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error running player: %v\n", err)
				return NewExitError(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.BracketID, "bracket", "", "bracket ID")
	cmd.Flags().StringVar(&req.GroupID, "group", "", "group ID for group slides")
	cmd.Flags().IntVar(&slide, "slide", 0, "start at this slide (1-based)")
	cmd.Flags().BoolVar(&req.Resume, "resume", false, "resume the last session")
	cmd.Flags().BoolVar(&req.NoIntro, "no-intro", false, "skip the intro sequence")
	return cmd
}

func newScriptCommand(app *App) *cobra.Command {
	var (
		req    playRequest
		inputs string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Replay inputs against a virtual clock",
		Long: `Replay a sequence of inputs against a bracket's story on a virtual clock
and print every state change. Inputs are separated by spaces or newlines:

  next | prev       keyboard navigation (next animates once a slide has loaded)
  goto N            jump to slide N (1-based)
  swipe DX          swipe with horizontal travel DX
  click X W         click at X on a screen W wide
  wait DURATION     advance the clock, e.g. wait 4s
  skip              skip the intro

Example:
  bracketwrap-console script --bracket b1 --inputs "skip wait 4s next wait 500ms"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := inputs
			if file != "" {
				raw, err := readScript(file)
				if err != nil {
					return err
				}
				src = raw
			}
			steps, err := parseScript(src)
			if err != nil {
				return err
			}
			req.Year = app.Config.Year
			req.Slide = -1
			ls, err := app.loadStory(cmd.Context(), req)
			if err != nil {
				return err
			}
			opts := player.Options{SkipIntro: req.NoIntro, SwipeThreshold: app.Config.SwipeThreshold}
			if err := runScript(cmd.OutOrStdout(), ls, steps, opts); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Script failed: %v\n", err)
				return NewExitError(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.BracketID, "bracket", "", "bracket ID")
	cmd.Flags().StringVar(&req.GroupID, "group", "", "group ID for group slides")
	cmd.Flags().BoolVar(&req.NoIntro, "no-intro", false, "start without the intro sequence")
	cmd.Flags().StringVar(&inputs, "inputs", "", "inputs to replay")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read inputs from a file, - for stdin")
	_ = cmd.MarkFlagRequired("bracket")
	return cmd
}

func readScript(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open script: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(raw), nil
}
