package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jwebster45206/bracket-wrap/internal/player"
	"github.com/jwebster45206/bracket-wrap/pkg/navigation"
	"github.com/jwebster45206/bracket-wrap/pkg/story"
	"github.com/jwebster45206/bracket-wrap/pkg/timeline"
)

// swipeOrigin is where scripted swipes start, far enough from zero that a
// negative travel stays on screen.
const swipeOrigin = 1000

type scriptStep struct {
	op    string
	n     int
	width int
	wait  time.Duration
}

func (s scriptStep) String() string {
	switch s.op {
	case "goto", "swipe":
		return fmt.Sprintf("%s %d", s.op, s.n)
	case "click":
		return fmt.Sprintf("click %d/%d", s.n, s.width)
	case "wait":
		return "wait " + s.wait.String()
	default:
		return s.op
	}
}

// parseScript reads whitespace separated inputs.
func parseScript(src string) ([]scriptStep, error) {
	fields := strings.Fields(src)
	var steps []scriptStep
	arg := func(i int, op string) (string, error) {
		if i >= len(fields) {
			return "", fmt.Errorf("%s: missing argument", op)
		}
		return fields[i], nil
	}
	atoi := func(i int, op string) (int, error) {
		raw, err := arg(i, op)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", op, raw)
		}
		return n, nil
	}

	for i := 0; i < len(fields); i++ {
		op := strings.ToLower(fields[i])
		step := scriptStep{op: op}
		switch op {
		case "next", "prev", "skip":
		case "goto", "swipe":
			n, err := atoi(i+1, op)
			if err != nil {
				return nil, err
			}
			step.n = n
			i++
		case "click":
			x, err := atoi(i+1, op)
			if err != nil {
				return nil, err
			}
			w, err := atoi(i+2, op)
			if err != nil {
				return nil, err
			}
			if w <= 0 {
				return nil, fmt.Errorf("click: width must be positive, got %d", w)
			}
			step.n, step.width = x, w
			i += 2
		case "wait":
			raw, err := arg(i+1, op)
			if err != nil {
				return nil, err
			}
			d, err := time.ParseDuration(raw)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("wait: bad duration %q", raw)
			}
			step.wait = d
			i++
		default:
			return nil, fmt.Errorf("unknown input %q", fields[i])
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// runScript plays steps against ls on a virtual clock and writes one line per
// step and per state change.
func runScript(w io.Writer, ls *loadedStory, steps []scriptStep, opts player.Options) error {
	sched := timeline.NewScheduler()
	opts.Start = ls.Start
	opts.Clock = sched.Now
	opts.Observers = append(opts.Observers, func(prev, next story.State) {
		fmt.Fprintf(w, "%8s  change  %s -> %s\n", sched.Now(), prev, next)
	})

	pb, err := player.New(ls.Registry, ls.Teams, opts)
	if err != nil {
		return err
	}
	defer pb.Close()

	fmt.Fprintf(w, "story: %d slides: %s\n", ls.Registry.Len(), strings.Join(ls.Registry.IDs(), ", "))
	sched.Run(0, pb)
	printStep(w, sched, pb, "start", "")

	for _, step := range steps {
		var result string
		var d time.Duration
		switch step.op {
		case "next":
			result = pb.Key(navigation.KeyRight).String()
		case "prev":
			result = pb.Key(navigation.KeyLeft).String()
		case "skip":
			pb.SkipIntro()
		case "goto":
			if err := pb.GoTo(step.n - 1); err != nil {
				result = "error: " + err.Error()
			}
		case "swipe":
			pb.PointerDown(swipeOrigin)
			result = pb.PointerUp(swipeOrigin+step.n, 2*swipeOrigin, nil).String()
		case "click":
			pb.PointerDown(step.n)
			result = pb.PointerUp(step.n, step.width, nil).String()
		case "wait":
			d = step.wait
		}
		sched.Run(d, pb)
		printStep(w, sched, pb, step.String(), result)
	}
	return nil
}

func printStep(w io.Writer, sched *timeline.Scheduler, pb *player.Playback, label, result string) {
	stage := pb.Stage()
	if pb.InIntro() {
		stage = "intro/" + pb.IntroStage()
	}
	if result != "" {
		label += " => " + result
	}
	fmt.Fprintf(w, "%8s  %-24s %s stage=%s\n", sched.Now(), label, pb.State(), stage)
}
