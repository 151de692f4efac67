package scene

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/experiment"
)

// ErrInvalidScript indicates a script line that cannot be parsed.
var ErrInvalidScript = errors.New("invalid script")

// Op is a script command name.
type Op string

const (
	OpLook     Op = "look"
	OpInteract Op = "interact"
	OpBuy      Op = "buy"
	OpClose    Op = "close"
	OpAdd      Op = "add"
	OpEnd      Op = "end"
	OpConfirm  Op = "confirm"
	OpDecline  Op = "decline"
	OpWait     Op = "wait"
)

// Command is one parsed script line.
type Command struct {
	Line    int
	Op      Op
	Product string
	Wait    time.Duration
}

func (c Command) String() string {
	switch c.Op {
	case OpWait:
		return fmt.Sprintf("wait %s", c.Wait)
	case OpLook, OpAdd:
		if c.Product != "" {
			return fmt.Sprintf("%s %s", c.Op, c.Product)
		}
	}
	return string(c.Op)
}

// ParseScript reads one command per line. Blank lines and lines starting
// with # are skipped.
func ParseScript(r io.Reader) ([]Command, error) {
	var commands []Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidScript, lineNo, err)
		}
		cmd.Line = lineNo
		commands = append(commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return commands, nil
}

// ParseCommand parses a single script command.
func ParseCommand(line string) (Command, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	op := Op(strings.ToLower(name))
	arg = strings.TrimSpace(arg)

	switch op {
	case OpLook:
		return Command{Op: op, Product: arg}, nil
	case OpAdd:
		if arg == "" {
			return Command{}, fmt.Errorf("add needs a product")
		}
		return Command{Op: op, Product: arg}, nil
	case OpWait:
		d, err := parseWait(arg)
		if err != nil {
			return Command{}, err
		}
		return Command{Op: op, Wait: d}, nil
	case OpInteract, OpBuy, OpClose, OpEnd, OpConfirm, OpDecline:
		if arg != "" {
			return Command{}, fmt.Errorf("%s takes no argument", op)
		}
		return Command{Op: op}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", name)
	}
}

func parseWait(arg string) (time.Duration, error) {
	if arg == "" {
		return 0, fmt.Errorf("wait needs a duration")
	}
	if seconds, err := strconv.ParseFloat(arg, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("negative wait %q", arg)
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil {
		return 0, fmt.Errorf("parse wait %q: %w", arg, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative wait %q", arg)
	}
	return d, nil
}

// Driver decides where scene calls run and how time passes.
type Driver interface {
	// Do runs fn with exclusive access to the scene.
	Do(ctx context.Context, fn func()) error
	// Wait lets d of session time pass.
	Wait(ctx context.Context, d time.Duration) error
}

// VirtualDriver advances the scene without reading the clock.
type VirtualDriver struct {
	Scene *Scene
	// Step is the tick size. Defaults to 100ms.
	Step time.Duration
}

// Do runs fn immediately.
func (d VirtualDriver) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Wait ticks the scene in steps until d has passed.
func (d VirtualDriver) Wait(ctx context.Context, wait time.Duration) error {
	step := d.Step
	if step <= 0 {
		step = 100 * time.Millisecond
	}
	for wait > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		dt := min(step, wait)
		d.Scene.Tick(dt)
		wait -= dt
	}
	return nil
}

// RealtimeDriver runs calls on a Runner that ticks from the wall clock.
type RealtimeDriver struct {
	Runner *experiment.Runner
}

// Do runs fn on the runner goroutine.
func (d RealtimeDriver) Do(ctx context.Context, fn func()) error {
	return d.Runner.Do(ctx, fn)
}

// Wait sleeps while the runner keeps ticking.
func (d RealtimeDriver) Wait(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ScriptOptions configures Play.
type ScriptOptions struct {
	// Finish keeps time running after the last command until the session
	// ends.
	Finish bool
	// OnCommand is called before each command runs.
	OnCommand func(Command)
}

// Play runs commands against s through driver.
func Play(ctx context.Context, s *Scene, driver Driver, commands []Command, opts ScriptOptions) error {
	for _, cmd := range commands {
		if opts.OnCommand != nil {
			opts.OnCommand(cmd)
		}
		if cmd.Op == OpWait {
			if err := driver.Wait(ctx, cmd.Wait); err != nil {
				return err
			}
			continue
		}
		var runErr error
		if err := driver.Do(ctx, func() { runErr = Apply(s, cmd) }); err != nil {
			return err
		}
		if runErr != nil {
			return fmt.Errorf("line %d: %w", cmd.Line, runErr)
		}
	}
	if !opts.Finish {
		return nil
	}
	for {
		var (
			ended     bool
			running   bool
			remaining time.Duration
		)
		if err := driver.Do(ctx, func() {
			// A paused countdown never reaches zero on its own.
			if s.Controller.ConfirmOpen() {
				s.CancelEnd()
			}
			ended = s.Ended()
			running = s.Controller.State() == experiment.StateRunning && !s.Controller.Disposed()
			remaining = s.Controller.Remaining()
		}); err != nil {
			return err
		}
		if ended || remaining <= 0 {
			return nil
		}
		if !running {
			return fmt.Errorf("finish: %w", experiment.ErrNotRunning)
		}
		if err := driver.Wait(ctx, remaining); err != nil {
			return err
		}
	}
}

// Apply runs one non-wait command against s. Wait commands are ignored.
func Apply(s *Scene, cmd Command) error {
	switch cmd.Op {
	case OpLook:
		if cmd.Product == "" {
			s.LookAway()
			return nil
		}
		return s.Look(cmd.Product)
	case OpInteract:
		s.Interact()
	case OpBuy:
		s.Buy()
	case OpClose:
		s.Close()
	case OpAdd:
		return s.Add(cmd.Product)
	case OpEnd:
		s.RequestEnd()
	case OpConfirm:
		s.ConfirmEnd()
	case OpDecline:
		s.CancelEnd()
	}
	return nil
}
