package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/notifier"
	"github.com/julianstephens/tracklit/internal/scheduler"
	"github.com/julianstephens/tracklit/internal/tui"
)

var ErrRemindersOff = errors.New("reminders are off; set an interval with 'tracklit settings --reminder N' or pass --minutes")

type RemindCmd struct {
	Minutes  int  `help:"Reminder interval in minutes. Defaults to the stored setting."`
	Once     bool `help:"Send one reminder now and exit."`
	Watch    bool `help:"Show a live countdown with water progress."`
	DryRun   bool `help:"Print reminders to the terminal instead of the tray app."`
}

func (c *RemindCmd) interval(ctx *cli.Context) (time.Duration, error) {
	minutes := c.Minutes
	if minutes <= 0 {
		snap, err := ctx.Repo().Snapshot()
		if err != nil {
			return 0, err
		}
		minutes = snap.Settings.Reminder.Or(0)
	}
	if minutes <= 0 {
		return 0, ErrRemindersOff
	}
	return time.Duration(minutes) * time.Minute, nil
}

func (c *RemindCmd) sender(ctx *cli.Context) notifier.Sender {
	term := notifier.Terminal{W: ctx.Writer()}
	if c.DryRun {
		return term
	}
	return notifier.Fallback{Primary: notifier.NewTray(), Secondary: term}
}

func (c *RemindCmd) message(ctx *cli.Context) string {
	if ctx.Config.ReminderMessage != "" {
		return ctx.Config.ReminderMessage
	}
	return constants.DefaultReminderMessage
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	msg := c.message(ctx)
	if c.Once {
		return c.sender(ctx).Notify(context.Background(), msg)
	}

	every, err := c.interval(ctx)
	if err != nil {
		return err
	}

	if !c.Watch {
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return c.runHeadless(sigCtx, ctx, every, msg)
	}

	ctx.PerformAutomaticBackup()
	tray := notifier.NewTray()
	m, err := tui.NewReminderModel(tui.ReminderOptions{
		Repo:     ctx.Repo(),
		Interval: every,
		Message:  msg,
		Notify: func(text string) error {
			if c.DryRun {
				return nil
			}
			return tray.Notify(context.Background(), text)
		},
		Now: ctx.Now,
	})
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("reminder view failed: %w", err)
	}
	return nil
}

// runHeadless sends msg every interval until ctx is done.
func (c *RemindCmd) runHeadless(runCtx context.Context, ctx *cli.Context, every time.Duration, msg string) error {
	send := c.sender(ctx)
	var opts []scheduler.Option
	if ctx.Now != nil {
		opts = append(opts, scheduler.WithClock(ctx.Now))
	}
	sched := scheduler.New(opts...)
	if _, err := sched.Schedule("reminder", every, func(time.Time) {
		if err := send.Notify(runCtx, msg); err != nil {
			logger.Warn("Reminder not delivered", "error", err)
		}
	}); err != nil {
		return err
	}

	ctx.Printf("Reminding every %s. Press Ctrl+C to stop.\n", every)
	err := sched.Run(runCtx, constants.SchedulerResolution)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
