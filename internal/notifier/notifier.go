// Package notifier delivers reminder messages to the desktop tray app,
// falling back to the terminal when the tray is not running.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")
)

// Sender delivers a single notification.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

type payload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Tray posts notifications to the local tray app webhook.
type Tray struct {
	client *http.Client
}

func NewTray() *Tray {
	return &Tray{client: &http.Client{Timeout: 5 * time.Second}}
}

func (n *Tray) Notify(ctx context.Context, text string) error {
	dir, err := TrayAppConfigDir()
	if err != nil {
		return err
	}
	lf, err := readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	if err := lf.verifyProcess(); err != nil {
		return err
	}

	body := payload{Text: text, DurationMs: constants.NotificationDurationMs}
	var lastErr error
	for attempt := 0; attempt < constants.NotifyMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(constants.NotifyRetryDelay):
			}
		}
		if lastErr = n.send(ctx, lf, body); lastErr == nil {
			return nil
		}
		logger.Debug("Notification attempt failed", "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

// TrayAppConfigDir returns the directory holding the tray lockfile. The
// tray app may relocate it through lockfile_dir in its settings.json.
func TrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Warn("Ignoring unreadable tray settings", "error", err)
		return trayDir, nil
	}
	if d := store.Settings.LockfileDir; d != nil && *d != "" {
		return *d, nil
	}
	return trayDir, nil
}

// lockfile is the tray's "port|pid|secret" announcement.
type lockfile struct {
	Port   int
	PID    int
	Secret string
}

func readLockfile(path string) (lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return lockfile{}, ErrTrayNotRunning
	}
	return parseLockfile(string(content))
}

func parseLockfile(content string) (lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return lockfile{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lockfile{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}
	return lockfile{Port: port, PID: pid, Secret: secret}, nil
}

// verifyProcess guards against a stale lockfile whose PID was reused.
func (l lockfile) verifyProcess() error {
	process, err := findProcessFunc(l.PID)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", l.PID, constants.TrayExecutablePrefix, process.Executable())
	}
	return nil
}

func (n *Tray) send(ctx context.Context, lf lockfile, body payload) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := "http://127.0.0.1:" + strconv.Itoa(lf.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tracklit-Secret", lf.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}

// Terminal rings the bell and prints the message.
type Terminal struct {
	W io.Writer
}

func (t Terminal) Notify(_ context.Context, text string) error {
	_, err := fmt.Fprintf(t.W, "\a%s %s\n", time.Now().Format("15:04"), text)
	return err
}

// Fallback tries Primary and uses Secondary when it fails.
type Fallback struct {
	Primary   Sender
	Secondary Sender
}

func (f Fallback) Notify(ctx context.Context, text string) error {
	err := f.Primary.Notify(ctx, text)
	if err == nil {
		return nil
	}
	logger.Debug("Primary notifier failed, falling back", "error", err)
	return f.Secondary.Notify(ctx, text)
}
