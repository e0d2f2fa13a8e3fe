package constants

import "time"

// TrackerKind identifies one of the intake trackers
type TrackerKind string

const (
	AppName            = "tracklit"
	DefaultKeyringUser = "database-connection"
	DefaultDBPath      = "~/.config/tracklit/tracklit.db"
	DefaultConfigFile  = "~/.config/tracklit/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the DateKey layout (YYYY-MM-DD, local calendar day)
	DateFormat = "2006-01-02"

	// TimestampFormat is used for entry timestamps and the export date
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Environment
	EnvDBConnection = "TRACKLIT_DB_CONNECTION"

	// Storage capacity defaults to the usual browser local storage budget
	DefaultCapacityBytes = 5 * 1024 * 1024

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tracklit-"
	BackupFileSuffix = ".db"

	// Export constants
	ExportVersion    = "1.0"
	ExportFilePrefix = "tracklit-backup-"
	ExportMIMEType   = "text/csv"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "tracklit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.tracklit"
	TrayExecutablePrefix   = "tracklit-tray"

	// Reminder defaults
	DefaultReminderMessage = "Time to drink some water!"
	SchedulerResolution    = time.Second

	// Goals applied by init
	DefaultWaterGoal   = 2000 // ml
	DefaultProteinGoal = 120  // g

	// Habit decode guard: rows addressing an index at or beyond this are dropped
	MaxHabitIndex = 1000

	// Tracker kinds
	TrackerWater   TrackerKind = "water"
	TrackerProtein TrackerKind = "protein"
)

// Store keys
const (
	KeyWaterGoal       = "water_goal"
	KeyWaterIntake     = "water_intake"
	KeyWaterHistory    = "water_history"
	KeyProteinGoal     = "protein_goal"
	KeyProteinIntake   = "protein_intake"
	KeyProteinHistory  = "protein_history"
	KeyWorkoutState    = "workout_state"
	KeyWorkoutCount    = "workout_count"
	KeyWorkoutHistory  = "workout_history"
	KeyHabitsData      = "habits_data"
	KeyTheme           = "theme"
	KeyReminderMinutes = "reminder_interval"
)

// TrackerKeys returns the goal, intake and history keys for an intake tracker.
func TrackerKeys(kind TrackerKind) (goal, intake, history string) {
	switch kind {
	case TrackerProtein:
		return KeyProteinGoal, KeyProteinIntake, KeyProteinHistory
	default:
		return KeyWaterGoal, KeyWaterIntake, KeyWaterHistory
	}
}

// Habit statuses
const (
	StatusDone = "done"
	StatusFail = "fail"
)
