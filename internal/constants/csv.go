package constants

// CSV column names, in header order
const (
	ColDataType  = "data_type"
	ColKey       = "key"
	ColValue     = "value"
	ColDate      = "date"
	ColAmount    = "amount"
	ColTimestamp = "timestamp"
	ColType      = "type"
	ColCount     = "count"
	ColName      = "name"
	ColColor     = "color"
	ColCompleted = "completed"
	ColOrder     = "order"
)

// CSVHeader is the fixed export header. Every row carries exactly len(CSVHeader) fields.
var CSVHeader = []string{
	ColDataType, ColKey, ColValue, ColDate, ColAmount, ColTimestamp,
	ColType, ColCount, ColName, ColColor, ColCompleted, ColOrder,
}

// Row families (data_type values), in emission order
const (
	RowMeta           = "meta"
	RowWater          = "water"
	RowWaterHistory   = "water_history"
	RowProtein        = "protein"
	RowProteinHistory = "protein_history"
	RowWorkoutState   = "workout_state"
	RowWorkoutCount   = "workout_count"
	RowWorkoutHistory = "workout_history"
	RowHabit          = "habit"
	RowHabitHistory   = "habit_history"
	RowSettings       = "settings"
)

// Keys used in the key column of scalar rows
const (
	MetaVersion     = "version"
	MetaExportDate  = "exportDate"
	FieldGoal       = "goal"
	FieldIntake     = "intake"
	SettingTheme    = "theme"
	SettingReminder = "reminder"
)
