package types

import "time"

// PeriodPerf is one row of an hourly/weekly/monthly performance table.
type PeriodPerf struct {
	Label   string  `json:"label"`
	Pnl     float64 `json:"pnl"`
	WinRate float64 `json:"win_rate"`
	Trades  int     `json:"trades"`
}

// WeekPerf extends PeriodPerf with the ISO week span.
type WeekPerf struct {
	PeriodPerf
	Year      int       `json:"year"`
	Week      int       `json:"week_num"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// MonthPerf groups a month's performance with its per-week breakdown.
type MonthPerf struct {
	PeriodPerf
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Weekly []WeekPerf `json:"weekly_data,omitempty"`
}

// Highlights names the best-performing slices of the journal.
type Highlights struct {
	BestSetup      *PeriodPerf `json:"best_setup,omitempty"`
	BestInstrument *PeriodPerf `json:"best_instrument,omitempty"`
	BestHour       *PeriodPerf `json:"best_time_of_day,omitempty"`
	BestWeek       *WeekPerf   `json:"best_week,omitempty"`
	BestMonth      *MonthPerf  `json:"best_month,omitempty"`
	Hourly         []PeriodPerf `json:"hourly_performance"`
	Weekly         []WeekPerf   `json:"weekly_performance"`
	Monthly        []MonthPerf  `json:"monthly_performance"`
}

// Streak is an unbroken run of winning or losing trades.
type Streak struct {
	Winning   bool      `json:"winning"`
	Count     int       `json:"count"`
	Pnl       float64   `json:"pnl"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// StreakReport summarizes win/loss runs across the journal.
type StreakReport struct {
	TotalTrades   int      `json:"total_trades"`
	WinningTrades int      `json:"winning_trades"`
	WinRate       float64  `json:"win_rate"`
	Current       *Streak  `json:"current_streak,omitempty"`
	LongestWin    *Streak  `json:"longest_winning_streak,omitempty"`
	LongestLoss   *Streak  `json:"longest_losing_streak,omitempty"`
	WinStreaks    []Streak `json:"winning_streaks"`
	LossStreaks   []Streak `json:"losing_streaks"`
}

// Report is the full engine output for one analysis run. It is plain data,
// safe to serialize, and owned by the caller.
type Report struct {
	GeneratedAt  time.Time              `json:"generated_at"`
	TradeCount   int                    `json:"trade_count"`
	Warnings     []string               `json:"warnings,omitempty"`
	Daily        map[string]DailyBucket `json:"daily"`
	Curve        []EquityPoint          `json:"equity_curve"`
	Resampled    []EquityPoint          `json:"resampled_curve,omitempty"`
	Metrics      RiskMetrics            `json:"metrics"`
	Summary      SummaryStats           `json:"summary"`
	Cohorts      []CombinationCohort    `json:"combinations"`
	BestByPnl    *CombinationCohort     `json:"best_by_pnl,omitempty"`
	BestByWin    *CombinationCohort     `json:"best_by_win_rate,omitempty"`
	BestByProfit *CombinationCohort     `json:"best_by_profit_factor,omitempty"`
	Highlights   Highlights             `json:"highlights"`
	Streaks      StreakReport           `json:"streaks"`
}
