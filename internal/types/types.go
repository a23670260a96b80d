package types

import "time"

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// RawTrade is a trade record as it arrives from an external source
// (JSON upload, CSV import, broker fetch). Fields are loosely shaped;
// the normalizer turns this into a Trade.
type RawTrade struct {
	ID         string            `json:"id,omitempty"`
	Symbol     string            `json:"symbol,omitempty"`
	Direction  string            `json:"direction,omitempty"`
	Date       string            `json:"date,omitempty"`
	EntryDate  string            `json:"entry_date,omitempty"`
	Timestamp  string            `json:"timestamp,omitempty"`
	CreatedAt  string            `json:"created_at,omitempty"`
	Pnl        any               `json:"pnl,omitempty"`
	RiskAmount *float64          `json:"risk_amount,omitempty"`
	IsWeek     bool              `json:"is_week,omitempty"`
	IsMonth    bool              `json:"is_month,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Trade is the canonical, validated record every analytics component
// operates on. EntryDate is the date-only day the trade is attributed to
// for calendar bucketing; Timestamp orders trades within a day.
type Trade struct {
	ID            string            `json:"id"`
	Symbol        string            `json:"symbol"`
	Direction     Direction         `json:"direction"`
	EntryDate     time.Time         `json:"entry_date"`
	Timestamp     time.Time         `json:"timestamp"`
	Pnl           float64           `json:"pnl"`
	RiskAmount    *float64          `json:"risk_amount,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	DateDefaulted bool              `json:"date_defaulted,omitempty"`
}

// DailyBucket aggregates all trades attributed to one calendar day.
type DailyBucket struct {
	Date       time.Time `json:"date"`
	Pnl        float64   `json:"pnl"`
	TradeCount int       `json:"trade_count"`
}

// EquityPoint is one step of the cumulative P&L series, one point per
// trading day (or per resampled period).
type EquityPoint struct {
	Date          time.Time `json:"date"`
	CumulativePnl float64   `json:"cumulative_pnl"`
	PeriodPnl     float64   `json:"period_pnl"`
	// PeriodReturnPct is the period's pnl over the magnitude of the
	// previous cumulative pnl; 0 when that base is near zero.
	PeriodReturnPct float64 `json:"period_return_pct"`
}

// RiskMetrics is derived from the equity curve, the trade list, and the
// initial account balance. SharpeRatio and Volatility are nil, not zero,
// when their preconditions are unmet; MissingInputs names what was absent.
type RiskMetrics struct {
	SharpeRatio *float64 `json:"sharpe_ratio"`
	// Volatility is the annualized daily-return volatility, as a percentage.
	Volatility *float64 `json:"volatility_pct"`
	// MaxDrawdown is the largest peak-to-trough decline of cumulative P&L,
	// reported as a non-positive amount.
	MaxDrawdown   float64  `json:"max_drawdown"`
	ProfitFactor  float64  `json:"profit_factor"`
	Expectancy    float64  `json:"expectancy"`
	WinRate       float64  `json:"win_rate"`
	AvgWin        float64  `json:"avg_win"`
	AvgLoss       float64  `json:"avg_loss"`
	GrossProfit   float64  `json:"gross_profit"`
	GrossLoss     float64  `json:"gross_loss"`
	MissingInputs []string `json:"missing_inputs,omitempty"`
}

// TradeRef points at a single notable trade in summary output.
type TradeRef struct {
	ID     string    `json:"id"`
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Pnl    float64   `json:"pnl"`
}

// SummaryStats carries the journal-wide aggregates that sit alongside
// RiskMetrics on the overview page.
type SummaryStats struct {
	TotalTrades          int       `json:"total_trades"`
	TotalPnl             float64   `json:"total_pnl"`
	AvgPnl               float64   `json:"avg_pnl"`
	Wins                 int       `json:"wins"`
	Losses               int       `json:"losses"`
	BreakEven            int       `json:"break_even"`
	KellyPct             *float64  `json:"kelly_percentage"`
	SortinoRatio         *float64  `json:"sortino_ratio"`
	RecoveryFactor       *float64  `json:"recovery_factor"`
	MaxConsecutiveWins   int       `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int       `json:"max_consecutive_losses"`
	MaxDrawdownPct       float64   `json:"max_drawdown_percent"`
	LongPnl              float64   `json:"long_pnl"`
	ShortPnl             float64   `json:"short_pnl"`
	BestTrade            *TradeRef `json:"best_trade,omitempty"`
	WorstTrade           *TradeRef `json:"worst_trade,omitempty"`
}

// AttributePair is one (variable name, value) component of a cohort key.
type AttributePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CombinationCohort is the set of trades sharing one specific combination
// of attribute values, with its aggregate performance. Built once per
// analysis request and never mutated afterwards.
type CombinationCohort struct {
	Key    []AttributePair `json:"key"`
	Label  string          `json:"label"`
	Trades int             `json:"trades"`
	Wins   int             `json:"wins"`
	Losses int             `json:"losses"`
	Pnl    float64         `json:"pnl"`
	// WinRate is a percentage over decided (non break-even) trades.
	WinRate float64 `json:"win_rate"`
	// AvgRiskReward averages pnl/riskAmount over trades that carry a risk
	// amount; nil when none do.
	AvgRiskReward *float64 `json:"avg_risk_reward"`
	ProfitFactor  float64  `json:"profit_factor"`
	Expectancy    float64  `json:"expectancy"`
	// MaxDrawdown is computed over the cohort's own chronological trade
	// sequence, reported as a non-positive amount.
	MaxDrawdown float64 `json:"max_drawdown"`
	GrossProfit float64 `json:"gross_profit"`
	GrossLoss   float64 `json:"gross_loss"`
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`
}
