package types

import "time"

type SignalType string

const (
	// SignalTypeEnterLong is a signal that tells the engine to open a long position
	SignalTypeEnterLong SignalType = "enter_long"
	// SignalTypeExitLong is a signal that tells the engine to close the open long position
	SignalTypeExitLong SignalType = "exit_long"
	// SignalTypeHold is a signal that tells the engine to take no action
	SignalTypeHold SignalType = "hold"
)

type Signal struct {
	// Time is the time of the signal
	Time time.Time
	// Type is the type of the signal
	Type SignalType
	// Name is the name of the strategy that produced the signal
	Name string
	// Reason is the reason for the signal
	Reason string
	// Indicator is the indicator that generated the signal
	Indicator IndicatorType
	// RawValue is the indicator value that triggered the signal
	RawValue float64
}
