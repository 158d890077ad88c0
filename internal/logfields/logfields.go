// Package logfields holds canonical slog attribute keys shared across packages.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeyPlant   = "plant"
	KeyState   = "state"
	KeyPrev    = "previous_state"
	KeyOutcome = "outcome"
	KeyElapsed = "elapsed"
	KeyPath    = "path"
	KeyCommand = "command"
	KeyError   = "error"
)

func Plant(name string) slog.Attr { return slog.String(KeyPlant, name) }
func State(s string) slog.Attr { return slog.String(KeyState, s) }
func PreviousState(s string) slog.Attr { return slog.String(KeyPrev, s) }
func Outcome(o string) slog.Attr { return slog.String(KeyOutcome, o) }
func Elapsed(d time.Duration) slog.Attr { return slog.String(KeyElapsed, d.String()) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Command(c string) slog.Attr { return slog.String(KeyCommand, c) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
