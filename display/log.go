package display

import (
	"strings"

	"go.uber.org/zap"
)

// LogPresenter returns a present func for headless runs. A frame is
// logged only when it differs from the previous one.
func LogPresenter(log *zap.Logger) func(Screen) error {
	var last Screen
	first := true
	return func(s Screen) error {
		if !first && s == last {
			return nil
		}
		first, last = false, s

		rows := make([]string, 0, Rows)
		for i, line := range s.Lines {
			line = strings.TrimRight(line, " ")
			if s.Boxed[i] {
				line = "[" + line + "]"
			}
			rows = append(rows, line)
		}
		log.Info("screen", zap.Strings("rows", rows))
		return nil
	}
}
