package input

import (
	"context"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/morse"
)

const (
	DefaultShortPress = 80 * time.Millisecond
	DefaultLongPress  = 300 * time.Millisecond
	tapPress          = 50 * time.Millisecond
)

// Script replays button presses described by a Lua program. It exposes:
//
//	press(dir, ms)  dot()  dash()  commit()  backspace()
//	spell(text)     send(text)     sleep(ms)  log(msg)
//
// spell keys in each character as pulses followed by a right press; send
// spells and then commits the message.
type Script struct {
	Name  string
	Short time.Duration
	Long  time.Duration

	src string
	log *zap.Logger
}

func NewScript(name, src string, log *zap.Logger) *Script {
	if log == nil {
		log = zap.NewNop()
	}
	return &Script{
		Name:  name,
		Short: DefaultShortPress,
		Long:  DefaultLongPress,
		src:   src,
		log:   log.Named("script"),
	}
}

// LoadScript reads a script from disk.
func LoadScript(path string, log *zap.Logger) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return NewScript(path, string(src), log), nil
}

// Run executes the script, delivering presses to out. It returns nil when
// the script finishes or ctx is cancelled.
func (s *Script) Run(ctx context.Context, out chan<- Event) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	emit := func(L *lua.LState, ev Event) {
		select {
		case out <- ev:
		case <-ctx.Done():
			L.RaiseError("cancelled")
		}
	}
	tap := func(L *lua.LState, d Direction) { emit(L, Event{Direction: d, Duration: tapPress}) }
	spell := func(L *lua.LState, text string) {
		for _, c := range text {
			seq, ok := morse.Encode(c)
			if !ok {
				L.ArgError(1, fmt.Sprintf("no morse code for %q", c))
				return
			}
			for _, sym := range seq {
				d := s.Short
				if sym == morse.Long {
					d = s.Long
				}
				emit(L, Event{Direction: Down, Duration: d})
			}
			tap(L, Right)
		}
	}

	funcs := map[string]lua.LGFunction{
		"press": func(L *lua.LState) int {
			name := L.CheckString(1)
			dir, ok := ParseDirection(name)
			if !ok {
				L.ArgError(1, "unknown direction "+name)
				return 0
			}
			ms := L.OptInt(2, int(s.Short/time.Millisecond))
			emit(L, Event{Direction: dir, Duration: time.Duration(ms) * time.Millisecond})
			return 0
		},
		"dot":       func(L *lua.LState) int { emit(L, Event{Direction: Down, Duration: s.Short}); return 0 },
		"dash":      func(L *lua.LState) int { emit(L, Event{Direction: Down, Duration: s.Long}); return 0 },
		"commit":    func(L *lua.LState) int { tap(L, Right); return 0 },
		"backspace": func(L *lua.LState) int { tap(L, Left); return 0 },
		"spell":     func(L *lua.LState) int { spell(L, L.CheckString(1)); return 0 },
		"send": func(L *lua.LState) int {
			spell(L, L.CheckString(1))
			tap(L, Right)
			return 0
		},
		"sleep": func(L *lua.LState) int {
			d := time.Duration(L.CheckInt(1)) * time.Millisecond
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
				L.RaiseError("cancelled")
			}
			return 0
		},
		"log": func(L *lua.LState) int {
			s.log.Info(L.CheckString(1))
			return 0
		},
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	s.log.Debug("running script", zap.String("name", s.Name))
	if err := L.DoString(s.src); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("script %s: %w", s.Name, err)
	}
	return nil
}
