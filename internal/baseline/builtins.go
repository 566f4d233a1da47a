package baseline

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"quill/internal/enginerr"
	"quill/internal/value"
)

// ansiColors maps the recognized color-name set to SGR escape codes.
// Unrecognized names fall through to uncolored output.
var ansiColors = map[string]string{
	"red":     "\033[31m",
	"green":   "\033[32m",
	"yellow":  "\033[33m",
	"blue":    "\033[34m",
	"magenta": "\033[35m",
	"cyan":    "\033[36m",
	"white":   "\033[37m",
	"reset":   "\033[0m",
}

const ansiReset = "\033[0m"

func registerBuiltins(e *Engine) {
	e.builtins["print"] = func(eng *Engine, args []value.Value) (value.Value, error) {
		if len(args) > 0 {
			fmt.Fprint(eng.Stdout, args[0].ToDisplayString())
		}
		return value.Null, nil
	}

	e.builtins["println"] = func(eng *Engine, args []value.Value) (value.Value, error) {
		if len(args) > 0 {
			fmt.Fprintln(eng.Stdout, args[0].ToDisplayString())
		} else {
			fmt.Fprintln(eng.Stdout)
		}
		return value.Null, nil
	}

	e.builtins["input"] = func(eng *Engine, args []value.Value) (value.Value, error) {
		if len(args) > 0 {
			fmt.Fprint(eng.Stdout, args[0].ToDisplayString())
		}
		line, _ := eng.Stdin.ReadString('\n')
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		return value.String(line), nil
	}

	e.builtins["printc"] = func(eng *Engine, args []value.Value) (value.Value, error) {
		printColored(eng, args, false)
		return value.Null, nil
	}
	e.builtins["printlnc"] = func(eng *Engine, args []value.Value) (value.Value, error) {
		printColored(eng, args, true)
		return value.Null, nil
	}

	e.builtins["len"] = func(eng *Engine, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Null, enginerr.New(enginerr.Runtime, "len expects one argument")
		}
		v := args[0]
		switch {
		case v.IsString():
			return value.Int(int64(len([]rune(v.AsString())))), nil
		case v.IsArray():
			return value.Int(int64(len(v.AsArray()))), nil
		case v.IsMap():
			return value.Int(int64(len(v.AsMap()))), nil
		default:
			return value.Null, enginerr.New(enginerr.Runtime, "len expects string, array, or map")
		}
	}
}

// printColored writes args[0] in the color named by args[1] (if given
// and recognized), followed by a newline when newline is true. Color
// escapes are suppressed when stdout is not a terminal.
func printColored(eng *Engine, args []value.Value, newline bool) {
	var text, colorName string
	if len(args) > 0 {
		text = args[0].ToDisplayString()
	}
	if len(args) > 1 {
		colorName = args[1].AsString()
	}

	useColor := false
	if f, ok := eng.Stdout.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	code, known := ansiColors[colorName]
	if useColor && known {
		fmt.Fprint(eng.Stdout, code, text, ansiReset)
	} else {
		fmt.Fprint(eng.Stdout, text)
	}
	if newline {
		fmt.Fprintln(eng.Stdout)
	}
}
