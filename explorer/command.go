package explorer

import (
	"fmt"
	"strconv"
	"strings"

	"NewtonsFractal/fractal"
	"NewtonsFractal/plane"
	"NewtonsFractal/surface"
)

const (
	Draw Kind = iota
	Clear
	ToggleMode
	ZoomIn
	ZoomOut
	SetFunction
	SetParams
	SetMargin
	ToggleRoots
	SetAxes
	Save
)

type Kind int

var kindNames = []string{
	"draw", "clear", "toggle-mode", "zoom-in", "zoom-out", "function",
	"params", "margin", "roots", "axes", "save",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParamUpdate changes one render parameter by name.
type ParamUpdate struct {
	Name  string
	Value string
}

// Command is one request to the explorer loop. Only the fields of its Kind
// are read. A ZoomIn without corners asks the input surface for them.
type Command struct {
	Kind Kind

	Axes       surface.Axes
	Corners    []plane.WorldPoint
	FunctionID int
	Margin     plane.Margin
	Params     *fractal.Params
	Path       string
	Scale      int
	Updates    []ParamUpdate
}

func (c Command) String() string {
	output := "{Command "
	output += fmt.Sprintf("Kind: %s", c.Kind)
	switch c.Kind {
	case ZoomIn:
		output += fmt.Sprintf(" Corners: %v", c.Corners)
	case SetFunction:
		output += fmt.Sprintf(" FunctionID: %d", c.FunctionID)
	case SetParams:
		if c.Params != nil {
			output += fmt.Sprintf(" Params: %s", c.Params)
		}
		output += fmt.Sprintf(" Updates: %v", c.Updates)
	case SetMargin:
		output += fmt.Sprintf(" Margin: %v", c.Margin)
	case SetAxes:
		output += fmt.Sprintf(" Axes: %s", c.Axes)
	case Save:
		output += fmt.Sprintf(" Path: %s Scale: %d", c.Path, c.Scale)
	}
	return output + "}"
}

// ParseCommand reads the text form used by the web page and -command:
//
//	draw | clear | toggle-mode | zoom-out
//	zoom-in [x1 y1 x2 y2]
//	function <id>
//	params <name>=<value> ...   (a zero value selects the default)
//	margin <horizontal> <vertical>
//	roots
//	axes none|classic|box
//	save <file> [scale]
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	name, args := fields[0], fields[1:]

	kind := Kind(-1)
	for i, n := range kindNames {
		if n == name {
			kind = Kind(i)
		}
	}
	command := Command{Kind: kind}

	switch kind {
	case Draw, Clear, ToggleMode, ZoomOut, ToggleRoots:
		if len(args) != 0 {
			return command, fmt.Errorf("%s takes no arguments", name)
		}
	case ZoomIn:
		if len(args) == 0 {
			return command, nil
		}
		values, err := parseFloats(name, args, 4)
		if err != nil {
			return command, err
		}
		command.Corners = []plane.WorldPoint{{X: values[0], Y: values[1]}, {X: values[2], Y: values[3]}}
	case SetFunction:
		if len(args) != 1 {
			return command, fmt.Errorf("function takes one id")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return command, fmt.Errorf("function id %q: %w", args[0], err)
		}
		command.FunctionID = id
	case SetParams:
		if len(args) == 0 {
			return command, fmt.Errorf("params needs at least one name=value")
		}
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return command, fmt.Errorf("params argument %q is not name=value", arg)
			}
			command.Updates = append(command.Updates, ParamUpdate{Name: key, Value: value})
		}
	case SetMargin:
		values, err := parseFloats(name, args, 2)
		if err != nil {
			return command, err
		}
		command.Margin = plane.Margin{Horizontal: values[0], Vertical: values[1]}
	case SetAxes:
		if len(args) != 1 {
			return command, fmt.Errorf("axes takes one of none, classic or box")
		}
		axes, err := surface.ParseAxes(args[0])
		if err != nil {
			return command, err
		}
		command.Axes = axes
	case Save:
		if len(args) < 1 || len(args) > 2 {
			return command, fmt.Errorf("save takes a file name and an optional scale")
		}
		command.Path = args[0]
		command.Scale = 1
		if len(args) == 2 {
			scale, err := strconv.Atoi(args[1])
			if err != nil || scale < 1 {
				return command, fmt.Errorf("save scale %q must be a positive integer", args[1])
			}
			command.Scale = scale
		}
	default:
		return command, fmt.Errorf("unknown command %q", name)
	}
	return command, nil
}

func parseFloats(name string, args []string, count int) ([]float64, error) {
	if len(args) != count {
		return nil, fmt.Errorf("%s takes %d numbers, got %d", name, count, len(args))
	}
	values := make([]float64, count)
	for i, arg := range args {
		value, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%s argument %q: %w", name, arg, err)
		}
		values[i] = value
	}
	return values, nil
}

// apply returns p with the updates applied. The result is not validated.
func apply(p fractal.Params, updates []ParamUpdate) (fractal.Params, error) {
	for _, u := range updates {
		var err error
		switch u.Name {
		case "maxIterations":
			p.MaxIterations, err = strconv.Atoi(u.Value)
		case "resolution":
			p.Resolution, err = strconv.Atoi(u.Value)
		case "sweeps":
			p.Sweeps, err = strconv.Atoi(u.Value)
		case "epsilon":
			p.Epsilon, err = strconv.ParseFloat(u.Value, 64)
		case "colorMultiplier":
			p.ColorMultiplier, err = strconv.ParseFloat(u.Value, 64)
		case "mode":
			p.Mode, err = fractal.ParseMode(u.Value)
		default:
			err = fmt.Errorf("unknown parameter")
		}
		if err != nil {
			return p, fmt.Errorf("parameter %s=%s: %w", u.Name, u.Value, err)
		}
	}
	return p, nil
}
