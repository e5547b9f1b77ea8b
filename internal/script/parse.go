package script

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidScript is returned when a script document is malformed.
	ErrInvalidScript = errors.New("invalid script")

	// ErrInvalidStep is returned when a step cannot be parsed.
	ErrInvalidStep = errors.New("invalid step")
)

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI arg
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read script %s", path)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	return s, nil
}

// Parse parses a YAML script document.
func Parse(data []byte) (*Script, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(ErrInvalidScript, err.Error())
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.Wrap(ErrInvalidScript, "empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrInvalidScript, "line %d: expected a mapping", root.Line)
	}

	s := &Script{}

	var stepsNode *yaml.Node

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		switch key.Value {
		case "name":
			s.Name = value.Value
		case "steps":
			stepsNode = value
		default:
			return nil, errors.Wrapf(ErrInvalidScript, "line %d: unknown key %q", key.Line, key.Value)
		}
	}

	if stepsNode == nil {
		return nil, errors.Wrap(ErrInvalidScript, "missing steps")
	}

	steps, err := parseSteps(stepsNode)
	if err != nil {
		return nil, err
	}

	s.Steps = steps

	return s, nil
}

func parseSteps(node *yaml.Node) ([]Step, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, errors.Wrapf(ErrInvalidScript, "line %d: steps must be a list", node.Line)
	}

	steps := make([]Step, 0, len(node.Content))

	for _, item := range node.Content {
		st, err := parseStep(item)
		if err != nil {
			return nil, err
		}

		steps = append(steps, st)
	}

	return steps, nil
}

func parseStep(node *yaml.Node) (Step, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		op := Op(node.Value)
		if !bareOps[op] {
			return Step{}, stepError(node, "%q needs an argument", node.Value)
		}

		return Step{Op: op, Line: node.Line}, nil

	case yaml.MappingNode:
		return parseMappingStep(node)

	default:
		return Step{}, stepError(node, "expected an operation")
	}
}

func parseMappingStep(node *yaml.Node) (Step, error) {
	var (
		st       Step
		argsNode *yaml.Node
	)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		if key.Value == "args" {
			argsNode = value

			continue
		}

		if st.Op != "" {
			return Step{}, stepError(key, "more than one operation (%s, %s)", st.Op, key.Value)
		}

		st.Op = Op(key.Value)
		st.Line = key.Line

		if err := parseOperand(&st, value); err != nil {
			return Step{}, err
		}
	}

	if st.Op == "" {
		return Step{}, stepError(node, "missing operation")
	}

	if argsNode != nil {
		if st.Op != OpLog {
			return Step{}, stepError(argsNode, "args are only valid for log")
		}

		if err := argsNode.Decode(&st.Args); err != nil {
			return Step{}, stepError(argsNode, "args: %v", err)
		}
	}

	return st, nil
}

func parseOperand(st *Step, value *yaml.Node) error {
	switch {
	case bareOps[st.Op]:
		return stepError(value, "%s takes no argument", st.Op)

	case scalarOps[st.Op]:
		if value.Kind != yaml.ScalarNode {
			return stepError(value, "%s expects a scalar", st.Op)
		}

		st.Arg = value.Value

		if st.Op == OpSleep {
			d, err := time.ParseDuration(value.Value)
			if err != nil || d < 0 {
				return stepError(value, "sleep expects a non-negative duration, got %q", value.Value)
			}

			st.Sleep = d
		}

		if (st.Op == OpBegin || st.Op == OpEnd) && st.Arg == "" {
			return stepError(value, "%s expects a frame name", st.Op)
		}

		return nil

	case st.Op == OpRepeat:
		return parseRepeat(st, value)

	default:
		return stepError(value, "unknown operation %q", st.Op)
	}
}

func parseRepeat(st *Step, value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return stepError(value, "repeat expects times and steps")
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key, v := value.Content[i], value.Content[i+1]

		switch key.Value {
		case "times":
			if err := v.Decode(&st.Times); err != nil {
				return stepError(v, "times: %v", err)
			}
		case "steps":
			steps, err := parseSteps(v)
			if err != nil {
				return err
			}

			st.Steps = steps
		default:
			return stepError(key, "unknown repeat key %q", key.Value)
		}
	}

	if st.Times < 0 {
		return stepError(value, "times must not be negative")
	}

	return nil
}

func stepError(node *yaml.Node, format string, args ...any) error {
	return errors.Wrapf(ErrInvalidStep, "line %d: "+format, append([]any{node.Line}, args...)...)
}
