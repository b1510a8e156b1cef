package compile

import (
	"al.essio.dev/pkg/shellescape"
)

// Render flattens the plan into argv: the tool command first, then the
// flag atoms in plan order, then the positional entry script last. The
// entry script is never subject to flag templating.
func (p *Plan) Render() []string {
	args := make([]string, 0, len(p.Tool.Command)+len(p.Atoms)+1)
	args = append(args, p.Tool.Command...)
	for _, atom := range p.Atoms {
		args = append(args, atom.Args...)
	}
	if p.EntryScript != "" {
		args = append(args, p.EntryScript)
	}
	return args
}

// RenderString renders the plan as a single shell-quoted command line,
// suitable for the preview display or for pasting into a terminal.
func (p *Plan) RenderString() string {
	return shellescape.QuoteCommand(p.Render())
}
