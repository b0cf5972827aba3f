package execute

import "context"

// Recorder is a Runner for tests. It records every command line and answers
// from scripted tables instead of executing anything.
type Recorder struct {
	// Commands holds every command line in execution order.
	Commands []string
	// Fail maps a command line to the error it should return.
	Fail map[string]error
	// Outputs maps a command line to its stdout.
	Outputs map[string]string
}

func (r *Recorder) Run(_ context.Context, name string, args ...string) error {
	_, err := r.record(name, args)

	return err
}

func (r *Recorder) Output(_ context.Context, name string, args ...string) (string, error) {
	return r.record(name, args)
}

func (r *Recorder) record(name string, args []string) (string, error) {
	line := CommandLine(name, args...)
	r.Commands = append(r.Commands, line)
	if err, ok := r.Fail[line]; ok {
		return "", err
	}

	return r.Outputs[line], nil
}

// Ran reports whether the exact command line was executed.
func (r *Recorder) Ran(line string) bool {
	for _, c := range r.Commands {
		if c == line {
			return true
		}
	}

	return false
}
