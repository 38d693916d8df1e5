package bootstrap

// EnvSet is the set of environment variables accumulated by the bootstrap
// steps and handed to child processes started by later steps (the test
// runner in particular). Steps run sequentially, so no locking is needed.
type EnvSet struct {
	vars map[string]string
}

// NewEnvSet creates an empty environment variable set.
func NewEnvSet() *EnvSet {
	return &EnvSet{vars: make(map[string]string)}
}

// Set records a variable. Later writes win.
func (e *EnvSet) Set(key, value string) {
	e.vars[key] = value
}

// Get returns a recorded variable.
func (e *EnvSet) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Snapshot returns a copy of the current variable set, safe for the caller
// to hold across further Set calls.
func (e *EnvSet) Snapshot() map[string]string {
	out := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}
