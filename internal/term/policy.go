package term

import "os"

// EnvProgress is the environment variable selecting the progress
// display policy. Recognized values are "never", "always", and "auto";
// anything else behaves as "auto".
const EnvProgress = "TAILRUN_PROGRESS"

// Policy controls whether live progress output is rendered.
type Policy int

const (
	// PolicyAuto shows progress only when attached to an interactive
	// terminal. This is the default.
	PolicyAuto Policy = iota
	// PolicyNever suppresses progress output entirely.
	PolicyNever
	// PolicyAlways renders progress even when output is redirected.
	PolicyAlways
)

// PolicyFromString parses a policy value. Unrecognized values resolve
// to PolicyAuto.
func PolicyFromString(s string) Policy {
	switch s {
	case "never":
		return PolicyNever
	case "always":
		return PolicyAlways
	default:
		return PolicyAuto
	}
}

// PolicyFromEnv resolves the policy from EnvProgress.
func PolicyFromEnv() Policy {
	return PolicyFromString(os.Getenv(EnvProgress))
}

func (p Policy) String() string {
	switch p {
	case PolicyNever:
		return "never"
	case PolicyAlways:
		return "always"
	default:
		return "auto"
	}
}

// ShouldShow reports whether progress output should be rendered on f
// under this policy.
func (p Policy) ShouldShow(f *os.File) bool {
	switch p {
	case PolicyNever:
		return false
	case PolicyAlways:
		return true
	default:
		return IsTerminal(f)
	}
}
