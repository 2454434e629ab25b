package expand

// Env is the variable-lookup seam expand uses, implemented by core.ShellCore
// so this package never imports core directly (the teacher's expand package
// takes the same approach with its own Environ interface).
type Env interface {
	// Get returns a scalar variable's value. ok is false when unset.
	Get(name string) (string, bool)
	// GetArray returns an array variable's elements. ok is false when unset
	// or when name names a scalar.
	GetArray(name string) ([]string, bool)
	// Positional returns the positional parameters $1..$N.
	Positional() []string
	// IFS returns the current field-splitting separator set.
	IFS() string
	// Home returns $HOME for tilde expansion.
	Home() string
	// Set is used by arithmetic substitution to apply variable side effects.
	Set(name, value string)
}

// CmdSubst runs word's command substitution source and returns its
// stdout with trailing newlines stripped (spec.md §4.5). The Config injects
// this rather than expand depending on interp directly, breaking the
// import cycle the two packages would otherwise have.
type CmdSubst func(src string) (string, error)

// Config bundles everything ExpandWord/Literal need.
type Config struct {
	Env      Env
	CmdSubst CmdSubst
	// NoGlob disables filesystem globbing (set -f).
	NoGlob bool
	// Unset, when true, makes reading an unset variable an error
	// (set -u), per spec.md §7 tier 2.
	Unset bool
}
