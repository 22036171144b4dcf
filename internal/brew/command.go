package brew

import "strings"

// Command describes a single brew invocation.
type Command struct {
	// Verb is the brew subcommand: update, outdated, upgrade, cleanup
	Verb string
	// Package is the target package for per-package verbs
	Package string
	// Cask marks the target as a cask rather than a formula
	Cask bool
}

// UpdateCommand refreshes the formula repositories
func UpdateCommand() Command {
	return Command{Verb: "update"}
}

// OutdatedCommand lists upgradable packages as JSON
func OutdatedCommand() Command {
	return Command{Verb: "outdated"}
}

// UpgradeCommand upgrades a single package
func UpgradeCommand(pkg string, cask bool) Command {
	return Command{Verb: "upgrade", Package: pkg, Cask: cask}
}

// CleanupCommand prunes old versions and stale downloads
func CleanupCommand() Command {
	return Command{Verb: "cleanup"}
}

// Args returns the CLI arguments for the invocation
func (c Command) Args() []string {
	switch c.Verb {
	case "outdated":
		return []string{"outdated", "--json"}
	case "upgrade":
		args := []string{"upgrade"}
		if c.Cask {
			args = append(args, "--cask")
		}
		if c.Package != "" {
			args = append(args, c.Package)
		}
		return args
	default:
		return []string{c.Verb}
	}
}

func (c Command) String() string {
	return "brew " + strings.Join(c.Args(), " ")
}
