package ports

// RepoRegistry holds the ordered set of active projects.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type RepoRegistry interface {
	// Load reads the list at path and returns the active projects in order.
	Load(path string) ([]string, error)

	// Reload re-reads the list and returns the projects that were not active before,
	// along with the full active set. Projects missing from the new list stay active.
	Reload() (added, all []string, err error)

	// Active returns the active projects in order.
	Active() []string

	// Contains reports whether name is an active project.
	Contains(name string) bool
}
