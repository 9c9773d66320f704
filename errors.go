package bastion

import "errors"

var (
	// ErrNoAuthRealm is returned by NewManager when no realm has
	// authentication enabled. Starting without an authentication path
	// would silently admit everyone, so this is fatal.
	ErrNoAuthRealm = errors.New("bastion: no realm has authentication enabled")

	// ErrNoRoleRepository is returned by NewManager when no role
	// repository was provided; the internal realm cannot exist without one.
	ErrNoRoleRepository = errors.New("bastion: role repository is required")

	// ErrNoUserStore is returned by NewManager when no user store was
	// provided.
	ErrNoUserStore = errors.New("bastion: user store is required")

	// ErrRealmUnavailable is returned when a permission check could not
	// consult every authorization-enabled realm. The degraded decision is
	// still returned but never cached.
	ErrRealmUnavailable = errors.New("bastion: realm unavailable")
)
