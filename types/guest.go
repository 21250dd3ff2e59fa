package types

// HostPath is a path on the host filesystem
type HostPath string

// GuestPath is a path inside the guest filesystem
type GuestPath string

// GuestCredentials authenticate an operation inside the guest. They are
// passed per call and never stored by drivers.
type GuestCredentials struct {
	Username string
	Password string
	Domain   string
}

// String hides the secret so credentials can be logged safely
func (c GuestCredentials) String() string {
	user := c.Username
	if c.Domain != "" {
		user = c.Domain + `\` + user
	}
	return user + ":******"
}

// GoString keeps %#v from printing the secret
func (c GuestCredentials) GoString() string {
	return "types.GuestCredentials{" + c.String() + "}"
}

// CopyDirection says which side of a copy is the source
type CopyDirection int

// Copy directions
const (
	ToGuest CopyDirection = iota
	FromGuest
)

func (d CopyDirection) String() string {
	if d == FromGuest {
		return "guest->host"
	}
	return "host->guest"
}

// GuestResult is the outcome of a program run inside the guest
type GuestResult struct {
	ExitCode int    `json:"exitCode"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	// Captured is false when the backend reports only the exit status
	Captured bool `json:"captured"`
}
