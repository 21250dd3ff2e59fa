package constants

// Version of hvctl
const Version = "0.3.0"

const (
	// WarningColor used in warning texts
	WarningColor = "\033[1;33m%s\033[0m"
	// ErrorColor used in error texts
	ErrorColor = "\033[1;31m%s\033[0m"
)

// GuestPasswordEnv holds the guest password so it need not be prompted
const GuestPasswordEnv = "HVCTL_GUEST_PASSWORD"
